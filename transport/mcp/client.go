package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/kalambury/game/protocol"
	"github.com/wricardo/kalambury/game/service"
)

// defaultMessageCount is how many log lines message_log returns by default
const defaultMessageCount = 20

// Client is a thin MCP client that proxies to a running player's viewer API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the viewer API at baseURL
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Kalambury",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Kalambury - MCP Interface

This is a thin client that proxies all requests to a running Kalambury player.

GAME OBJECTIVE:
One player draws a secret word, everybody else guesses it in the chat. A correct
guess scores points and the server hands drawing rights to the next player.

AVAILABLE TOOLS:
- login: Log in (creates the account on first use) and join the game
- game_state: Current word, drawing rights, canvas size and color
- send_chat: Send a chat line; while guessing, every line is a guess
- clear_canvas: Clear every player's canvas (drawer only)
- draw_stroke: Draw a polyline in canvas pixels (drawer only)
- set_color: Set the stroke color directly or pick it from the palette
- scoreboard: Players, points and who is drawing
- message_log: Recent chat lines

When game_state shows a word, you are drawing: draw it, never type it.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "login",
		Description: "Log in with a username and password and join the game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"username": map[string]interface{}{
					"type":        "string",
					"description": "Player name",
				},
				"password": map[string]interface{}{
					"type":        "string",
					"description": "Password; a new account is created on first login",
				},
			},
			Required: []string{"username", "password"},
		},
	}, c.handleLogin)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameState)

	// Chat
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "send_chat",
		Description: "Send a chat line. While guessing, the server checks it against the word",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Line to send",
				},
			},
			Required: []string{"text"},
		},
	}, c.handleSendChat)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "clear_canvas",
		Description: "Clear the canvas for every player. Only the drawer may do this",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleClearCanvas)

	// Drawing
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "draw_stroke",
		Description: "Draw a polyline on the canvas in pixels, origin top left. Only the drawer may do this",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"points": map[string]interface{}{
					"type":        "array",
					"description": "At least two points, e.g. [{\"x\":10,\"y\":10},{\"x\":50,\"y\":40}]",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x": map[string]interface{}{"type": "number"},
							"y": map[string]interface{}{"type": "number"},
						},
						"required": []string{"x", "y"},
					},
				},
			},
			Required: []string{"points"},
		},
	}, c.handleDrawStroke)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_color",
		Description: "Set the stroke color. Pass color, or hue (0-1 down the hue strip) with optional white and black (0-1) for a shade",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"color": map[string]interface{}{
					"type":        "string",
					"description": "CSS color, e.g. rgba(255,0,0,1)",
				},
				"hue": map[string]interface{}{
					"type":        "number",
					"description": "Position on the hue strip, 0 (red) to 1 (red again)",
				},
				"white": map[string]interface{}{
					"type":        "number",
					"description": "Amount of white mixed in, 0 to 1",
				},
				"black": map[string]interface{}{
					"type":        "number",
					"description": "Amount of black mixed in, 0 to 1",
				},
			},
		},
	}, c.handleSetColor)

	// Read-only views
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "scoreboard",
		Description: "Show the latest scoreboard",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleScoreboard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "message_log",
		Description: "Show recent chat lines",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"last": map[string]interface{}{
					"type":        "number",
					"description": fmt.Sprintf("Number of lines to return (default %d)", defaultMessageCount),
				},
			},
		},
	}, c.handleMessageLog)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return errors.New(msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// arguments returns the tool arguments, empty when none were sent
func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func (c *Client) handleLogin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	username, _ := args["username"].(string)
	password, _ := args["password"].(string)

	body := map[string]string{
		"username": username,
		"password": password,
	}

	var result service.LoginResult
	if err := c.apiCall("POST", "/api/login", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Logged in as %s\nPage: %s\n", result.Username, result.Route)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var state service.GameState
	if err := c.apiCall("GET", "/api/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleSendChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	text, _ := args["text"].(string)

	if err := c.apiCall("POST", "/api/chat", map[string]string{"text": text}, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Sent: %s", text)), nil
}

func (c *Client) handleClearCanvas(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := c.apiCall("POST", "/api/clear", nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Canvas clear requested"), nil
}

func (c *Client) handleDrawStroke(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	points, err := parsePoints(args["points"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.DrawResult
	if err := c.apiCall("POST", "/api/stroke", map[string]interface{}{"points": points}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Drew %d segments (%d sent)", result.Segments, result.Sent)), nil
}

func (c *Client) handleSetColor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]interface{}{}
	if color, ok := args["color"].(string); ok && color != "" {
		body["color"] = color
	} else if hue, ok := args["hue"].(float64); ok {
		body["hue"] = hue
		if white, ok := args["white"].(float64); ok {
			body["white"] = white
		}
		if black, ok := args["black"].(float64); ok {
			body["black"] = black
		}
	} else {
		return mcp.NewToolResultError("either color or hue is required"), nil
	}

	var result struct {
		Color string `json:"color"`
	}
	if err := c.apiCall("POST", "/api/color", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Color: %s", result.Color)), nil
}

func (c *Client) handleScoreboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var state service.GameState
	if err := c.apiCall("GET", "/api/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(state.Scoreboard) == 0 {
		return mcp.NewToolResultText("No scoreboard yet"), nil
	}
	return mcp.NewToolResultText(protocol.FormatScoreboard(state.Scoreboard)), nil
}

func (c *Client) handleMessageLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	last := defaultMessageCount
	if n, ok := args["last"].(float64); ok && n > 0 {
		last = int(n)
	}

	var state service.GameState
	if err := c.apiCall("GET", "/api/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMessages(state.Messages, last)), nil
}

// parsePoints converts a JSON array of {x, y} objects
func parsePoints(raw interface{}) ([]protocol.Cartesian, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, errors.New("points must be an array of {x, y} objects")
	}
	if len(items) < 2 {
		return nil, errors.New("a stroke needs at least two points")
	}

	points := make([]protocol.Cartesian, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("point %d is not an object", i)
		}
		x, okX := obj["x"].(float64)
		y, okY := obj["y"].(float64)
		if !okX || !okY {
			return nil, fmt.Errorf("point %d needs numeric x and y", i)
		}
		points = append(points, protocol.Cartesian{X: x, Y: y})
	}
	return points, nil
}

func formatGameState(state *service.GameState) string {
	var b strings.Builder

	if state.Username != "" {
		fmt.Fprintf(&b, "Player: %s\n", state.Username)
	}
	fmt.Fprintf(&b, "Page: %s\n", state.Route)
	if state.Connected {
		b.WriteString("Connected: yes\n")
	} else {
		b.WriteString("Connected: no\n")
	}

	if state.CanDraw {
		fmt.Fprintf(&b, "Role: drawing\nWord: %s\n", state.Word)
	} else {
		b.WriteString("Role: guessing\n")
	}

	fmt.Fprintf(&b, "Canvas: %gx%g (%d segments)\n", state.CanvasSize.X, state.CanvasSize.Y, state.Segments)
	fmt.Fprintf(&b, "Color: %s\n", state.Color)
	fmt.Fprintf(&b, "Messages: %d\n", len(state.Messages))

	if len(state.Scoreboard) > 0 {
		b.WriteString("\nScoreboard:\n")
		b.WriteString(protocol.FormatScoreboard(state.Scoreboard))
	}
	return b.String()
}

func formatMessages(messages []string, last int) string {
	if len(messages) == 0 {
		return "No messages yet"
	}
	if len(messages) > last {
		messages = messages[len(messages)-last:]
	}
	return strings.Join(messages, "\n")
}
