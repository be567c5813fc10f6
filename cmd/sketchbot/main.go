// Command sketchbot is a drawing bot for a running "kalambury play" process.
// It polls the viewer API and, whenever the player is handed a new word,
// draws a doodle for it and optionally greets the room.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wricardo/kalambury/game/protocol"
	"github.com/wricardo/kalambury/game/service"
)

// Client drives the viewer API
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) GetState() (*service.GameState, error) {
	resp, err := c.client.Get(c.baseURL + "/api/state")
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	defer resp.Body.Close()

	var state service.GameState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	return &state, nil
}

func (c *Client) SetColor(color string) error {
	return c.post("/api/color", map[string]string{"color": color}, nil)
}

func (c *Client) Clear() error {
	return c.post("/api/clear", nil, nil)
}

func (c *Client) Stroke(points []protocol.Cartesian) (*service.DrawResult, error) {
	var result service.DrawResult
	if err := c.post("/api/stroke", map[string]interface{}{"points": points}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Chat(text string) error {
	return c.post("/api/chat", map[string]string{"text": text}, nil)
}

func (c *Client) post(path string, payload interface{}, result interface{}) error {
	var reqBody []byte
	if payload != nil {
		var err error
		reqBody, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	resp, err := c.client.Post(c.baseURL+path, "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s failed: %s - %s", path, resp.Status, bytes.TrimSpace(body))
	}
	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("parse %s response: %w", path, err)
		}
	}
	return nil
}

// Bot draws one doodle per word handed to the player
type Bot struct {
	client   *Client
	greeting string
	clear    bool
	verbose  bool

	lastWord string
}

// Tick polls once and draws when a new word has arrived
func (b *Bot) Tick() error {
	state, err := b.client.GetState()
	if err != nil {
		return err
	}
	if !state.Connected || !state.CanDraw || state.Word == "" {
		if b.verbose {
			log.Printf("Waiting (connected=%t drawing=%t)", state.Connected, state.CanDraw)
		}
		if !state.CanDraw {
			b.lastWord = ""
		}
		return nil
	}
	if state.Word == b.lastWord {
		return nil
	}
	b.lastWord = state.Word

	log.Printf("🎨 New word to draw: %s", state.Word)
	if b.clear {
		if err := b.client.Clear(); err != nil {
			return err
		}
	}

	planner := NewPlanner(state.CanvasSize)
	for i, stroke := range planner.Plan(state.Word) {
		if err := b.client.SetColor(stroke.Color); err != nil {
			return err
		}
		result, err := b.client.Stroke(stroke.Points)
		if err != nil {
			return err
		}
		if b.verbose {
			log.Printf("Stroke %d (%s): %d segments, %d sent", i+1, stroke.Shape, result.Segments, result.Sent)
		}
	}

	if b.greeting != "" {
		return b.client.Chat(b.greeting)
	}
	return nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8081", "Viewer API URL of a running play process")
	interval := flag.Duration("interval", time.Second, "Polling interval")
	greeting := flag.String("greeting", "", "Chat line sent after each drawing")
	clearFirst := flag.Bool("clear", true, "Clear the canvas before drawing")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	log.Printf("Connecting to viewer API at %s", *serverURL)
	bot := &Bot{
		client:   NewClient(*serverURL),
		greeting: *greeting,
		clear:    *clearFirst,
		verbose:  *verbose,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			log.Println("Sketchbot stopped")
			return
		case <-ticker.C:
			if err := bot.Tick(); err != nil {
				log.Printf("⚠️  %v", err)
			}
		}
	}
}
