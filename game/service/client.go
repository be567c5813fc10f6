package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	gws "github.com/gorilla/websocket"

	"github.com/wricardo/kalambury/game/config"
	"github.com/wricardo/kalambury/game/protocol"
	"github.com/wricardo/kalambury/game/session"
	"github.com/wricardo/kalambury/transport/rest"
	"github.com/wricardo/kalambury/transport/websocket"
)

// Options configures a Client. Zero values get defaults.
type Options struct {
	Config    *config.Config
	Tokens    session.TokenStore
	Login     LoginExchanger
	Navigator Navigator
	Dialer    *gws.Dialer
}

// Client implements GameClient on top of one session and two channels
type Client struct {
	cfg    *config.Config
	tokens session.TokenStore
	login  LoginExchanger
	nav    Navigator
	dialer *gws.Dialer
	sess   *session.Session

	mu       sync.Mutex
	conn     *connection
	username string
}

// connection is one chat/draw channel pair and its teardown
type connection struct {
	mu     sync.Mutex
	chat   *websocket.Channel
	draw   *websocket.Channel
	closed bool
	keep   bool // keep the token on teardown

	once sync.Once
	done chan struct{}
}

var _ GameClient = (*Client)(nil)

// NewClient creates a game client owning sess
func NewClient(sess *session.Session, opts Options) *Client {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Tokens == nil {
		opts.Tokens = session.NewMemoryTokenStore()
	}
	if opts.Login == nil {
		opts.Login = rest.NewLoginClient(opts.Config.LoginURL(), nil)
	}
	if opts.Navigator == nil {
		opts.Navigator = NewRouteTracker(RouteLogin)
	}

	return &Client{
		cfg:      opts.Config,
		tokens:   opts.Tokens,
		login:    opts.Login,
		nav:      opts.Navigator,
		dialer:   opts.Dialer,
		sess:     sess,
		username: opts.Config.Username,
	}
}

// Login exchanges credentials for a token, stores it and moves to the game
// page. On failure nothing changes and the login page stays.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	token, err := c.login.Login(ctx, protocol.Credentials{Username: username, Password: password})
	if err != nil {
		log.Printf("Login: %v", err)
		return nil, err
	}

	if err := c.tokens.Save(token); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	if claimed, err := rest.UsernameFromToken(token); err == nil {
		username = claimed
	}
	c.mu.Lock()
	c.username = username
	c.mu.Unlock()

	c.nav.Navigate(RouteGame)
	return &LoginResult{Username: username, Route: RouteGame}, nil
}

// Logout closes any open channels, forgets the token and returns to the
// login page.
func (c *Client) Logout() error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn != nil && !conn.isClosed() {
		c.teardown(conn)
		return nil
	}
	if err := c.tokens.Remove(); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	c.nav.Navigate(RouteLogin)
	return nil
}

// Start opens the chat and drawing channels with the stored token. Without
// a token it redirects to the login page.
func (c *Client) Start(ctx context.Context) error {
	token, err := c.tokens.Load()
	if err != nil {
		log.Printf("Start: no token, redirecting to login")
		c.nav.Navigate(RouteLogin)
		return ErrNotLoggedIn
	}

	c.mu.Lock()
	if c.conn != nil && !c.conn.isClosed() {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	conn := &connection{done: make(chan struct{})}
	c.conn = conn
	if c.username == "" {
		if claimed, err := rest.UsernameFromToken(token); err == nil {
			c.username = claimed
		}
	}
	c.mu.Unlock()

	c.sess.Reset()
	if c.nav.Current() != RouteGame {
		c.nav.Navigate(RouteGame)
	}

	chat, err := websocket.Dial(ctx, c.cfg.ChatURL(), token, websocket.ChannelOptions{
		Name:   "ChatWebSocket",
		Dialer: c.dialer,
		OnMessage: func(frame []byte) {
			c.sess.HandleInboundFrame(frame)
		},
		OnClose: func(err error) {
			c.teardown(conn)
		},
	})
	if err != nil {
		c.teardown(conn)
		return fmt.Errorf("failed to open chat channel: %w", err)
	}
	conn.attach(&conn.chat, chat)

	draw, err := websocket.Dial(ctx, c.cfg.DrawURL(), token, websocket.ChannelOptions{
		Name:   "DrawingWebSocket",
		Dialer: c.dialer,
		OnMessage: func(frame []byte) {
			c.sess.HandleInboundStroke(frame)
		},
		OnClose: func(err error) {
			c.teardown(conn)
		},
	})
	if err != nil {
		c.teardown(conn)
		return fmt.Errorf("failed to open drawing channel: %w", err)
	}
	conn.attach(&conn.draw, draw)

	if conn.isClosed() {
		return ErrNotConnected
	}
	return nil
}

// Stop closes both channels but keeps the token, like leaving the page
func (c *Client) Stop() {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return
	}

	conn.mu.Lock()
	conn.keep = true
	conn.mu.Unlock()
	c.teardown(conn)
}

// Done is closed when the current connection pair has been torn down
func (c *Client) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	return c.conn.done
}

// teardown runs once per connection pair, whichever side ends first
func (c *Client) teardown(conn *connection) {
	conn.once.Do(func() {
		conn.mu.Lock()
		conn.closed = true
		chat, draw, keep := conn.chat, conn.draw, conn.keep
		conn.mu.Unlock()

		for _, ch := range []*websocket.Channel{draw, chat} {
			if ch != nil {
				log.Printf("%s: Closing connection to %s", ch.Name(), ch.URL())
				ch.Close()
			}
		}

		if !keep {
			if err := c.tokens.Remove(); err != nil {
				log.Printf("Teardown: failed to remove token: %v", err)
			}
			c.sess.Reset()
			c.nav.Navigate(RouteLogin)
		}
		close(conn.done)
	})
}

// SendChat sends a chat line; the server decides whether it is a guess
func (c *Client) SendChat(text string) error {
	chat := c.channels().chatChannel()
	msg := protocol.NewChatMessage(protocol.Message, text)
	if chat == nil || !chat.SendJSON(msg) {
		return ErrNotConnected
	}
	log.Printf("ChatWebSocket: Message sent: %s", text)
	return nil
}

// ClearCanvas asks the server to clear every canvas. Only the drawer may.
func (c *Client) ClearCanvas() error {
	msg, ok := c.sess.ClearCanvasRequest()
	if !ok {
		return ErrNoDrawingRights
	}
	chat := c.channels().chatChannel()
	if chat == nil || !chat.SendJSON(msg) {
		return ErrNotConnected
	}
	log.Printf("ChatWebSocket: Message sent: %s", msg.Type)
	return nil
}

// PointerDown presses the pointer on the canvas
func (c *Client) PointerDown(at protocol.Cartesian) {
	c.sess.PointerDown(at)
}

// PointerMove renders the dragged segment and sends it to the other players
func (c *Client) PointerMove(at protocol.Cartesian) *StrokeResult {
	stroke, ok := c.sess.PointerMove(at)
	if !ok {
		return &StrokeResult{}
	}

	draw := c.channels().drawChannel()
	sent := draw != nil && draw.SendJSON(stroke)
	return &StrokeResult{Drawn: true, Sent: sent, Stroke: &stroke}
}

// PointerUp releases the pointer
func (c *Client) PointerUp() {
	c.sess.PointerUp()
}

// PointerLeave releases the pointer as it leaves the canvas
func (c *Client) PointerLeave() {
	c.sess.PointerLeave()
}

// DrawStroke drags the pointer through points in local canvas pixels
func (c *Client) DrawStroke(points []protocol.Cartesian) (*DrawResult, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}
	if !c.sess.CanDraw() {
		return nil, ErrNoDrawingRights
	}

	result := &DrawResult{}
	c.sess.PointerDown(points[0])
	for _, p := range points[1:] {
		r := c.PointerMove(p)
		if r.Drawn {
			result.Segments++
		}
		if r.Sent {
			result.Sent++
		}
	}
	c.sess.PointerUp()
	return result, nil
}

// Resize fits the canvas to a container width
func (c *Client) Resize(containerWidth float64) (protocol.Cartesian, error) {
	return c.sess.Resize(containerWidth)
}

// SetColor sets the stroke color directly
func (c *Client) SetColor(color string) error {
	color = strings.TrimSpace(color)
	if color == "" {
		return ErrInvalidColor
	}
	c.sess.SetColor(color)
	return nil
}

// PickHue clicks the hue strip at row y
func (c *Client) PickHue(y float64) string {
	return c.sess.PickHue(y)
}

// PickShade clicks the shade block at (x, y)
func (c *Client) PickShade(x, y float64) string {
	color := c.sess.ShadeDown(x, y)
	c.sess.ShadeUp()
	return color
}

// ShadeDown presses the shade block at (x, y) and samples under it
func (c *Client) ShadeDown(x, y float64) string {
	return c.sess.ShadeDown(x, y)
}

// ShadeMove keeps sampling while the shade block is pressed
func (c *Client) ShadeMove(x, y float64) string {
	return c.sess.ShadeMove(x, y)
}

// ShadeUp releases the shade block
func (c *Client) ShadeUp() {
	c.sess.ShadeUp()
}

// State returns a snapshot of the game and connection
func (c *Client) State() *GameState {
	c.mu.Lock()
	username := c.username
	c.mu.Unlock()

	chat, draw := c.channels().chatChannel(), c.channels().drawChannel()
	return &GameState{
		Snapshot:  c.sess.Snapshot(),
		Route:     c.nav.Current(),
		Connected: chat != nil && draw != nil && chat.State() == websocket.Open && draw.State() == websocket.Open,
		Username:  username,
	}
}

// Route returns the current page
func (c *Client) Route() Route {
	return c.nav.Current()
}

// Session returns the session controller
func (c *Client) Session() *session.Session {
	return c.sess
}

func (c *Client) channels() *connection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// attach stores ch in slot unless the pair was already torn down, in which
// case ch is closed right away
func (conn *connection) attach(slot **websocket.Channel, ch *websocket.Channel) {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	if conn.closed {
		ch.Close()
		return
	}
	*slot = ch
}

func (conn *connection) isClosed() bool {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	return conn.closed
}

func (conn *connection) chatChannel() *websocket.Channel {
	if conn == nil {
		return nil
	}
	conn.mu.Lock()
	defer conn.mu.Unlock()
	return conn.chat
}

func (conn *connection) drawChannel() *websocket.Channel {
	if conn == nil {
		return nil
	}
	conn.mu.Lock()
	defer conn.mu.Unlock()
	return conn.draw
}
