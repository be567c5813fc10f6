package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// maxFrameSize bounds inbound game frames; scoreboards are the largest
const maxFrameSize = 64 * 1024

// State is the lifecycle state of a Channel
type State int

const (
	Connecting State = iota
	Open
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ChannelOptions configures a Channel
type ChannelOptions struct {
	// Name prefixes log lines, e.g. "ChatWebSocket"
	Name string

	// OnMessage receives every inbound text frame, one at a time
	OnMessage func(frame []byte)

	// OnClose runs once when the connection ends. err is nil when the
	// channel was closed locally or by a normal close frame.
	OnClose func(err error)

	// Dialer defaults to websocket.DefaultDialer
	Dialer *websocket.Dialer
}

// Channel is one persistent game connection to the backend
type Channel struct {
	name      string
	url       string
	conn      *websocket.Conn
	onMessage func([]byte)
	onClose   func(error)

	mu    sync.Mutex
	state State
	local bool

	writeMu    sync.Mutex
	finishOnce sync.Once
	done       chan struct{}
}

// Dial connects to url, sends token as a raw text frame and starts
// delivering inbound frames to OnMessage.
func Dial(ctx context.Context, url, token string, opts ChannelOptions) (*Channel, error) {
	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	name := opts.Name
	if name == "" {
		name = "WebSocket"
	}

	c := &Channel{
		name:      name,
		url:       url,
		onMessage: opts.OnMessage,
		onClose:   opts.OnClose,
		state:     Connecting,
		done:      make(chan struct{}),
	}

	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		c.state = Closed
		close(c.done)
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	c.conn = conn
	c.conn.SetReadLimit(maxFrameSize)

	// The backend binds the connection to a player by its first frame
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(token)); err != nil {
		c.conn.Close()
		c.state = Closed
		close(c.done)
		return nil, fmt.Errorf("failed to send token: %w", err)
	}

	c.state = Open
	log.Printf("%s: Connected to %s", c.name, url)

	go c.readPump()
	return c, nil
}

// Name returns the log name of the channel
func (c *Channel) Name() string {
	return c.name
}

// URL returns the endpoint the channel is connected to
func (c *Channel) URL() string {
	return c.url
}

// State returns the current lifecycle state
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed once the connection has ended
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Send writes a text frame. Frames sent while the channel is not open are
// dropped; Send reports whether the frame was written.
func (c *Channel) Send(frame []byte) bool {
	if c.State() != Open {
		return false
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		log.Printf("%s: send failed: %v", c.name, err)
		return false
	}
	return true
}

// SendJSON encodes v and sends it like Send
func (c *Channel) SendJSON(v interface{}) bool {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("%s: failed to marshal frame: %v", c.name, err)
		return false
	}
	return c.Send(data)
}

// Close sends a normal close frame and drops the connection. It is safe to
// call more than once and from within the channel's own callbacks.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.state == Closed {
		c.mu.Unlock()
		return nil
	}
	c.state = Closed
	c.local = true
	c.mu.Unlock()

	c.writeMu.Lock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()

	c.conn.Close()
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return fmt.Errorf("failed to send close frame: %w", err)
	}
	return nil
}

// readPump delivers inbound frames until the connection ends
func (c *Channel) readPump() {
	for {
		msgType, frame, err := c.conn.ReadMessage()
		if err != nil {
			c.finish(err)
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if c.onMessage != nil {
			c.onMessage(frame)
		}
	}
}

// finish moves the channel to Closed and fires OnClose exactly once
func (c *Channel) finish(err error) {
	c.finishOnce.Do(func() {
		c.mu.Lock()
		c.state = Closed
		local := c.local
		c.mu.Unlock()
		c.conn.Close()

		if local || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			log.Printf("%s: Closed", c.name)
			err = nil
		} else {
			log.Printf("%s: Error: %v", c.name, err)
		}

		close(c.done)
		if c.onClose != nil {
			c.onClose(err)
		}
	})
}
