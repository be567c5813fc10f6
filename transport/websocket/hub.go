package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from a viewer.
	maxMessageSize = 512
)

// Viewer event names
const (
	EventState      = "state"
	EventWord       = "word"
	EventMessage    = "message"
	EventClear      = "clear"
	EventRights     = "rights"
	EventScoreboard = "scoreboard"
	EventStroke     = "stroke"
	EventNavigate   = "navigate"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Viewers are served from the same loopback API
		return true
	},
}

// Event is one render update pushed to viewers
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Client is one connected viewer
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of connected viewers and broadcasts render events
type Hub struct {
	// Registered viewers
	clients map[*Client]bool

	// Outbound events
	broadcast chan []byte

	// Register requests from viewers
	register chan *Client

	// Unregister requests from viewers
	unregister chan *Client

	// Returns the event sent to a viewer right after it connects
	initial func() *Event

	stop chan struct{}
}

// NewHub creates a new viewer hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
	}
}

// OnConnect sets the event sent to each viewer when it connects.
// It must be called before Run.
func (h *Hub) OnConnect(initial func() *Event) {
	h.initial = initial
}

// Run starts the hub's event loop; it returns after Stop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case data := <-h.broadcast:
			h.broadcastMessage(data)

		case <-h.stop:
			for client := range h.clients {
				h.unregisterClient(client)
			}
			return
		}
	}
}

// Stop ends the event loop and disconnects every viewer
func (h *Hub) Stop() {
	close(h.stop)
}

// ServeWS upgrades a viewer connection and registers it
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}

	if h.initial != nil {
		if data, err := json.Marshal(h.initial()); err == nil {
			client.send <- data
		}
	}

	select {
	case h.register <- client:
	case <-h.stop:
		conn.Close()
		return
	}

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// Broadcast queues an event for every connected viewer
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(&Event{Event: event, Data: data})
	if err != nil {
		log.Printf("Failed to marshal viewer event: %v", err)
		return
	}

	select {
	case h.broadcast <- payload:
	case <-h.stop:
	default:
		log.Printf("Viewer hub backlog full, dropping %s event", event)
	}
}

// registerClient adds a viewer
func (h *Hub) registerClient(client *Client) {
	h.clients[client] = true
	log.Printf("Viewer registered (total viewers: %d)", len(h.clients))
}

// unregisterClient removes a viewer
func (h *Hub) unregisterClient(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		log.Printf("Viewer unregistered (remaining viewers: %d)", len(h.clients))
	}
}

// broadcastMessage sends a payload to every viewer
func (h *Hub) broadcastMessage(data []byte) {
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Viewer's send channel is full, drop it
			h.unregisterClient(client)
		}
	}
}

// readPump keeps the viewer connection alive until it goes away
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.stop:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Viewers act through the HTTP API; inbound frames are ignored
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps events from the hub to the viewer connection.
// Each event is its own frame so viewers can parse them one by one.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
