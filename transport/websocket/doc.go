// Package websocket provides WebSocket transport for the Kalambury client.
//
// The websocket package implements:
//   - Channel, one persistent connection to the game backend
//   - Hub, which fans render events out to loopback viewers
//   - Viewer, a session observer that feeds the Hub
//
// Game Channels:
//
// The client holds two channels to the backend, chat and draw. Dial opens
// the connection and immediately sends the stored token as a raw text
// frame; the backend binds the connection to a player by that first frame.
// A Channel moves through Connecting, Open and Closed. Frames are only
// written while Open and are dropped otherwise, with no queueing.
//
// Each channel runs one reader goroutine that hands frames to OnMessage in
// arrival order. OnClose runs exactly once, whether the server went away,
// the connection failed or Close was called.
//
// Viewer Protocol:
//
// Viewers connect to the hub and receive JSON events, one per frame:
//   - {event: "state", data: <session snapshot>} on connect
//   - {event: "word"|"message"|"navigate", data: "<text>"}
//   - {event: "stroke", data: {from, to, color}} in local pixels
//   - {event: "rights", data: {can_draw, clear_visible}}
//   - {event: "scoreboard", data: [{username, isDrawing, points}]}
//   - {event: "clear"}
//
// Usage:
//
//	chat, err := websocket.Dial(ctx, cfg.ChatURL(), token, websocket.ChannelOptions{
//		Name:      "ChatWebSocket",
//		OnMessage: func(frame []byte) { sess.HandleInboundFrame(frame) },
//		OnClose:   func(err error) { teardown() },
//	})
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	sess.AddObserver(websocket.NewViewer(hub))
//	http.HandleFunc("/ws", hub.ServeWS)
//
// Concurrency:
//
// Channel writes are serialized by a mutex, so Send is safe from any
// goroutine. The hub owns its viewer set inside the Run loop; Broadcast
// only queues and never blocks on a slow viewer.
package websocket
