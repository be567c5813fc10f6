// Package session provides the client-side session controller for a
// Kalambury game.
//
// The session package implements:
//   - The drawing-rights flag and the clear-canvas control bound to it
//   - Dispatch of chat channel messages to exactly one handler per kind
//   - Rescaling and rendering of inbound strokes
//   - Pointer drags that render locally and yield outbound strokes
//   - Storage of the opaque login token
//
// Core Types:
//
// Session owns every piece of mutable game state for one connection pair.
// Nothing lives in package-level variables; the service layer holds the
// Session and passes it to whatever needs it. Observer receives render
// notifications after each state change.
//
// TokenStore persists the session token under the fixed key X-Token.
// FileTokenStore keeps it in a small JSON file, MemoryTokenStore in memory.
//
// Concurrency:
//
// The chat and drawing channels deliver frames from their own goroutines.
// Session serializes all mutation behind a mutex, so handlers never
// interleave, and notifies observers after releasing it.
//
// Usage:
//
//	sess, err := session.New(session.Options{Width: 500, Height: 300})
//	if err != nil {
//		log.Fatal(err)
//	}
//	sess.AddObserver(renderer)
//
//	// Chat channel frame
//	sess.HandleInboundFrame(frame)
//
//	// Local drag while holding drawing rights
//	sess.PointerDown(protocol.Cartesian{X: 10, Y: 10})
//	if stroke, ok := sess.PointerMove(protocol.Cartesian{X: 12, Y: 14}); ok {
//		drawChannel.SendJSON(stroke)
//	}
package session
