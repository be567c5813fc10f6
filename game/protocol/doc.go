// Package protocol defines the wire messages exchanged with the Kalambury
// game server.
//
// The protocol package covers:
//   - Chat channel messages: a tagged union of a message kind and string content
//   - Drawing channel messages: one line segment with its reference canvas size
//   - Scoreboard snapshots carried as JSON inside a chat message
//   - Login credentials posted to the REST endpoint
//
// Message Kinds:
//
// The chat channel carries seven message kinds (see MsgType). Parsing rejects
// frames whose kind is missing or outside the enumeration instead of letting
// them fall through, so callers can log and drop them.
//
// Coordinate Frames:
//
// Every stroke carries the size of the canvas it was drawn on. Receivers map
// it into their own pixel space with Rescale, scaling each axis linearly by
// local/remote, so drawings stay proportional across viewport sizes.
//
// Usage:
//
//	msg, err := protocol.ParseChatMessage(frame)
//	if err != nil {
//		log.Printf("ChatWebSocket: wrong message: %v", err)
//		return
//	}
//
//	stroke, err := protocol.ParseDrawingMessage(frame)
//	if err != nil {
//		return
//	}
//	local := stroke.Rescale(protocol.Cartesian{X: 400, Y: 240})
package protocol
