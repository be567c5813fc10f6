package session

import (
	"log"

	"github.com/wricardo/kalambury/game/canvas"
	"github.com/wricardo/kalambury/game/protocol"
)

// HandleInboundStroke parses a drawing channel frame and renders it
func (s *Session) HandleInboundStroke(frame []byte) error {
	msg, err := protocol.ParseDrawingMessage(frame)
	if err != nil {
		log.Printf("DrawingWebSocket: Wrong message! %v", err)
		return err
	}
	s.HandleStroke(msg)
	return nil
}

// HandleStroke rescales a remote stroke into the local canvas and renders it.
// Inbound strokes are rendered whether or not the local user may draw.
func (s *Session) HandleStroke(msg protocol.DrawingMessage) canvas.Segment {
	s.mu.Lock()
	local := msg.Rescale(s.canvas.Size())
	seg := s.canvas.DrawLine(local.From, local.To, local.Color)
	s.mu.Unlock()

	s.notify(func(o Observer) { o.StrokeRendered(seg) })
	return seg
}

// PointerDown starts a drag on the canvas
func (s *Session) PointerDown(at protocol.Cartesian) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointer.Down(at)
}

// PointerMove renders the segment dragged since the last position and
// returns the stroke to transmit. Nothing happens unless the pointer is
// pressed and the local user holds drawing rights.
func (s *Session) PointerMove(at protocol.Cartesian) (protocol.DrawingMessage, bool) {
	s.mu.Lock()
	if !s.canDraw || !s.pointer.Pressed() {
		s.mu.Unlock()
		return protocol.DrawingMessage{}, false
	}

	from, to, _ := s.pointer.Move(at)
	color := s.picker.Color()
	seg := s.canvas.DrawLine(from, to, color)
	stroke := protocol.DrawingMessage{
		From:  from,
		To:    to,
		Size:  s.canvas.Size(),
		Color: color,
	}
	s.mu.Unlock()

	s.notify(func(o Observer) { o.StrokeRendered(seg) })
	return stroke, true
}

// PointerUp ends the drag
func (s *Session) PointerUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointer.Up()
}

// PointerLeave ends the drag when the pointer leaves the canvas
func (s *Session) PointerLeave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointer.Leave()
}

// ClearCanvasRequest returns the control message asking the server to clear
// every canvas. It is only available while the local user may draw.
func (s *Session) ClearCanvasRequest() (protocol.ChatMessage, bool) {
	if !s.CanDraw() {
		return protocol.ChatMessage{}, false
	}
	return protocol.NewChatMessage(protocol.CleanCanvas, ""), true
}

// Resize fits the canvas to a container of the given width and resamples
// what has been drawn so far.
func (s *Session) Resize(containerWidth float64) (protocol.Cartesian, error) {
	size, err := canvas.FitWidth(containerWidth)
	if err != nil {
		return protocol.Cartesian{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.canvas.Resize(size.X, size.Y); err != nil {
		return protocol.Cartesian{}, err
	}
	return size, nil
}

// Color returns the active stroke color
func (s *Session) Color() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.picker.Color()
}

// SetColor overrides the active stroke color
func (s *Session) SetColor(color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.picker.Set(color)
}

// PickHue clicks the hue strip at row y
func (s *Session) PickHue(y float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.picker.ClickStrip(y)
}

// ShadeDown presses the shade block at (x, y)
func (s *Session) ShadeDown(x, y float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.picker.BlockDown(x, y)
}

// ShadeMove drags over the shade block
func (s *Session) ShadeMove(x, y float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.picker.BlockMove(x, y)
}

// ShadeUp releases the shade block
func (s *Session) ShadeUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.picker.BlockUp()
}
