package websocket

import (
	"github.com/wricardo/kalambury/game/canvas"
	"github.com/wricardo/kalambury/game/protocol"
	"github.com/wricardo/kalambury/game/session"
)

// Viewer relays session render notifications to the hub's viewers
type Viewer struct {
	hub *Hub
}

var _ session.Observer = (*Viewer)(nil)

// NewViewer creates a session observer that broadcasts through hub
func NewViewer(hub *Hub) *Viewer {
	return &Viewer{hub: hub}
}

func (v *Viewer) WordChanged(word string) {
	v.hub.Broadcast(EventWord, word)
}

func (v *Viewer) MessageAppended(line string) {
	v.hub.Broadcast(EventMessage, line)
}

func (v *Viewer) CanvasCleared() {
	v.hub.Broadcast(EventClear, nil)
}

func (v *Viewer) DrawingRightsChanged(canDraw bool) {
	v.hub.Broadcast(EventRights, map[string]bool{"can_draw": canDraw, "clear_visible": canDraw})
}

func (v *Viewer) ScoreboardReplaced(scores []protocol.Score) {
	v.hub.Broadcast(EventScoreboard, scores)
}

func (v *Viewer) StrokeRendered(seg canvas.Segment) {
	v.hub.Broadcast(EventStroke, seg)
}

// NextWordRequested has nothing to render; the server pushes the next word
func (v *Viewer) NextWordRequested() {}

// Navigated broadcasts a route change
func (v *Viewer) Navigated(route string) {
	v.hub.Broadcast(EventNavigate, route)
}
