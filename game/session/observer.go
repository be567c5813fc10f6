package session

import (
	"github.com/wricardo/kalambury/game/canvas"
	"github.com/wricardo/kalambury/game/protocol"
)

// Observer is notified after session state changes
type Observer interface {
	WordChanged(word string)
	MessageAppended(line string)
	CanvasCleared()
	DrawingRightsChanged(canDraw bool)
	ScoreboardReplaced(scores []protocol.Score)
	StrokeRendered(seg canvas.Segment)
	NextWordRequested()
}

// NopObserver implements Observer with no-ops; embed it to override a subset
type NopObserver struct{}

func (NopObserver) WordChanged(string) {}
func (NopObserver) MessageAppended(string) {}
func (NopObserver) CanvasCleared() {}
func (NopObserver) DrawingRightsChanged(bool) {}
func (NopObserver) ScoreboardReplaced([]protocol.Score) {}
func (NopObserver) StrokeRendered(canvas.Segment) {}
func (NopObserver) NextWordRequested() {}
