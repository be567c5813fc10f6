package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMissingFrom  = errors.New("from is missing")
	ErrMissingTo    = errors.New("to is missing")
	ErrMissingSize  = errors.New("size is missing")
	ErrMissingColor = errors.New("color is missing")
	ErrInvalidSize  = errors.New("size must be positive on both axes")
)

type rawDrawingMessage struct {
	From  *Cartesian `json:"from"`
	To    *Cartesian `json:"to"`
	Size  *Cartesian `json:"size"`
	Color *string    `json:"color"`
}

// ParseDrawingMessage decodes a drawing channel frame
func ParseDrawingMessage(frame []byte) (DrawingMessage, error) {
	var raw rawDrawingMessage
	if err := json.Unmarshal(frame, &raw); err != nil {
		return DrawingMessage{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	switch {
	case raw.From == nil:
		return DrawingMessage{}, ErrMissingFrom
	case raw.To == nil:
		return DrawingMessage{}, ErrMissingTo
	case raw.Size == nil:
		return DrawingMessage{}, ErrMissingSize
	case raw.Color == nil:
		return DrawingMessage{}, ErrMissingColor
	}

	// A zero reference size would scale every point to infinity
	if raw.Size.X <= 0 || raw.Size.Y <= 0 {
		return DrawingMessage{}, fmt.Errorf("%w: (%g,%g)", ErrInvalidSize, raw.Size.X, raw.Size.Y)
	}

	return DrawingMessage{
		From:  *raw.From,
		To:    *raw.To,
		Size:  *raw.Size,
		Color: *raw.Color,
	}, nil
}

// Encode returns the JSON text frame for the stroke
func (m DrawingMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Scale returns the per-axis factor mapping the sender frame onto local
func (m DrawingMessage) Scale(local Cartesian) Cartesian {
	return Cartesian{
		X: local.X / m.Size.X,
		Y: local.Y / m.Size.Y,
	}
}

// Rescale maps both endpoints into a canvas of the given local size.
// The returned message carries local as its reference size.
func (m DrawingMessage) Rescale(local Cartesian) DrawingMessage {
	scale := m.Scale(local)
	return DrawingMessage{
		From:  Cartesian{X: m.From.X * scale.X, Y: m.From.Y * scale.Y},
		To:    Cartesian{X: m.To.X * scale.X, Y: m.To.Y * scale.Y},
		Size:  local,
		Color: m.Color,
	}
}
