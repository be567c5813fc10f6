package service

import (
	"github.com/wricardo/kalambury/game/protocol"
	"github.com/wricardo/kalambury/game/session"
)

// GameState is the client's view of the game plus its connection status
type GameState struct {
	session.Snapshot
	Route     Route  `json:"route"`
	Connected bool   `json:"connected"`
	Username  string `json:"username,omitempty"`
}

// LoginResult contains the outcome of a successful login
type LoginResult struct {
	Username string `json:"username"`
	Route    Route  `json:"route"`
}

// StrokeResult contains the outcome of a pointer move on the canvas
type StrokeResult struct {
	Drawn  bool                     `json:"drawn"`
	Sent   bool                     `json:"sent"`
	Stroke *protocol.DrawingMessage `json:"stroke,omitempty"`
}

// DrawResult contains the outcome of drawing a polyline
type DrawResult struct {
	Segments int `json:"segments"`
	Sent     int `json:"sent"`
}
