package service

import (
	"context"
	"errors"

	"github.com/wricardo/kalambury/game/protocol"
	"github.com/wricardo/kalambury/game/session"
)

var (
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrNotConnected    = errors.New("not connected")
	ErrAlreadyStarted  = errors.New("game already started")
	ErrNoDrawingRights = errors.New("drawing rights required")
	ErrInvalidColor    = errors.New("color is required")
	ErrTooFewPoints    = errors.New("a stroke needs at least two points")
)

// GameClient defines every operation a player can perform
type GameClient interface {
	// Authentication
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout() error

	// Connection
	Start(ctx context.Context) error
	Stop()
	Done() <-chan struct{}

	// Chat
	SendChat(text string) error
	ClearCanvas() error

	// Drawing
	PointerDown(at protocol.Cartesian)
	PointerMove(at protocol.Cartesian) *StrokeResult
	PointerUp()
	PointerLeave()
	DrawStroke(points []protocol.Cartesian) (*DrawResult, error)
	Resize(containerWidth float64) (protocol.Cartesian, error)

	// Color picker
	SetColor(color string) error
	PickHue(y float64) string
	PickShade(x, y float64) string
	ShadeDown(x, y float64) string
	ShadeMove(x, y float64) string
	ShadeUp()

	// State
	State() *GameState
	Route() Route
	Session() *session.Session
}

// LoginExchanger trades credentials for a session token
type LoginExchanger interface {
	Login(ctx context.Context, creds protocol.Credentials) (string, error)
}
