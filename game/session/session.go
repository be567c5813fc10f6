package session

import (
	"fmt"
	"sync"

	"github.com/wricardo/kalambury/game/canvas"
	"github.com/wricardo/kalambury/game/protocol"
)

const (
	// CelebrationText is appended to the message log after a correct guess
	CelebrationText = "Zgadłeś!"

	DefaultWidth       = 500
	DefaultHeight      = 300
	DefaultStripHeight = 150
	DefaultBlockSize   = 150
)

// Options configures a new Session
type Options struct {
	Width       float64
	Height      float64
	StripHeight float64
	BlockWidth  float64
	BlockHeight float64
	Celebration string
}

// Session is the state controller for one game session
type Session struct {
	mu sync.RWMutex

	canDraw    bool
	word       string
	messages   []string
	scoreboard []protocol.Score

	canvas  *canvas.Canvas
	pointer canvas.Pointer
	picker  *canvas.Picker

	celebration string
	observers   []Observer
}

// Snapshot is a read-only copy of the session state
type Snapshot struct {
	CanDraw      bool               `json:"can_draw"`
	ClearVisible bool               `json:"clear_visible"`
	Word         string             `json:"word"`
	Messages     []string           `json:"messages"`
	Scoreboard   []protocol.Score   `json:"scoreboard"`
	CanvasSize   protocol.Cartesian `json:"canvas_size"`
	Segments     int                `json:"segments"`
	Color        string             `json:"color"`
	Drawing      bool               `json:"drawing"`
	Picking      bool               `json:"picking"`
}

// New creates a session with an empty canvas and no drawing rights
func New(opts Options) (*Session, error) {
	if opts.Width == 0 && opts.Height == 0 {
		opts.Width, opts.Height = DefaultWidth, DefaultHeight
	}
	if opts.StripHeight == 0 {
		opts.StripHeight = DefaultStripHeight
	}
	if opts.BlockWidth == 0 {
		opts.BlockWidth = DefaultBlockSize
	}
	if opts.BlockHeight == 0 {
		opts.BlockHeight = DefaultBlockSize
	}
	if opts.Celebration == "" {
		opts.Celebration = CelebrationText
	}

	c, err := canvas.New(opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to create canvas: %w", err)
	}

	return &Session{
		messages:    make([]string, 0),
		canvas:      c,
		picker:      canvas.NewPicker(opts.StripHeight, opts.BlockWidth, opts.BlockHeight),
		celebration: opts.Celebration,
	}, nil
}

// AddObserver registers an observer for render notifications
func (s *Session) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// CanDraw reports whether the local user holds drawing rights
func (s *Session) CanDraw() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canDraw
}

// CanClearCanvas reports whether the clear-canvas control is available.
// It always matches CanDraw.
func (s *Session) CanClearCanvas() bool {
	return s.CanDraw()
}

// Word returns the word currently displayed to the drawer
func (s *Session) Word() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.word
}

// Messages returns a copy of the message log
func (s *Session) Messages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.messages))
	copy(out, s.messages)
	return out
}

// Scoreboard returns a copy of the latest scoreboard snapshot
func (s *Session) Scoreboard() []protocol.Score {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.scoreboard == nil {
		return nil
	}
	out := make([]protocol.Score, len(s.scoreboard))
	copy(out, s.scoreboard)
	return out
}

// Segments returns what has been rendered on the local canvas
func (s *Session) Segments() []canvas.Segment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canvas.Segments()
}

// CanvasSize returns the local canvas size
func (s *Session) CanvasSize() protocol.Cartesian {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canvas.Size()
}

// Snapshot returns a copy of the whole session state
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]string, len(s.messages))
	copy(messages, s.messages)

	var scores []protocol.Score
	if s.scoreboard != nil {
		scores = make([]protocol.Score, len(s.scoreboard))
		copy(scores, s.scoreboard)
	}

	return Snapshot{
		CanDraw:      s.canDraw,
		ClearVisible: s.canDraw,
		Word:         s.word,
		Messages:     messages,
		Scoreboard:   scores,
		CanvasSize:   s.canvas.Size(),
		Segments:     s.canvas.Len(),
		Color:        s.picker.Color(),
		Drawing:      s.pointer.Pressed(),
		Picking:      s.picker.Dragging(),
	}
}

// Reset drops all per-session state, as leaving the game page does.
// Observers see the rights revoked, the word hidden and the canvas cleared.
func (s *Session) Reset() {
	s.mu.Lock()
	s.setDrawingRights(false)
	s.word = ""
	s.messages = s.messages[:0]
	s.scoreboard = nil
	s.canvas.Clear()
	s.pointer.Up()
	s.picker.BlockUp()
	s.mu.Unlock()

	s.notify(func(o Observer) {
		o.DrawingRightsChanged(false)
		o.WordChanged("")
		o.CanvasCleared()
	})
}

// setDrawingRights changes the flag and the clear control together.
// Callers must hold s.mu.
func (s *Session) setDrawingRights(canDraw bool) {
	s.canDraw = canDraw
}

// notify runs fn for every observer; callers must not hold s.mu
func (s *Session) notify(fn func(Observer)) {
	s.mu.RLock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, o := range observers {
		fn(o)
	}
}
