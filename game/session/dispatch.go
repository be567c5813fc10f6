package session

import (
	"log"
	"strings"

	"github.com/wricardo/kalambury/game/protocol"
)

// HandleInboundFrame parses a chat channel frame and dispatches it.
// Malformed frames are logged and dropped without touching any state.
func (s *Session) HandleInboundFrame(frame []byte) error {
	msg, err := protocol.ParseChatMessage(frame)
	if err != nil {
		log.Printf("ChatWebSocket: Wrong message! %v (frame: %s)", err, frame)
		return err
	}
	s.Dispatch(msg)
	return nil
}

// Dispatch invokes the one handler matching the message kind
func (s *Session) Dispatch(msg protocol.ChatMessage) {
	switch msg.Type {
	case protocol.WordToGuess:
		s.onNewWordToGuess(msg.Content)
	case protocol.Message:
		s.onMessage(msg.Content)
	case protocol.YouGuessedIt:
		s.onWordGuessSuccess()
	case protocol.CleanCanvas:
		s.onCleanCanvas()
	case protocol.CleanWordToGuess:
		s.onCleanWordToGuess()
	case protocol.Scoreboard:
		s.onScoreboard(msg.Content)
	case protocol.NextWord:
		// Server-side control kind; nothing to render locally
		log.Printf("ChatWebSocket: ignoring %s", msg.Type)
	default:
		log.Printf("ChatWebSocket: Wrong message! unknown msgType %q", msg.Type)
	}
}

// onNewWordToGuess grants drawing rights and reveals the word
func (s *Session) onNewWordToGuess(word string) {
	s.mu.Lock()
	s.setDrawingRights(true)
	s.word = word
	s.mu.Unlock()

	s.notify(func(o Observer) {
		o.DrawingRightsChanged(true)
		o.WordChanged(word)
	})
}

// onMessage appends one line to the message log
func (s *Session) onMessage(line string) {
	s.mu.Lock()
	s.messages = append(s.messages, line)
	s.mu.Unlock()

	s.notify(func(o Observer) { o.MessageAppended(line) })
}

func (s *Session) onWordGuessSuccess() {
	s.onMessage(s.celebration)
	log.Printf("ChatWebSocket: word guessed, waiting for a new word")
	s.notify(func(o Observer) { o.NextWordRequested() })
}

func (s *Session) onCleanCanvas() {
	s.mu.Lock()
	s.canvas.Clear()
	s.mu.Unlock()

	log.Printf("Cleaning canvas...")
	s.notify(func(o Observer) { o.CanvasCleared() })
}

// onCleanWordToGuess revokes drawing rights and hides the word
func (s *Session) onCleanWordToGuess() {
	s.mu.Lock()
	s.setDrawingRights(false)
	s.word = ""
	s.mu.Unlock()

	s.notify(func(o Observer) {
		o.DrawingRightsChanged(false)
		o.WordChanged("")
	})
}

// onScoreboard replaces the snapshot wholesale; empty content keeps the old one
func (s *Session) onScoreboard(content string) {
	if strings.TrimSpace(content) == "" || strings.TrimSpace(content) == "null" {
		return
	}

	scores, err := protocol.ParseScoreboard(content)
	if err != nil {
		log.Printf("ChatWebSocket: invalid scoreboard: %v", err)
		return
	}

	s.mu.Lock()
	s.scoreboard = scores
	s.mu.Unlock()

	log.Printf("Active users: %d", len(scores))
	s.notify(func(o Observer) {
		view := make([]protocol.Score, len(scores))
		copy(view, scores)
		o.ScoreboardReplaced(view)
	})
}
