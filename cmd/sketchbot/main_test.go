package main

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/wricardo/kalambury/game/protocol"
	"github.com/wricardo/kalambury/game/service"
	"github.com/wricardo/kalambury/game/session"
)

func TestPlannerIsDeterministic(t *testing.T) {
	planner := NewPlanner(protocol.Cartesian{X: 500, Y: 300})

	first := planner.Plan("kot")
	second := planner.Plan("kot")
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("Expected 2 strokes, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Shape != second[i].Shape || first[i].Color != second[i].Color || len(first[i].Points) != len(second[i].Points) {
			t.Errorf("Expected identical stroke %d, got %+v and %+v", i, first[i].Shape, second[i].Shape)
		}
	}
	if first[1].Shape != ShapeSpiral {
		t.Errorf("Expected the second stroke to be a spiral, got %s", first[1].Shape)
	}
}

func TestPlannerStaysInsideCanvas(t *testing.T) {
	size := protocol.Cartesian{X: 500, Y: 300}
	planner := NewPlanner(size)

	for _, word := range []string{"kot", "pies", "samochód", "dom", "słońce"} {
		for _, stroke := range planner.Plan(word) {
			if len(stroke.Points) < 2 {
				t.Errorf("Expected at least 2 points for %s, got %d", word, len(stroke.Points))
			}
			for _, p := range stroke.Points {
				if p.X < 0 || p.X > size.X || p.Y < 0 || p.Y > size.Y {
					t.Errorf("Point %v of %s outside the canvas", p, word)
				}
			}
		}
	}
}

func TestPolygonCloses(t *testing.T) {
	planner := NewPlanner(protocol.Cartesian{X: 200, Y: 200})

	for sides := minSides; sides <= maxSides; sides++ {
		points := planner.polygon(sides)
		if len(points) != sides+1 {
			t.Errorf("Expected %d points for %d sides, got %d", sides+1, sides, len(points))
		}
		first, last := points[0], points[len(points)-1]
		if math.Abs(first.X-last.X) > 1e-9 || math.Abs(first.Y-last.Y) > 1e-9 {
			t.Errorf("Expected closed polygon, got first %v last %v", first, last)
		}
	}

	star := planner.star(5)
	if len(star) != 11 {
		t.Errorf("Expected 11 star points, got %d", len(star))
	}
}

// fakeViewer serves the viewer API endpoints the bot uses
type fakeViewer struct {
	mu      sync.Mutex
	state   service.GameState
	strokes int
	clears  int
	colors  []string
	chats   []string
}

func (f *fakeViewer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/state", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(f.state)
	})
	mux.HandleFunc("/api/clear", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.clears++
		f.mu.Unlock()
		w.Write([]byte(`{"status":"sent"}`))
	})
	mux.HandleFunc("/api/color", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.colors = append(f.colors, req["color"])
		f.mu.Unlock()
		json.NewEncoder(w).Encode(req)
	})
	mux.HandleFunc("/api/stroke", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Points []protocol.Cartesian `json:"points"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.strokes++
		f.mu.Unlock()
		json.NewEncoder(w).Encode(service.DrawResult{Segments: len(req.Points) - 1, Sent: len(req.Points) - 1})
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.chats = append(f.chats, req["text"])
		f.mu.Unlock()
		w.Write([]byte(`{"status":"sent"}`))
	})
	return mux
}

func TestBotDrawsOncePerWord(t *testing.T) {
	viewer := &fakeViewer{
		state: service.GameState{
			Snapshot: session.Snapshot{
				CanDraw:    true,
				Word:       "kot",
				CanvasSize: protocol.Cartesian{X: 500, Y: 300},
			},
			Connected: true,
		},
	}
	ts := httptest.NewServer(viewer.handler())
	defer ts.Close()

	bot := &Bot{client: NewClient(ts.URL), greeting: "gotowe", clear: true}

	for i := 0; i < 3; i++ {
		if err := bot.Tick(); err != nil {
			t.Fatalf("Tick %d failed: %v", i, err)
		}
	}

	if viewer.strokes != 2 {
		t.Errorf("Expected 2 strokes for one word, got %d", viewer.strokes)
	}
	if viewer.clears != 1 {
		t.Errorf("Expected 1 clear, got %d", viewer.clears)
	}
	if len(viewer.colors) != 2 {
		t.Errorf("Expected 2 color changes, got %d", len(viewer.colors))
	}
	if len(viewer.chats) != 1 || viewer.chats[0] != "gotowe" {
		t.Errorf("Expected one greeting, got %v", viewer.chats)
	}

	// Losing and regaining rights with the same word draws again
	viewer.mu.Lock()
	viewer.state.CanDraw = false
	viewer.mu.Unlock()
	bot.Tick()

	viewer.mu.Lock()
	viewer.state.CanDraw = true
	viewer.mu.Unlock()
	bot.Tick()

	if viewer.strokes != 4 {
		t.Errorf("Expected 4 strokes after a second turn, got %d", viewer.strokes)
	}
}

func TestBotWaitsWithoutRights(t *testing.T) {
	viewer := &fakeViewer{state: service.GameState{Connected: true}}
	ts := httptest.NewServer(viewer.handler())
	defer ts.Close()

	bot := &Bot{client: NewClient(ts.URL)}
	if err := bot.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if viewer.strokes != 0 {
		t.Errorf("Expected no strokes without drawing rights, got %d", viewer.strokes)
	}
}

func TestClientReportsHTTPErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"drawing rights required"}`))
	}))
	defer ts.Close()

	if _, err := NewClient(ts.URL).Stroke([]protocol.Cartesian{{X: 0, Y: 0}, {X: 1, Y: 1}}); err == nil {
		t.Error("Expected error for a 403 response")
	}
}
