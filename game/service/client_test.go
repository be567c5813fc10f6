package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/kalambury/game/config"
	"github.com/wricardo/kalambury/game/protocol"
	"github.com/wricardo/kalambury/game/service"
	"github.com/wricardo/kalambury/game/session"
)

// MockLogin implements service.LoginExchanger for testing
type MockLogin struct {
	LoginFunc func(ctx context.Context, creds protocol.Credentials) (string, error)
}

func (m *MockLogin) Login(ctx context.Context, creds protocol.Credentials) (string, error) {
	return m.LoginFunc(ctx, creds)
}

// fakeBackend serves the chat and drawing endpoints of a game server
type fakeBackend struct {
	server *httptest.Server

	mu    sync.Mutex
	conns map[string]*websocket.Conn

	chat chan string
	draw chan string
	gone chan string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		conns: make(map[string]*websocket.Conn),
		chat:  make(chan string, 32),
		draw:  make(chan string, 32),
		gone:  make(chan string, 2),
	}

	up := websocket.Upgrader{}
	handler := func(name string, frames chan string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			conn, err := up.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			b.mu.Lock()
			b.conns[name] = conn
			b.mu.Unlock()
			for {
				_, data, err := conn.ReadMessage()
				if err != nil {
					b.gone <- name
					return
				}
				frames <- string(data)
			}
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/KalamburyPro/chat", handler("chat", b.chat))
	mux.HandleFunc("/KalamburyPro/draw", handler("draw", b.draw))
	b.server = httptest.NewServer(mux)
	return b
}

func (b *fakeBackend) config(t *testing.T) *config.Config {
	t.Helper()
	host, portStr, err := net.SplitHostPort(strings.TrimPrefix(b.server.URL, "http://"))
	if err != nil {
		t.Fatalf("Failed to parse server URL: %v", err)
	}
	port, _ := strconv.Atoi(portStr)

	cfg := config.Default()
	cfg.Host = host
	cfg.Port = port
	return cfg
}

func (b *fakeBackend) send(t *testing.T, name string, v interface{}) {
	t.Helper()
	b.mu.Lock()
	conn := b.conns[name]
	b.mu.Unlock()
	if conn == nil {
		t.Fatalf("No %s connection", name)
	}
	if err := conn.WriteJSON(v); err != nil {
		t.Fatalf("Failed to write to %s: %v", name, err)
	}
}

func (b *fakeBackend) closeConn(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if conn := b.conns[name]; conn != nil {
		conn.Close()
	}
}

func next(t *testing.T, frames chan string) string {
	t.Helper()
	select {
	case f := <-frames:
		return f
	case <-time.After(time.Second):
		t.Fatal("No frame within timeout")
	}
	return ""
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error(msg)
}

func newTestClient(t *testing.T, cfg *config.Config, tokens session.TokenStore) (*service.Client, *service.RouteTracker) {
	t.Helper()
	sess, err := session.New(session.Options{Width: 400, Height: 100})
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	nav := service.NewRouteTracker(service.RouteLogin)
	client := service.NewClient(sess, service.Options{
		Config:    cfg,
		Tokens:    tokens,
		Navigator: nav,
		Login: &MockLogin{LoginFunc: func(ctx context.Context, creds protocol.Credentials) (string, error) {
			if creds.Password != "secret" {
				return "", errors.New("password invalid")
			}
			return "abc123", nil
		}},
	})
	return client, nav
}

func TestLogin_StoresTokenAndNavigates(t *testing.T) {
	tokens := session.NewMemoryTokenStore()
	client, nav := newTestClient(t, config.Default(), tokens)

	var routes []service.Route
	nav.OnNavigate(func(r service.Route) { routes = append(routes, r) })

	result, err := client.Login(context.Background(), "ala", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Username != "ala" || result.Route != service.RouteGame {
		t.Errorf("Unexpected login result %+v", result)
	}
	if token, _ := tokens.Load(); token != "abc123" {
		t.Errorf("Expected stored token abc123, got %s", token)
	}
	if len(routes) != 1 || routes[0] != service.RouteGame {
		t.Errorf("Expected navigation to game page, got %v", routes)
	}
}

func TestLogin_FailureKeepsLoginPage(t *testing.T) {
	tokens := session.NewMemoryTokenStore()
	client, nav := newTestClient(t, config.Default(), tokens)

	if _, err := client.Login(context.Background(), "ala", "wrong"); err == nil {
		t.Fatal("Expected login error")
	}
	if tokens.Exists() {
		t.Error("Expected no token after failed login")
	}
	if nav.Current() != service.RouteLogin {
		t.Errorf("Expected to stay on login page, got %s", nav.Current())
	}
}

func TestStart_WithoutTokenRedirects(t *testing.T) {
	client, nav := newTestClient(t, config.Default(), session.NewMemoryTokenStore())
	nav.Navigate(service.RouteGame)

	if err := client.Start(context.Background()); !errors.Is(err, service.ErrNotLoggedIn) {
		t.Errorf("Expected ErrNotLoggedIn, got %v", err)
	}
	if nav.Current() != service.RouteLogin {
		t.Errorf("Expected redirect to login page, got %s", nav.Current())
	}
}

func TestStart_Unreachable(t *testing.T) {
	backend := newFakeBackend(t)
	cfg := backend.config(t)
	backend.server.Close()

	tokens := session.NewMemoryTokenStore()
	tokens.Save("abc123")
	client, nav := newTestClient(t, cfg, tokens)

	if err := client.Start(context.Background()); err == nil {
		t.Fatal("Expected dial error")
	}
	if tokens.Exists() {
		t.Error("Expected token removed after failed connection")
	}
	if nav.Current() != service.RouteLogin {
		t.Errorf("Expected redirect to login page, got %s", nav.Current())
	}
}

func startedClient(t *testing.T) (*service.Client, *service.RouteTracker, *fakeBackend, session.TokenStore) {
	t.Helper()
	backend := newFakeBackend(t)
	t.Cleanup(backend.server.Close)

	tokens := session.NewMemoryTokenStore()
	tokens.Save("abc123")
	client, nav := newTestClient(t, backend.config(t), tokens)

	if err := client.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(client.Stop)

	if f := next(t, backend.chat); f != "abc123" {
		t.Fatalf("Expected token as first chat frame, got %q", f)
	}
	if f := next(t, backend.draw); f != "abc123" {
		t.Fatalf("Expected token as first draw frame, got %q", f)
	}
	return client, nav, backend, tokens
}

func TestStart_ConnectsBothChannels(t *testing.T) {
	client, nav, _, _ := startedClient(t)

	state := client.State()
	if !state.Connected {
		t.Error("Expected client to be connected")
	}
	if nav.Current() != service.RouteGame {
		t.Errorf("Expected game page, got %s", nav.Current())
	}

	if err := client.Start(context.Background()); !errors.Is(err, service.ErrAlreadyStarted) {
		t.Errorf("Expected ErrAlreadyStarted, got %v", err)
	}
}

func TestInboundFramesReachSession(t *testing.T) {
	client, _, backend, _ := startedClient(t)

	backend.send(t, "chat", protocol.NewChatMessage(protocol.WordToGuess, "kot"))
	eventually(t, func() bool { return client.State().CanDraw }, "Expected drawing rights after WORD_TO_GUESS")

	backend.send(t, "chat", protocol.NewChatMessage(protocol.Message, "hello"))
	eventually(t, func() bool {
		m := client.State().Messages
		return len(m) == 1 && m[0] == "hello"
	}, "Expected message appended")

	backend.send(t, "draw", protocol.DrawingMessage{
		From:  protocol.Cartesian{X: 10, Y: 10},
		To:    protocol.Cartesian{X: 20, Y: 20},
		Size:  protocol.Cartesian{X: 200, Y: 100},
		Color: "red",
	})
	eventually(t, func() bool {
		segs := client.Session().Segments()
		return len(segs) == 1 && segs[0].To == (protocol.Cartesian{X: 40, Y: 20})
	}, "Expected remote stroke rescaled onto the canvas")
}

func TestOutboundMessages(t *testing.T) {
	client, _, backend, _ := startedClient(t)

	t.Run("chat", func(t *testing.T) {
		if err := client.SendChat("kot?"); err != nil {
			t.Fatalf("SendChat failed: %v", err)
		}
		var msg protocol.ChatMessage
		json.Unmarshal([]byte(next(t, backend.chat)), &msg)
		if msg.Type != protocol.Message || msg.Content != "kot?" {
			t.Errorf("Unexpected chat frame %+v", msg)
		}
	})

	t.Run("clear without rights", func(t *testing.T) {
		if err := client.ClearCanvas(); !errors.Is(err, service.ErrNoDrawingRights) {
			t.Errorf("Expected ErrNoDrawingRights, got %v", err)
		}
	})

	t.Run("stroke without rights", func(t *testing.T) {
		if _, err := client.DrawStroke([]protocol.Cartesian{{X: 0, Y: 0}, {X: 1, Y: 1}}); !errors.Is(err, service.ErrNoDrawingRights) {
			t.Errorf("Expected ErrNoDrawingRights, got %v", err)
		}
	})

	backend.send(t, "chat", protocol.NewChatMessage(protocol.WordToGuess, "kot"))
	eventually(t, func() bool { return client.State().CanDraw }, "Expected drawing rights")

	t.Run("clear with rights", func(t *testing.T) {
		if err := client.ClearCanvas(); err != nil {
			t.Fatalf("ClearCanvas failed: %v", err)
		}
		var msg protocol.ChatMessage
		json.Unmarshal([]byte(next(t, backend.chat)), &msg)
		if msg.Type != protocol.CleanCanvas || msg.Content != "" {
			t.Errorf("Unexpected clear frame %+v", msg)
		}
	})

	t.Run("stroke", func(t *testing.T) {
		client.SetColor("rgba(0,0,255,1)")
		result, err := client.DrawStroke([]protocol.Cartesian{{X: 1, Y: 1}, {X: 5, Y: 5}, {X: 9, Y: 2}})
		if err != nil {
			t.Fatalf("DrawStroke failed: %v", err)
		}
		if result.Segments != 2 || result.Sent != 2 {
			t.Errorf("Expected 2 segments drawn and sent, got %+v", result)
		}

		var stroke protocol.DrawingMessage
		json.Unmarshal([]byte(next(t, backend.draw)), &stroke)
		if stroke.From != (protocol.Cartesian{X: 1, Y: 1}) || stroke.To != (protocol.Cartesian{X: 5, Y: 5}) {
			t.Errorf("Unexpected stroke endpoints %+v", stroke)
		}
		if stroke.Size != (protocol.Cartesian{X: 400, Y: 100}) {
			t.Errorf("Expected local canvas size as reference, got %+v", stroke.Size)
		}
		if stroke.Color != "rgba(0,0,255,1)" {
			t.Errorf("Expected active color, got %s", stroke.Color)
		}
		next(t, backend.draw)
	})
}

func TestTeardownOnServerClose(t *testing.T) {
	client, nav, backend, tokens := startedClient(t)

	backend.send(t, "chat", protocol.NewChatMessage(protocol.WordToGuess, "kot"))
	eventually(t, func() bool { return client.State().CanDraw }, "Expected drawing rights after WORD_TO_GUESS")
	client.PointerDown(protocol.Cartesian{X: 1, Y: 1})
	client.PointerMove(protocol.Cartesian{X: 5, Y: 5})
	client.PointerUp()

	var mu sync.Mutex
	var routes []service.Route
	nav.OnNavigate(func(r service.Route) {
		mu.Lock()
		routes = append(routes, r)
		mu.Unlock()
	})

	backend.closeConn("chat")

	select {
	case <-client.Done():
	case <-time.After(time.Second):
		t.Fatal("Client did not tear down")
	}

	if tokens.Exists() {
		t.Error("Expected token removed on teardown")
	}
	if nav.Current() != service.RouteLogin {
		t.Errorf("Expected login page, got %s", nav.Current())
	}

	// Nothing of the session survives the redirect
	state := client.State()
	if state.CanDraw || state.ClearVisible || state.Word != "" || state.Segments != 0 {
		t.Errorf("Expected session state dropped, got %+v", state.Snapshot)
	}
	client.PointerDown(protocol.Cartesian{X: 1, Y: 1})
	if result := client.PointerMove(protocol.Cartesian{X: 9, Y: 9}); result.Drawn || result.Sent {
		t.Errorf("Expected no stroke on the login page, got %+v", result)
	}
	client.PointerUp()
	if n := len(client.Session().Segments()); n != 0 {
		t.Errorf("Expected empty canvas after teardown, got %d segments", n)
	}

	// The drawing channel is closed too
	gone := map[string]bool{}
	for len(gone) < 2 {
		select {
		case name := <-backend.gone:
			gone[name] = true
		case <-time.After(time.Second):
			t.Fatalf("Expected both connections closed, got %v", gone)
		}
	}

	if err := client.SendChat("late"); !errors.Is(err, service.ErrNotConnected) {
		t.Errorf("Expected ErrNotConnected after teardown, got %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(routes) != 1 {
		t.Errorf("Expected exactly one redirect, got %v", routes)
	}
}

func TestStopKeepsToken(t *testing.T) {
	client, _, _, tokens := startedClient(t)

	client.Stop()

	select {
	case <-client.Done():
	case <-time.After(time.Second):
		t.Fatal("Client did not stop")
	}
	if !tokens.Exists() {
		t.Error("Expected token kept after Stop")
	}
	if client.State().Connected {
		t.Error("Expected client disconnected")
	}
}

func TestLogout(t *testing.T) {
	client, nav, _, tokens := startedClient(t)

	if err := client.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if tokens.Exists() {
		t.Error("Expected token removed")
	}
	if nav.Current() != service.RouteLogin {
		t.Errorf("Expected login page, got %s", nav.Current())
	}
}

func TestColorPicking(t *testing.T) {
	client, _ := newTestClient(t, config.Default(), session.NewMemoryTokenStore())

	if err := client.SetColor("  "); !errors.Is(err, service.ErrInvalidColor) {
		t.Errorf("Expected ErrInvalidColor, got %v", err)
	}
	if hue := client.PickHue(0); hue != "rgba(255,0,0,1)" {
		t.Errorf("Expected red, got %s", hue)
	}
	if shade := client.PickShade(0, 0); shade != "rgba(255,255,255,1)" {
		t.Errorf("Expected white at the top left of the block, got %s", shade)
	}
	if client.State().Color != "rgba(255,255,255,1)" {
		t.Errorf("Expected picked shade to be active, got %s", client.State().Color)
	}
	if client.State().Picking {
		t.Error("Expected a click to release the shade block")
	}

	// Drag from the top left corner down to the bottom edge
	client.PickHue(0)
	client.ShadeDown(0, 0)
	if !client.State().Picking {
		t.Error("Expected shade block to be pressed")
	}
	if shade := client.ShadeMove(session.DefaultBlockSize, session.DefaultBlockSize); shade != "rgba(0,0,0,1)" {
		t.Errorf("Expected black at the bottom of the block, got %s", shade)
	}
	client.ShadeUp()
	if shade := client.ShadeMove(session.DefaultBlockSize, 0); shade != "rgba(0,0,0,1)" {
		t.Errorf("Expected released block to keep the color, got %s", shade)
	}
	if client.State().Picking {
		t.Error("Expected shade block to be released")
	}
}

func TestDrawStroke_TooFewPoints(t *testing.T) {
	client, _ := newTestClient(t, config.Default(), session.NewMemoryTokenStore())
	if _, err := client.DrawStroke([]protocol.Cartesian{{X: 1, Y: 1}}); !errors.Is(err, service.ErrTooFewPoints) {
		t.Errorf("Expected ErrTooFewPoints, got %v", err)
	}
}
