package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/kalambury/game/protocol"
	"github.com/wricardo/kalambury/game/service"
	"github.com/wricardo/kalambury/game/session"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}
}

// runCLI runs the command tree and returns what it printed
func runCLI(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out
	err := cmd.Run(context.Background(), append([]string{"kalambury"}, args...))
	return out.String(), err
}

func TestProfileCommands(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "kalambury-profile-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	profile := filepath.Join(tempDir, "profile.json")

	t.Run("Validate missing profile", func(t *testing.T) {
		if _, err := runCLI(t, "--profile", profile, "profile", "validate"); err == nil {
			t.Error("Expected error for a missing profile")
		}
	})

	t.Run("Init writes flags", func(t *testing.T) {
		out, err := runCLI(t, "--profile", profile, "--host", "kalambury.example.com", "--port", "9090", "--secure", "profile", "init")
		if err != nil {
			t.Fatalf("Init failed: %v", err)
		}
		if !strings.Contains(out, profile) {
			t.Errorf("Expected output to name %s, got %q", profile, out)
		}
	})

	t.Run("Show reads the profile", func(t *testing.T) {
		out, err := runCLI(t, "--profile", profile, "profile", "show")
		if err != nil {
			t.Fatalf("Show failed: %v", err)
		}
		for _, want := range []string{`"host": "kalambury.example.com"`, `"port": 9090`, `"ws_scheme": "wss"`} {
			if !strings.Contains(out, want) {
				t.Errorf("Expected %s in output, got %s", want, out)
			}
		}
	})

	t.Run("Validate existing profile", func(t *testing.T) {
		out, err := runCLI(t, "--profile", profile, "profile", "validate")
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if !strings.Contains(out, "is valid") {
			t.Errorf("Expected validation message, got %q", out)
		}
	})
}

func TestLoginLogoutCommands(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("abc123"))
	}))
	defer backend.Close()

	u, err := url.Parse(backend.URL)
	if err != nil {
		t.Fatalf("Failed to parse backend URL: %v", err)
	}

	tempDir, err := os.MkdirTemp("", "kalambury-login-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	tokenFile := filepath.Join(tempDir, "token.json")
	global := []string{
		"--profile", filepath.Join(tempDir, "missing.json"),
		"--host", u.Hostname(),
		"--port", u.Port(),
		"--token-file", tokenFile,
	}

	out, err := runCLI(t, append(global, "login", "-u", "ala", "-p", "kot")...)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !strings.Contains(out, "Logged in as ala at "+backend.URL) {
		t.Errorf("Expected login output to name the user and endpoint, got %q", out)
	}
	if _, err := os.Stat(tokenFile); err != nil {
		t.Errorf("Expected token file to be written: %v", err)
	}

	out, err = runCLI(t, append(global, "logout")...)
	if err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if !strings.Contains(out, "Removed token from "+tokenFile) {
		t.Errorf("Expected logout output to name %s, got %q", tokenFile, out)
	}
}

func TestLoadConfigRejectsInvalidPort(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "kalambury-profile-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	_, err = runCLI(t, "--profile", filepath.Join(tempDir, "none.json"), "--port", "70000", "profile", "show")
	if err == nil {
		t.Error("Expected error for port 70000")
	}
}

func TestParsePoints(t *testing.T) {
	points, err := parsePoints([]string{"0,0", "10.5,20"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(points) != 2 || points[1].X != 10.5 || points[1].Y != 20 {
		t.Errorf("Expected [(0,0) (10.5,20)], got %v", points)
	}

	for _, bad := range []string{"10", "a,1", "1,b"} {
		if _, err := parsePoints([]string{bad}); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

// fakeClient records the calls made by terminal lines
type fakeClient struct {
	service.GameClient

	chats    []string
	cleared  bool
	color    string
	stroke   []protocol.Cartesian
	loggedIn string
	started  bool
	err      error
}

func (f *fakeClient) SendChat(text string) error {
	f.chats = append(f.chats, text)
	return f.err
}

func (f *fakeClient) ClearCanvas() error {
	f.cleared = true
	return f.err
}

func (f *fakeClient) SetColor(color string) error {
	f.color = color
	return f.err
}

func (f *fakeClient) DrawStroke(points []protocol.Cartesian) (*service.DrawResult, error) {
	f.stroke = points
	return &service.DrawResult{Segments: len(points) - 1, Sent: len(points) - 1}, f.err
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	f.loggedIn = username
	return &service.LoginResult{Username: username, Route: service.RouteGame}, nil
}

func (f *fakeClient) Start(ctx context.Context) error {
	f.started = true
	return nil
}

func (f *fakeClient) State() *service.GameState {
	return &service.GameState{
		Snapshot: session.Snapshot{
			Color:      f.color,
			Scoreboard: []protocol.Score{{Username: "ala", IsDrawing: true, Points: 3}},
		},
	}
}

func TestRunTerminal(t *testing.T) {
	client := &fakeClient{}
	var out bytes.Buffer
	input := strings.Join([]string{
		"kot",
		"",
		"/login ala tajne",
		"/clear",
		"/color rgba(1,2,3,1)",
		"/stroke 0,0 10,10 20,0",
		"/score",
		"/nope",
		"/quit",
		"after quit",
	}, "\n")

	if err := runTerminal(context.Background(), strings.NewReader(input), &out, client); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(client.chats) != 1 || client.chats[0] != "kot" {
		t.Errorf("Expected one chat line 'kot', got %v", client.chats)
	}
	if client.loggedIn != "ala" || !client.started {
		t.Errorf("Expected login as ala followed by Start, got %q started=%t", client.loggedIn, client.started)
	}
	if !client.cleared {
		t.Error("Expected /clear to clear the canvas")
	}
	if client.color != "rgba(1,2,3,1)" {
		t.Errorf("Expected color rgba(1,2,3,1), got %s", client.color)
	}
	if len(client.stroke) != 3 {
		t.Errorf("Expected 3 stroke points, got %d", len(client.stroke))
	}

	printed := out.String()
	for _, want := range []string{"Logged in as ala", "Drew 2 segments", "🖍️ ala: 3", "unknown command /nope"} {
		if !strings.Contains(printed, want) {
			t.Errorf("Expected %q in output, got %s", want, printed)
		}
	}
}

func TestHandleLineReportsErrors(t *testing.T) {
	client := &fakeClient{err: service.ErrNoDrawingRights}
	var out bytes.Buffer

	if err := handleLine(context.Background(), "/clear", &out, client); !errors.Is(err, service.ErrNoDrawingRights) {
		t.Errorf("Expected ErrNoDrawingRights, got %v", err)
	}
	if err := handleLine(context.Background(), "/login ala", &out, client); err == nil {
		t.Error("Expected usage error for /login without a password")
	}
}

func TestTerminalObserver(t *testing.T) {
	var out bytes.Buffer
	var o session.Observer = newTerminalObserver(&out)

	o.WordChanged("kot")
	o.WordChanged("")
	o.MessageAppended("ala: hej")
	o.DrawingRightsChanged(false)
	o.ScoreboardReplaced([]protocol.Score{{Username: "ola", Points: 1}})

	printed := out.String()
	for _, want := range []string{"Draw: kot", "ala: hej", "guessing", "🤷‍♂️ ola: 1"} {
		if !strings.Contains(printed, want) {
			t.Errorf("Expected %q in output, got %s", want, printed)
		}
	}
	if strings.Count(printed, "Draw:") != 1 {
		t.Errorf("Expected an empty word to print nothing, got %s", printed)
	}
}
