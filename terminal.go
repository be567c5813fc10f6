package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wricardo/kalambury/game/protocol"
	"github.com/wricardo/kalambury/game/service"
	"github.com/wricardo/kalambury/game/session"
)

const terminalHelp = `Commands:
  /login <username> <password>  log in and join the game
  /logout                       leave and drop the token
  /clear                        clear every canvas (drawer only)
  /color <css color>            set the stroke color
  /stroke x,y x,y ...           draw a polyline (drawer only)
  /state                        show the game state
  /score                        show the scoreboard
  /quit                         exit
Anything else is sent to the chat.`

var errQuit = errors.New("quit")

// runTerminal reads one command or chat line per input line until EOF or /quit
func runTerminal(ctx context.Context, in io.Reader, out io.Writer, client service.GameClient) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if err := handleLine(ctx, scanner.Text(), out, client); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(out, "! %v\n", err)
		}
	}
	return scanner.Err()
}

// handleLine runs one terminal line
func handleLine(ctx context.Context, line string, out io.Writer, client service.GameClient) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if !strings.HasPrefix(line, "/") {
		return client.SendChat(line)
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return errQuit

	case "/help":
		fmt.Fprintln(out, terminalHelp)

	case "/login":
		if len(fields) != 3 {
			return fmt.Errorf("usage: /login <username> <password>")
		}
		result, err := client.Login(ctx, fields[1], fields[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Logged in as %s\n", result.Username)
		if err := client.Start(ctx); err != nil && !errors.Is(err, service.ErrAlreadyStarted) {
			return err
		}

	case "/logout":
		return client.Logout()

	case "/clear":
		return client.ClearCanvas()

	case "/color":
		if err := client.SetColor(strings.TrimSpace(strings.TrimPrefix(line, "/color"))); err != nil {
			return err
		}
		fmt.Fprintf(out, "Color: %s\n", client.State().Color)

	case "/stroke":
		points, err := parsePoints(fields[1:])
		if err != nil {
			return err
		}
		result, err := client.DrawStroke(points)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Drew %d segments, sent %d\n", result.Segments, result.Sent)

	case "/state":
		state := client.State()
		fmt.Fprintf(out, "Route: %s | Connected: %t | Drawing: %t | Word: %q | Canvas: %vx%v\n",
			state.Route, state.Connected, state.CanDraw, state.Word, state.CanvasSize.X, state.CanvasSize.Y)

	case "/score":
		scores := client.State().Scoreboard
		if len(scores) == 0 {
			fmt.Fprintln(out, "No scoreboard yet")
			return nil
		}
		fmt.Fprint(out, protocol.FormatScoreboard(scores))

	default:
		return fmt.Errorf("unknown command %s (try /help)", fields[0])
	}
	return nil
}

// parsePoints reads "x,y" pairs
func parsePoints(fields []string) ([]protocol.Cartesian, error) {
	points := make([]protocol.Cartesian, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("invalid point %q, want x,y", f)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid x in %q: %w", f, err)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid y in %q: %w", f, err)
		}
		points = append(points, protocol.Cartesian{X: x, Y: y})
	}
	return points, nil
}

// terminalObserver prints session updates worth a terminal line
type terminalObserver struct {
	session.NopObserver
	out io.Writer
}

func newTerminalObserver(out io.Writer) *terminalObserver {
	return &terminalObserver{out: out}
}

func (t *terminalObserver) WordChanged(word string) {
	if word != "" {
		fmt.Fprintf(t.out, "✏️  Draw: %s\n", word)
	}
}

func (t *terminalObserver) MessageAppended(line string) {
	fmt.Fprintln(t.out, line)
}

func (t *terminalObserver) CanvasCleared() {
	fmt.Fprintln(t.out, "(canvas cleared)")
}

func (t *terminalObserver) DrawingRightsChanged(canDraw bool) {
	if canDraw {
		fmt.Fprintln(t.out, "You are drawing now. /stroke and /clear are available.")
	} else {
		fmt.Fprintln(t.out, "You are guessing now.")
	}
}

func (t *terminalObserver) ScoreboardReplaced(scores []protocol.Score) {
	fmt.Fprint(t.out, protocol.FormatScoreboard(scores))
}
