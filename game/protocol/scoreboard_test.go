package protocol

import (
	"strings"
	"testing"
)

func TestParseScoreboard(t *testing.T) {
	content := `[{"username":"ala","isDrawing":true,"points":3},null,{"username":"ola","isDrawing":false,"points":0}]`

	scores, err := ParseScoreboard(content)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(scores) != 2 {
		t.Fatalf("Expected 2 scores, got %d", len(scores))
	}
	if scores[0].Username != "ala" || !scores[0].IsDrawing || scores[0].Points != 3 {
		t.Errorf("Unexpected first entry: %+v", scores[0])
	}
	if scores[1].Username != "ola" || scores[1].IsDrawing {
		t.Errorf("Unexpected second entry: %+v", scores[1])
	}
}

func TestParseScoreboardInvalid(t *testing.T) {
	if _, err := ParseScoreboard("not a list"); err == nil {
		t.Error("Expected error for invalid scoreboard content")
	}
}

func TestFormatScoreboard(t *testing.T) {
	out := FormatScoreboard([]Score{
		{Username: "ala", IsDrawing: true, Points: 3},
		{Username: "ola", Points: 1},
	})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "🖍️") || !strings.HasSuffix(lines[0], "ala: 3") {
		t.Errorf("Unexpected drawer line %q", lines[0])
	}
	if strings.HasPrefix(lines[1], "🖍️") || !strings.HasSuffix(lines[1], "ola: 1") {
		t.Errorf("Unexpected guesser line %q", lines[1])
	}
}
