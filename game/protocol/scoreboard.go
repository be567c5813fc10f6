package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseScoreboard decodes the JSON list carried as SCOREBOARD content.
// Null entries in the list are skipped.
func ParseScoreboard(content string) ([]Score, error) {
	var entries []*Score
	if err := json.Unmarshal([]byte(content), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	scores := make([]Score, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		scores = append(scores, *entry)
	}
	return scores, nil
}

// String renders one scoreboard line, marking the drawer with a crayon
func (s Score) String() string {
	mark := "🤷‍♂️"
	if s.IsDrawing {
		mark = "🖍️"
	}
	return fmt.Sprintf("%s %s: %d", mark, s.Username, s.Points)
}

// FormatScoreboard renders scores one per line
func FormatScoreboard(scores []Score) string {
	var b strings.Builder
	for _, s := range scores {
		b.WriteString(s.String())
		b.WriteByte('\n')
	}
	return b.String()
}
