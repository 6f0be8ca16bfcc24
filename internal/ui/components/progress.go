package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/examprep/cbt/internal/ui/theme"
)

// ScoreBar draws one subject's score as a bar followed by the percentage.
type ScoreBar struct {
	Label string

	// LabelWidth pads the label so the bars of several subjects line up.
	LabelWidth int

	Correct, Total int
	Width          int
}

// Percent is Correct over Total as a whole percentage, 0 with no questions.
func (s ScoreBar) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return s.Correct * 100 / s.Total
}

func (s ScoreBar) View() string {
	label := s.Label
	if pad := s.LabelWidth - lipgloss.Width(label); pad > 0 {
		label += strings.Repeat(" ", pad)
	}
	pct := s.Percent()
	suffix := fmt.Sprintf("  %3d%%", pct)

	head := ""
	if label != "" {
		head = theme.Body.Render(label) + "  "
	}
	barWidth := max(s.Width-lipgloss.Width(head)-len(suffix), 4)
	filled := min(barWidth*pct/100, barWidth)

	return head +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		theme.ScoreStyle(pct).Render(suffix)
}
