package components

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/examprep/cbt/internal/exam"
	"github.com/examprep/cbt/internal/ui/theme"
)

// ResultCard renders a submitted result with a bar per subject.
type ResultCard struct {
	Result exam.Result
	Width  int
}

// View renders the card.
func (c ResultCard) View() string {
	r := c.Result
	width := c.Width
	if width == 0 {
		width = 60
	}

	var b strings.Builder
	title := "Practice result"
	if r.Mode == exam.ModeFull {
		title = "Exam result"
	}
	b.WriteString(theme.Title.Render(title) + "\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%s  ·  %s", r.Date.Format("2 Jan 2006 15:04"), FormatDuration(r.Duration))) + "\n\n")

	b.WriteString(theme.ScoreStyle(r.OverallScore).Render(fmt.Sprintf("%d%%", r.OverallScore)))
	b.WriteString(theme.Body.Render(fmt.Sprintf("  overall  (%d of %d)", r.TotalCorrect, r.TotalQuestions)) + "\n")
	b.WriteString(fmt.Sprintf("%s  %s  %s\n\n",
		theme.Correct.Render(fmt.Sprintf("%d correct", r.TotalCorrect)),
		theme.Incorrect.Render(fmt.Sprintf("%d wrong", r.TotalWrong)),
		theme.Skipped.Render(fmt.Sprintf("%d unanswered", r.TotalUnanswered))))

	labelWidth := 0
	for _, id := range r.SubjectIDs {
		labelWidth = max(labelWidth, lipgloss.Width(r.SubjectResults[id].Name))
	}
	for _, id := range r.SubjectIDs {
		sr := r.SubjectResults[id]
		b.WriteString(ScoreBar{Label: sr.Name, LabelWidth: labelWidth, Correct: sr.Correct, Total: sr.Total, Width: width - 4}.View())
		b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("  %d/%d correct, %d wrong, %d unanswered",
			sr.Correct, sr.Total, sr.Wrong, sr.Unanswered)) + "\n")
	}
	return theme.Card.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

// FormatDuration renders seconds as "1h 02m 03s", dropping leading zero
// units.
func FormatDuration(seconds int) string {
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := seconds % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
