package components

import (
	"fmt"
	"strings"

	"github.com/examprep/cbt/internal/exam"
	"github.com/examprep/cbt/internal/ui/theme"
)

// Question renders one session question with its options.
type Question struct {
	Q      exam.SessionQuestion
	Number int // 1-based position shown to the user
	Total  int
	Chosen string
	Marked bool

	// Reveal shows the correct option and the solution.
	Reveal bool

	// Choices, when set, renders the options with its cursor.
	Choices *MultiChoice
}

// View renders the question.
func (v Question) View() string {
	var b strings.Builder

	header := fmt.Sprintf("Question %d of %d", v.Number, v.Total)
	if v.Marked {
		header += theme.Marked.Render("  [marked for review]")
	}
	b.WriteString(theme.Subtitle.Render(header) + "\n\n")
	if v.Q.Section != "" {
		b.WriteString(theme.Hint.Render(v.Q.Section) + "\n\n")
	}
	b.WriteString(theme.Body.Bold(true).Render(v.Q.Text) + "\n\n")

	mc := NewMultiChoice(v.Q.Question, v.Chosen)
	mc.Selected = -1
	if v.Choices != nil {
		mc = *v.Choices
	}
	mc.Reveal = v.Reveal
	b.WriteString(mc.View())

	if v.Reveal && v.Q.Solution != "" {
		b.WriteString("\n" + theme.Hint.Render("Solution: "+v.Q.Solution) + "\n")
	}
	return b.String()
}
