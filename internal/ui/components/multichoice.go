package components

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/examprep/cbt/internal/questionbank"
	"github.com/examprep/cbt/internal/ui/theme"
)

// ChoiceMsg is sent when an option is picked in a MultiChoice.
type ChoiceMsg struct {
	Letter string
}

// MultiChoice is a lettered option picker. Options are picked with their
// letter key, or by moving the cursor and pressing enter.
type MultiChoice struct {
	Letters []string
	Options map[string]string
	Answer  string

	// Selected is the cursor position; -1 hides the cursor.
	Selected int
	Chosen   string

	// Reveal marks the correct option and the wrong pick, and ignores keys.
	Reveal bool
}

// NewMultiChoice creates a picker for q with the cursor on chosen, or on the
// first option when nothing is chosen yet.
func NewMultiChoice(q questionbank.Question, chosen string) MultiChoice {
	letters := q.Letters()
	return MultiChoice{
		Letters:  letters,
		Options:  q.Options,
		Answer:   q.Answer,
		Selected: max(slices.Index(letters, chosen), 0),
		Chosen:   chosen,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles cursor movement and picking.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Reveal || len(m.Letters) == 0 {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := strings.ToLower(kmsg.String()); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Letters)-1 {
			m.Selected++
		}
	case "enter":
		return m.pick(m.Letters[max(m.Selected, 0)])
	default:
		if i := slices.Index(m.Letters, key); i >= 0 {
			m.Selected = i
			return m.pick(key)
		}
	}
	return m, nil
}

func (m MultiChoice) pick(letter string) (MultiChoice, tea.Cmd) {
	m.Chosen = letter
	return m, func() tea.Msg { return ChoiceMsg{Letter: letter} }
}

// View renders one line per option.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, letter := range m.Letters {
		prefix := "  "
		if i == m.Selected && !m.Reveal {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, strings.ToUpper(letter), m.Options[letter])

		switch {
		case m.Reveal && letter == m.Answer:
			b.WriteString(theme.Correct.Render(line))
		case m.Reveal && letter == m.Chosen:
			b.WriteString(theme.Incorrect.Render(line))
		case letter == m.Chosen:
			b.WriteString(theme.Selected.Render(line + "  ✓"))
		case i == m.Selected && !m.Reveal:
			b.WriteString(theme.Title.Render(line))
		default:
			b.WriteString(theme.Body.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// IsCorrect reports whether the picked option is the correct one.
func (m MultiChoice) IsCorrect() bool {
	return m.Chosen != "" && m.Chosen == m.Answer
}
