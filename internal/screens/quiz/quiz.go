// Package quiz is a one-question screen: pick an option, see the answer.
package quiz

import (
	tea "charm.land/bubbletea/v2"

	"github.com/examprep/cbt/internal/exam"
	"github.com/examprep/cbt/internal/ui/components"
	"github.com/examprep/cbt/internal/ui/theme"
)

// Model asks a single question.
type Model struct {
	q       exam.SessionQuestion
	choices components.MultiChoice
	done    bool
}

var _ tea.Model = (*Model)(nil)

// New creates the screen for q.
func New(q exam.SessionQuestion) *Model {
	return &Model{q: q, choices: components.NewMultiChoice(q.Question, "")}
}

// Chosen returns the picked letter, or "" if the candidate gave up.
func (m *Model) Chosen() string { return m.choices.Chosen }

// Correct reports whether the pick was right.
func (m *Model) Correct() bool { return m.choices.IsCorrect() }

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case components.ChoiceMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.done = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.choices, cmd = m.choices.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) View() tea.View {
	v := tea.NewView("")
	if m.done {
		return v
	}
	choices := m.choices
	v.SetContent(components.Question{Q: m.q, Number: 1, Total: 1, Choices: &choices}.View() +
		"\n" + theme.Hint.Render("a-e/enter answer  ↑↓ choose  esc give up"))
	return v
}
