package session

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/examprep/cbt/internal/exam"
	"github.com/examprep/cbt/internal/ui/components"
	"github.com/examprep/cbt/internal/ui/theme"
)

func (s *Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if s.result != nil || s.abandoned || s.err != nil {
		return v
	}
	v.SetContent(s.render())
	return v
}

func (s *Model) render() string {
	sess := s.machine.Session()
	var b strings.Builder

	b.WriteString(s.statusLine(sess) + "\n\n")
	if len(sess.Questions) == 0 {
		b.WriteString(theme.Subtitle.Render("No questions could be loaded. s to submit, esc to quit.") + "\n")
	} else {
		cur := sess.Current
		choices := s.choices
		b.WriteString(components.Question{
			Q:       sess.Questions[cur],
			Number:  cur + 1,
			Total:   len(sess.Questions),
			Chosen:  sess.Answers[cur],
			Marked:  sess.Marked[cur],
			Choices: &choices,
		}.View())
	}

	if s.overview {
		b.WriteString("\n" + overview(sess) + "\n")
	}
	if s.explaining {
		b.WriteString("\n" + theme.Hint.Render("Asking the assistant...") + "\n")
	}
	if s.explanation != "" {
		b.WriteString("\n" + theme.Card.Render(s.explanation) + "\n")
	}
	if s.flash != "" {
		style := theme.Marked
		if s.flashErr {
			style = theme.Incorrect
		}
		b.WriteString("\n" + style.Render(s.flash) + "\n")
	}

	switch s.mode {
	case modeGoTo, modeGoToSubject:
		b.WriteString("\n" + s.prompt.View() + "\n")
	case modeConfirmSubmit:
		p := s.machine.Progress()
		msg := "Submit now?"
		if open := p.Total - p.Answered; open > 0 {
			msg = fmt.Sprintf("Submit now? %d of %d questions are unanswered.", open, p.Total)
		}
		b.WriteString("\n" + theme.Title.Render(msg) + "\n")
	case modeConfirmQuit:
		b.WriteString("\n" + theme.Incorrect.Render("Abandon this session? Nothing will be saved.") + "\n")
	}

	b.WriteString("\n" + theme.Hint.Render(s.keyHints(sess)))
	return b.String()
}

func (s *Model) statusLine(sess exam.Session) string {
	parts := make([]string, 0, 4)
	if len(sess.Questions) > 0 {
		parts = append(parts, sess.Subjects[sess.Questions[sess.Current].SubjectIndex].Name)
	}
	p := s.machine.Progress()
	parts = append(parts, fmt.Sprintf("answered %d/%d", p.Answered, p.Total))
	if p.Marked > 0 {
		parts = append(parts, fmt.Sprintf("marked %d", p.Marked))
	}
	status := theme.Title.Render(strings.Join(parts, "  ·  "))
	if s.timer {
		clock := fmt.Sprintf("%02d:%02d", sess.TimeRemaining/60, sess.TimeRemaining%60)
		if sess.TimeRemaining < 300 {
			status += "  " + theme.Incorrect.Render(clock)
		} else {
			status += "  " + theme.Subtitle.Render(clock)
		}
	}
	return status
}

func (s *Model) keyHints(sess exam.Session) string {
	switch s.mode {
	case modeGoTo, modeGoToSubject:
		return "enter go  esc cancel"
	case modeConfirmSubmit, modeConfirmQuit:
		return "y yes  n no"
	}
	hints := "a-e/enter answer  ↑↓ choose  n/p next/prev  g go to  m mark  * bookmark  l overview"
	if len(sess.Subjects) > 1 {
		hints += "  t subject"
	}
	if sess.Mode == exam.ModePractice {
		hints += "  ? explain"
	}
	return hints + "  s submit  esc quit"
}

// overview lists every question with its state: answered, marked or open.
func overview(sess exam.Session) string {
	var b strings.Builder
	for i := range sess.Questions {
		mark := "."
		if _, ok := sess.Answers[i]; ok {
			mark = "x"
		}
		if sess.Marked[i] {
			mark = "?"
		}
		if i == sess.Current {
			mark = "[" + mark + "]"
		} else {
			mark = " " + mark + " "
		}
		fmt.Fprintf(&b, "%3d%s", i+1, mark)
		if (i+1)%10 == 0 {
			b.WriteString("\n")
		}
	}
	return b.String() + "\n" + theme.Hint.Render("x answered  ? marked  . open")
}
