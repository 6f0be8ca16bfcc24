// Package session is the interactive answer screen for a practice session
// or a full exam.
package session

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/examprep/cbt/internal/exam"
	"github.com/examprep/cbt/internal/questionbank"
	"github.com/examprep/cbt/internal/ui/components"
)

// Bookmarker toggles a question in the saved bookmarks.
type Bookmarker interface {
	ToggleBookmark(ctx context.Context, q questionbank.Question) (bool, error)
}

// Explainer explains why a question's answer is correct.
type Explainer interface {
	ExplainQuestion(ctx context.Context, q questionbank.Question) (string, error)
}

type mode int

const (
	modeAnswering mode = iota
	modeGoTo
	modeGoToSubject
	modeConfirmSubmit
	modeConfirmQuit
)

// Model drives the machine's active session from key presses. The timer
// runs off tea.Tick and submits when the machine reports time is up.
type Model struct {
	ctx       context.Context
	machine   *exam.Machine
	bookmarks Bookmarker
	explainer Explainer
	timer     bool

	start  time.Time
	budget int // seconds remaining when the screen opened

	mode        mode
	choices     components.MultiChoice
	prompt      components.TextInput
	overview    bool
	explaining  bool
	explanation string
	flash       string
	flashErr    bool

	result    *exam.Result
	timedOut  bool
	abandoned bool
	err       error
}

var _ tea.Model = (*Model)(nil)

// New creates the screen for machine's active session. bookmarks and
// explainer may be nil.
func New(ctx context.Context, machine *exam.Machine, bookmarks Bookmarker, explainer Explainer, timer bool) *Model {
	s := &Model{
		ctx:       ctx,
		machine:   machine,
		bookmarks: bookmarks,
		explainer: explainer,
		timer:     timer,
		start:     time.Now(),
		budget:    machine.Session().TimeRemaining,
	}
	s.syncChoices()
	return s
}

// Result returns the submitted result, or nil if the session was not
// submitted.
func (s *Model) Result() *exam.Result { return s.result }

// TimedOut reports whether the session was submitted by the timer.
func (s *Model) TimedOut() bool { return s.timedOut }

// Abandoned reports whether the candidate quit without submitting.
func (s *Model) Abandoned() bool { return s.abandoned }

// Err returns the error that ended the screen, if any.
func (s *Model) Err() error { return s.err }

func (s *Model) Init() tea.Cmd {
	if s.timer {
		return tickCmd()
	}
	return nil
}

func (s *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		return s.handleTick(time.Time(msg))

	case components.ChoiceMsg:
		return s.answer(msg.Letter)

	case explainedMsg:
		s.explaining = false
		if msg.Err != nil {
			s.setFlash(msg.Err.Error(), true)
		} else if msg.Index == s.current() {
			s.explanation = msg.Text
		}
		return s, nil

	case bookmarkedMsg:
		switch {
		case msg.Err != nil:
			s.setFlash(msg.Err.Error(), true)
		case msg.On:
			s.setFlash("Bookmarked.", false)
		default:
			s.setFlash("Bookmark removed.", false)
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.prompting() {
		var cmd tea.Cmd
		s.prompt, cmd = s.prompt.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Model) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	if s.machine.Phase() != exam.PhaseActive {
		return s, nil
	}
	if s.machine.Tick(s.budget - int(t.Sub(s.start).Seconds())) {
		s.timedOut = true
		return s.submit()
	}
	return s, tickCmd()
}

func (s *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return s.abandon()
	}

	switch s.mode {
	case modeConfirmQuit:
		switch key {
		case "y", "Y":
			return s.abandon()
		case "n", "N", "esc":
			s.mode = modeAnswering
		}
		return s, nil

	case modeConfirmSubmit:
		switch key {
		case "y", "Y", "enter":
			return s.submit()
		case "n", "N", "esc":
			s.mode = modeAnswering
		}
		return s, nil

	case modeGoTo, modeGoToSubject:
		switch key {
		case "esc":
			s.mode = modeAnswering
			return s, nil
		case "enter":
			s.jump()
			return s, nil
		}
		var cmd tea.Cmd
		s.prompt, cmd = s.prompt.Update(msg)
		return s, cmd
	}

	s.flash = ""
	switch key {
	case "esc", "q":
		s.mode = modeConfirmQuit
	case "s":
		s.mode = modeConfirmSubmit
	case "n", "right":
		s.move(1)
	case "p", "left":
		s.move(-1)
	case "g":
		s.mode = modeGoTo
		s.prompt = components.NewTextInput("Go to question", "number", true, 4)
	case "t":
		if len(s.machine.Session().Subjects) < 2 {
			s.setFlash("This session has only one subject.", true)
			break
		}
		s.mode = modeGoToSubject
		s.prompt = components.NewTextInput("Go to subject", "number", true, 1)
	case "m":
		s.toggleReview()
	case "*":
		return s, s.bookmark()
	case "?":
		return s, s.explain()
	case "l":
		s.overview = !s.overview
	default:
		var cmd tea.Cmd
		s.choices, cmd = s.choices.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Model) prompting() bool {
	return s.mode == modeGoTo || s.mode == modeGoToSubject
}

func (s *Model) current() int {
	return s.machine.Session().Current
}

func (s *Model) currentQuestion() (exam.SessionQuestion, bool) {
	sess := s.machine.Session()
	if len(sess.Questions) == 0 {
		return exam.SessionQuestion{}, false
	}
	return sess.Questions[sess.Current], true
}

// syncChoices rebuilds the option picker for the current question.
func (s *Model) syncChoices() {
	sess := s.machine.Session()
	if len(sess.Questions) == 0 {
		s.choices = components.MultiChoice{}
		return
	}
	s.choices = components.NewMultiChoice(sess.Questions[sess.Current].Question, sess.Answers[sess.Current])
}

func (s *Model) setFlash(text string, isErr bool) {
	s.flash = text
	s.flashErr = isErr
}

func (s *Model) move(delta int) {
	if s.machine.GoTo(s.current() + delta) {
		s.explanation = ""
	}
	s.syncChoices()
}

// answer records letter for the current question and moves on.
func (s *Model) answer(letter string) (tea.Model, tea.Cmd) {
	if err := s.machine.Answer(s.current(), letter); err != nil {
		s.setFlash(err.Error(), true)
		return s, nil
	}
	s.move(1)
	return s, nil
}

func (s *Model) jump() {
	target := s.mode
	s.mode = modeAnswering

	n, err := s.prompt.NumericValue()
	if err != nil {
		return
	}
	var ok bool
	noun := "question"
	if target == modeGoTo {
		ok = s.machine.GoTo(n - 1)
	} else {
		noun = "subject"
		ok = s.machine.GoToSubject(n - 1)
	}
	if !ok {
		s.setFlash(fmt.Sprintf("No %s %d.", noun, n), true)
		return
	}
	s.explanation = ""
	s.syncChoices()
}

func (s *Model) toggleReview() {
	marked, err := s.machine.ToggleReview(s.current())
	switch {
	case err != nil:
		s.setFlash(err.Error(), true)
	case marked:
		s.setFlash("Marked for review.", false)
	default:
		s.setFlash("Review mark removed.", false)
	}
}

func (s *Model) bookmark() tea.Cmd {
	q, ok := s.currentQuestion()
	if !ok || s.bookmarks == nil {
		return nil
	}
	ctx, bookmarks := s.ctx, s.bookmarks
	return func() tea.Msg {
		on, err := bookmarks.ToggleBookmark(ctx, q.Question)
		return bookmarkedMsg{On: on, Err: err}
	}
}

func (s *Model) explain() tea.Cmd {
	q, ok := s.currentQuestion()
	switch {
	case !ok:
		return nil
	case s.machine.Session().Mode != exam.ModePractice:
		s.setFlash("Explanations are not available during a full exam.", true)
		return nil
	case s.explainer == nil:
		s.setFlash("The assistant is not configured.", true)
		return nil
	}

	s.explaining = true
	ctx, explainer, index := s.ctx, s.explainer, q.GlobalIndex
	return func() tea.Msg {
		text, err := explainer.ExplainQuestion(ctx, q.Question)
		return explainedMsg{Index: index, Text: text, Err: err}
	}
}

func (s *Model) submit() (tea.Model, tea.Cmd) {
	r, err := s.machine.Submit(s.ctx)
	if err != nil {
		s.err = err
	}
	s.result = r
	return s, tea.Quit
}

func (s *Model) abandon() (tea.Model, tea.Cmd) {
	s.machine.Reset()
	s.abandoned = true
	return s, tea.Quit
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
