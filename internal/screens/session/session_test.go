package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/examprep/cbt/internal/catalog"
	"github.com/examprep/cbt/internal/exam"
	"github.com/examprep/cbt/internal/questionbank"
)

var physics = catalog.Subject{ID: "physics", Name: "Physics"}

type fakeBookmarks struct{ on map[string]bool }

func (f *fakeBookmarks) ToggleBookmark(_ context.Context, q questionbank.Question) (bool, error) {
	if f.on == nil {
		f.on = map[string]bool{}
	}
	f.on[q.ID] = !f.on[q.ID]
	return f.on[q.ID], nil
}

type fakeExplainer struct {
	text string
	err  error
}

func (f fakeExplainer) ExplainQuestion(context.Context, questionbank.Question) (string, error) {
	return f.text, f.err
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func question(id, answer string) questionbank.Question {
	return questionbank.Question{
		ID:      id,
		Text:    "Question " + id,
		Options: map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"},
		Answer:  answer,
	}
}

func practiceScreen(t *testing.T, explainer Explainer) (*Model, *exam.Machine) {
	t.Helper()
	m := exam.NewMachine(nil, nil)
	m.StartPractice(physics, 0, []questionbank.Question{question("1", "a"), question("2", "b"), question("3", "c")}, 10)
	return New(context.Background(), m, &fakeBookmarks{}, explainer, true), m
}

// press sends each key and feeds the message produced by its command back
// into the screen, the way the program loop would.
func press(s *Model, keys ...tea.KeyPressMsg) tea.Cmd {
	var last tea.Cmd
	for _, k := range keys {
		_, cmd := s.Update(k)
		last = cmd
		if cmd == nil {
			continue
		}
		switch msg := cmd().(type) {
		case tea.QuitMsg, nil:
		default:
			_, last = s.Update(msg)
		}
	}
	return last
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestSession_LetterKeyAnswersAndAdvances(t *testing.T) {
	s, m := practiceScreen(t, nil)

	press(s, keyPress('b'))

	sess := m.Session()
	if sess.Answers[0] != "b" {
		t.Errorf("answer = %q, want b", sess.Answers[0])
	}
	if sess.Current != 1 {
		t.Errorf("current = %d, want 1", sess.Current)
	}
}

func TestSession_CursorAndEnter(t *testing.T) {
	s, m := practiceScreen(t, nil)

	press(s, specialKey(tea.KeyDown), specialKey(tea.KeyDown), specialKey(tea.KeyEnter))

	if got := m.Session().Answers[0]; got != "c" {
		t.Errorf("answer = %q, want c", got)
	}
}

func TestSession_LastQuestionStaysPut(t *testing.T) {
	s, m := practiceScreen(t, nil)
	m.GoTo(2)
	s.syncChoices()

	press(s, keyPress('c'))

	if sess := m.Session(); sess.Current != 2 || sess.Answers[2] != "c" {
		t.Errorf("current = %d, answers = %v", sess.Current, sess.Answers)
	}
	if !strings.Contains(s.render(), "✓") {
		t.Error("chosen option should be shown as picked")
	}
}

func TestSession_Navigation(t *testing.T) {
	s, m := practiceScreen(t, nil)

	press(s, keyPress('n'), keyPress('n'), keyPress('n'))
	if got := m.Session().Current; got != 2 {
		t.Errorf("after n n n current = %d, want 2", got)
	}
	press(s, keyPress('p'))
	if got := m.Session().Current; got != 1 {
		t.Errorf("after p current = %d, want 1", got)
	}

	press(s, keyPress('g'), keyPress('x'), keyPress('3'), specialKey(tea.KeyEnter))
	if got := m.Session().Current; got != 2 {
		t.Errorf("go to 3: current = %d, want 2", got)
	}
	if s.mode != modeAnswering {
		t.Error("prompt should close after enter")
	}

	press(s, keyPress('g'), keyPress('9'), specialKey(tea.KeyEnter))
	if s.flash != "No question 9." || !s.flashErr {
		t.Errorf("flash = %q", s.flash)
	}
}

func TestSession_SubjectJumpNeedsSeveralSubjects(t *testing.T) {
	s, _ := practiceScreen(t, nil)
	press(s, keyPress('t'))
	if s.mode != modeAnswering || !s.flashErr {
		t.Error("t should be refused in a single-subject session")
	}

	m := exam.NewMachine(nil, nil)
	english := catalog.Subject{ID: "english", Name: "English Language"}
	m.StartFullExam([]catalog.Subject{english, physics}, map[string][]questionbank.Question{
		"english": {question("e1", "a"), question("e2", "a")},
		"physics": {question("p1", "b")},
	}, 120)
	s = New(context.Background(), m, nil, nil, false)

	press(s, keyPress('t'), keyPress('2'), specialKey(tea.KeyEnter))
	if got := m.Session().Current; got != 2 {
		t.Errorf("current = %d, want first physics question 2", got)
	}
	if !strings.Contains(s.render(), "Physics") {
		t.Error("status line should name the current subject")
	}
}

func TestSession_MarkAndBookmark(t *testing.T) {
	s, m := practiceScreen(t, nil)

	press(s, keyPress('m'))
	if !m.Session().Marked[0] {
		t.Error("question should be marked")
	}
	press(s, keyPress('*'))
	if s.flash != "Bookmarked." {
		t.Errorf("flash = %q, want Bookmarked.", s.flash)
	}
	press(s, keyPress('*'))
	if s.flash != "Bookmark removed." {
		t.Errorf("flash = %q, want Bookmark removed.", s.flash)
	}
}

func TestSession_Explain(t *testing.T) {
	s, _ := practiceScreen(t, fakeExplainer{text: "Because V = IR."})
	press(s, keyPress('?'))
	if s.explaining || s.explanation != "Because V = IR." {
		t.Errorf("explanation = %q", s.explanation)
	}

	// Moving on clears it.
	press(s, keyPress('n'))
	if s.explanation != "" {
		t.Error("explanation should clear on navigation")
	}

	s, _ = practiceScreen(t, fakeExplainer{err: errors.New("you are offline")})
	press(s, keyPress('?'))
	if s.flash != "you are offline" || !s.flashErr {
		t.Errorf("flash = %q", s.flash)
	}
}

func TestSession_NoExplanationsInFullExam(t *testing.T) {
	m := exam.NewMachine(nil, nil)
	m.StartFullExam([]catalog.Subject{physics}, map[string][]questionbank.Question{"physics": {question("1", "a")}}, 120)
	s := New(context.Background(), m, nil, fakeExplainer{text: "x"}, false)

	if cmd := press(s, keyPress('?')); cmd != nil {
		t.Error("no explanation should be requested during an exam")
	}
	if !s.flashErr {
		t.Error("expected a refusal message")
	}
}

func TestSession_SubmitConfirm(t *testing.T) {
	s, m := practiceScreen(t, nil)
	press(s, keyPress('a'))

	press(s, keyPress('s'))
	if !strings.Contains(s.render(), "2 of 3 questions are unanswered") {
		t.Errorf("confirm should count open questions:\n%s", s.render())
	}
	press(s, keyPress('n'))
	if s.mode != modeAnswering || m.Phase() != exam.PhaseActive {
		t.Fatal("n should keep the session going")
	}

	_, _ = s.Update(keyPress('s'))
	_, cmd := s.Update(keyPress('y'))
	if !isQuit(cmd) {
		t.Error("submitting should quit the program")
	}
	r := s.Result()
	if r == nil {
		t.Fatal("no result")
	}
	if r.TotalCorrect != 1 || r.TotalUnanswered != 2 {
		t.Errorf("correct = %d, unanswered = %d", r.TotalCorrect, r.TotalUnanswered)
	}
	if m.Phase() != exam.PhaseSubmitted {
		t.Errorf("phase = %v, want submitted", m.Phase())
	}
}

func TestSession_QuitConfirm(t *testing.T) {
	s, m := practiceScreen(t, nil)

	_, _ = s.Update(specialKey(tea.KeyEscape))
	if s.mode != modeConfirmQuit {
		t.Fatal("esc should ask before quitting")
	}
	_, _ = s.Update(keyPress('n'))
	if s.mode != modeAnswering {
		t.Fatal("n should dismiss the dialog")
	}

	_, _ = s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))
	if !isQuit(cmd) || !s.Abandoned() || s.Result() != nil {
		t.Error("y should abandon without a result")
	}
	if m.Phase() != exam.PhaseIdle {
		t.Errorf("phase = %v, want idle", m.Phase())
	}
}

func TestSession_TimerSubmitsWhenTimeIsUp(t *testing.T) {
	s, m := practiceScreen(t, nil)
	if s.Init() == nil {
		t.Fatal("timer should start ticking")
	}

	_, cmd := s.Update(timerTickMsg(s.start.Add(90 * time.Second)))
	if isQuit(cmd) {
		t.Fatal("should keep running with time left")
	}
	if got := m.Session().TimeRemaining; got != 510 {
		t.Errorf("remaining = %d, want 510", got)
	}

	_, cmd = s.Update(timerTickMsg(s.start.Add(11 * time.Minute)))
	if !isQuit(cmd) || !s.TimedOut() || s.Result() == nil {
		t.Error("expected an automatic submit")
	}

	// Late ticks after submitting are ignored.
	if _, cmd = s.Update(timerTickMsg(s.start.Add(12 * time.Minute))); cmd != nil {
		t.Error("tick after submit should do nothing")
	}
}

func TestSession_NoTimer(t *testing.T) {
	m := exam.NewMachine(nil, nil)
	m.StartPractice(physics, 0, []questionbank.Question{question("1", "a")}, 1)
	s := New(context.Background(), m, nil, nil, false)
	if s.Init() != nil {
		t.Error("no tick without a timer")
	}
	if strings.Contains(s.render(), "01:00") {
		t.Error("clock should be hidden")
	}
}

func TestSession_EmptySession(t *testing.T) {
	m := exam.NewMachine(nil, nil)
	m.StartPractice(physics, 0, nil, 1)
	s := New(context.Background(), m, nil, nil, false)

	press(s, keyPress('a'), keyPress('n'), keyPress('m'))
	if !strings.Contains(s.render(), "No questions could be loaded") {
		t.Error("expected the empty-session message")
	}
	_, _ = s.Update(keyPress('s'))
	_, _ = s.Update(keyPress('y'))
	if r := s.Result(); r == nil || r.OverallScore != 0 {
		t.Errorf("result = %+v", r)
	}
}
