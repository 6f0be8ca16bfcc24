package exam

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/examprep/cbt/internal/catalog"
	"github.com/examprep/cbt/internal/questionbank"
)

// HistorySink records submitted results.
type HistorySink interface {
	AddResult(ctx context.Context, r Result) error
}

// Progress counts how far through the session the candidate is.
type Progress struct {
	Total    int
	Answered int
	Marked   int
}

// Machine owns the current session. The timer is driven from outside
// through Tick; the machine never schedules anything itself.
type Machine struct {
	mu      sync.Mutex
	session Session
	sink    HistorySink
	now     func() time.Time
	log     *slog.Logger
}

// NewMachine creates an idle machine. sink may be nil.
func NewMachine(sink HistorySink, log *slog.Logger) *Machine {
	if log == nil {
		log = slog.Default()
	}
	return &Machine{sink: sink, now: time.Now, log: log}
}

func (m *Machine) start(mode Mode, subjects []catalog.Subject, year int, qs []SessionQuestion, minutes int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = Session{
		Mode:          mode,
		Subjects:      subjects,
		Year:          year,
		Questions:     qs,
		Answers:       map[int]string{},
		Marked:        map[int]bool{},
		TimeRemaining: minutes * 60,
		StartedAt:     m.now(),
		Phase:         PhaseActive,
	}
}

// StartPractice begins a single-subject practice session, replacing any
// session in progress.
func (m *Machine) StartPractice(subject catalog.Subject, year int, qs []questionbank.Question, minutes int) {
	m.start(ModePractice, []catalog.Subject{subject}, year, practiceQuestions(subject, year, qs), minutes)
}

// StartFullExam begins a multi-subject exam, replacing any session in
// progress. Questions are numbered across subjects in subject order.
func (m *Machine) StartFullExam(subjects []catalog.Subject, bySubject map[string][]questionbank.Question, minutes int) {
	subjects = append([]catalog.Subject(nil), subjects...)
	m.start(ModeFull, subjects, 0, examQuestions(subjects, bySubject), minutes)
}

func (m *Machine) checkIndex(i int) error {
	if m.session.Phase != PhaseActive {
		return ErrNotActive
	}
	if i < 0 || i >= len(m.session.Questions) {
		return ErrNoSuchQuestion
	}
	return nil
}

// Answer records letter as the answer to question i. The letter is not
// checked against the question's options.
func (m *Machine) Answer(i int, letter string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkIndex(i); err != nil {
		return err
	}
	m.session.Answers[i] = letter
	return nil
}

// ToggleReview flips the review mark on question i and reports the new
// state.
func (m *Machine) ToggleReview(i int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkIndex(i); err != nil {
		return false, err
	}
	if m.session.Marked[i] {
		delete(m.session.Marked, i)
		return false, nil
	}
	m.session.Marked[i] = true
	return true, nil
}

// Tick sets the time remaining. The clock only runs down: a value above
// the current one is ignored. It reports whether time is up; the caller is
// expected to Submit then.
func (m *Machine) Tick(remaining int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.Phase != PhaseActive {
		return false
	}
	if remaining < 0 {
		remaining = 0
	}
	if remaining < m.session.TimeRemaining {
		m.session.TimeRemaining = remaining
	}
	return m.session.TimeRemaining == 0
}

// Expired reports whether an active session has run out of time.
func (m *Machine) Expired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Phase == PhaseActive && m.session.TimeRemaining <= 0
}

// Submit scores the active session, freezes it and records the result.
// A failure to record history is logged; the result stands.
func (m *Machine) Submit(ctx context.Context) (*Result, error) {
	m.mu.Lock()
	if m.session.Phase != PhaseActive {
		m.mu.Unlock()
		return nil, ErrNotActive
	}

	now := m.now()
	r := Score(m.session)
	r.ID = uuid.NewString()
	r.Date = now
	r.Duration = int(now.Sub(m.session.StartedAt).Seconds())

	m.session.Phase = PhaseSubmitted
	m.session.EndedAt = now
	m.mu.Unlock()

	if m.sink != nil {
		if err := m.sink.AddResult(ctx, r); err != nil {
			m.log.Warn("record exam result", "id", r.ID, "err", err)
		}
	}
	return &r, nil
}

// Reset discards the session and returns to idle.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{}
}

// GoTo moves to question i, following it into its subject.
func (m *Machine) GoTo(i int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.session.Questions) {
		return false
	}
	m.session.Current = i
	m.session.CurrentSubject = m.session.Questions[i].SubjectIndex
	return true
}

// GoToSubject moves to the first question of the i-th subject.
func (m *Machine) GoToSubject(i int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.session.Subjects) {
		return false
	}
	id := m.session.Subjects[i].ID
	for _, q := range m.session.Questions {
		if q.SubjectID == id {
			m.session.Current = q.GlobalIndex
			m.session.CurrentSubject = i
			return true
		}
	}
	return false
}

// Session returns a copy of the current session.
func (m *Machine) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.clone()
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Phase
}

// Progress counts answered and marked questions.
func (m *Machine) Progress() Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Progress{
		Total:    len(m.session.Questions),
		Answered: len(m.session.Answers),
		Marked:   len(m.session.Marked),
	}
}
