// Package exam runs timed practice and full-exam sessions and scores them.
package exam

import (
	"errors"
	"strconv"
	"time"

	"github.com/examprep/cbt/internal/catalog"
	"github.com/examprep/cbt/internal/questionbank"
)

var (
	ErrNotActive      = errors.New("no active exam session")
	ErrNoSuchQuestion = errors.New("question index out of range")
)

// Mode is the kind of session.
type Mode string

const (
	ModePractice Mode = "practice"
	ModeFull     Mode = "full"
)

// Phase is the lifecycle state of a session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseSubmitted:
		return "submitted"
	default:
		return "idle"
	}
}

// SessionQuestion is a question placed in a session. GlobalIndex is stable
// for the life of the session and keys answers and review marks.
type SessionQuestion struct {
	questionbank.Question
	GlobalIndex  int    `json:"global_index"`
	SubjectID    string `json:"subject_id"`
	SubjectIndex int    `json:"subject_index"`
}

// Session is the state of the current practice or exam.
type Session struct {
	Mode      Mode
	Subjects  []catalog.Subject
	Year      int
	Questions []SessionQuestion

	// Answers maps a question's global index to the chosen option letter.
	Answers map[int]string
	Marked  map[int]bool

	TimeRemaining int // seconds
	StartedAt     time.Time
	EndedAt       time.Time
	Phase         Phase

	Current        int
	CurrentSubject int
}

func (s Session) clone() Session {
	out := s
	out.Subjects = append([]catalog.Subject(nil), s.Subjects...)
	out.Questions = append([]SessionQuestion(nil), s.Questions...)
	out.Answers = make(map[int]string, len(s.Answers))
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	out.Marked = make(map[int]bool, len(s.Marked))
	for k, v := range s.Marked {
		out.Marked[k] = v
	}
	return out
}

func examType(q questionbank.Question) string {
	if q.ExamType != "" {
		return q.ExamType
	}
	return questionbank.DefaultExamType
}

func practiceQuestions(subject catalog.Subject, year int, qs []questionbank.Question) []SessionQuestion {
	y := "all"
	if year > 0 {
		y = strconv.Itoa(year)
	}
	out := make([]SessionQuestion, len(qs))
	for i, q := range qs {
		if q.ID == "" {
			q.ID = subject.ID + "-" + y + "-" + examType(q) + "-" + strconv.Itoa(i)
		}
		out[i] = SessionQuestion{Question: q, GlobalIndex: i, SubjectID: subject.ID}
	}
	return out
}

// examQuestions flattens per-subject lists in subject order.
func examQuestions(subjects []catalog.Subject, bySubject map[string][]questionbank.Question) []SessionQuestion {
	var out []SessionQuestion
	for si, subject := range subjects {
		for qi, q := range bySubject[subject.ID] {
			if q.ID == "" {
				q.ID = subject.ID + "-exam-" + examType(q) + "-" + strconv.Itoa(qi)
			}
			out = append(out, SessionQuestion{
				Question:     q,
				GlobalIndex:  len(out),
				SubjectID:    subject.ID,
				SubjectIndex: si,
			})
		}
	}
	return out
}
