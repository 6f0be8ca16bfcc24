package session

import "time"

// timerTickMsg is sent every second while the timer runs.
type timerTickMsg time.Time

// explainedMsg carries the assistant's explanation of a question.
type explainedMsg struct {
	Index int
	Text  string
	Err   error
}

// bookmarkedMsg reports the outcome of a bookmark toggle.
type bookmarkedMsg struct {
	On  bool
	Err error
}
