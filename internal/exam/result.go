package exam

import (
	"math"
	"time"
)

// SubjectResult is the score for one subject.
type SubjectResult struct {
	Name       string `json:"name"`
	Total      int    `json:"total"`
	Correct    int    `json:"correct"`
	Wrong      int    `json:"wrong"`
	Unanswered int    `json:"unanswered"`
	Score      int    `json:"score"`
}

// Result is the scored record of a submitted session.
type Result struct {
	ID              string                   `json:"id"`
	Mode            Mode                     `json:"mode"`
	Subjects        []string                 `json:"subjects"`
	SubjectIDs      []string                 `json:"subject_ids"`
	Date            time.Time                `json:"date"`
	Duration        int                      `json:"duration"` // seconds
	TotalQuestions  int                      `json:"total_questions"`
	TotalCorrect    int                      `json:"total_correct"`
	TotalWrong      int                      `json:"total_wrong"`
	TotalUnanswered int                      `json:"total_unanswered"`
	OverallScore    int                      `json:"overall_score"`
	SubjectResults  map[string]SubjectResult `json:"subject_results"`
}

// percent rounds part/total to a whole percentage; 0 when total is 0.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// Score tallies a session. A missing answer is unanswered; any other answer
// that doesn't match, including a letter the question doesn't offer, is
// wrong.
func Score(s Session) Result {
	r := Result{
		Mode:           s.Mode,
		TotalQuestions: len(s.Questions),
		SubjectResults: make(map[string]SubjectResult, len(s.Subjects)),
	}
	for _, subj := range s.Subjects {
		r.Subjects = append(r.Subjects, subj.Name)
		r.SubjectIDs = append(r.SubjectIDs, subj.ID)
		r.SubjectResults[subj.ID] = SubjectResult{Name: subj.Name}
	}

	for _, q := range s.Questions {
		sr, ok := r.SubjectResults[q.SubjectID]
		if !ok {
			sr = SubjectResult{Name: q.SubjectID}
		}
		sr.Total++

		answer, answered := s.Answers[q.GlobalIndex]
		switch {
		case !answered:
			sr.Unanswered++
			r.TotalUnanswered++
		case answer == q.Answer:
			sr.Correct++
			r.TotalCorrect++
		default:
			sr.Wrong++
			r.TotalWrong++
		}
		r.SubjectResults[q.SubjectID] = sr
	}

	for id, sr := range r.SubjectResults {
		sr.Score = percent(sr.Correct, sr.Total)
		r.SubjectResults[id] = sr
	}
	r.OverallScore = percent(r.TotalCorrect, r.TotalQuestions)
	return r
}
