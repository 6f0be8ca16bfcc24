// Package catalog lists the examinable subjects and exam years.
package catalog

import "strings"

// Subject is an examinable subject.
type Subject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Calculation bool   `json:"is_calculation"`
}

var subjects = []Subject{
	{ID: "english", Name: "English Language"},
	{ID: "mathematics", Name: "Mathematics", Calculation: true},
	{ID: "physics", Name: "Physics", Calculation: true},
	{ID: "chemistry", Name: "Chemistry", Calculation: true},
	{ID: "biology", Name: "Biology"},
	{ID: "literature", Name: "Literature in English"},
	{ID: "government", Name: "Government"},
	{ID: "commerce", Name: "Commerce"},
	{ID: "accounting", Name: "Accounting", Calculation: true},
	{ID: "economics", Name: "Economics", Calculation: true},
	{ID: "crk", Name: "Christian Religious Studies"},
	{ID: "irk", Name: "Islamic Religious Studies"},
	{ID: "geography", Name: "Geography"},
	{ID: "agric", Name: "Agricultural Science"},
	{ID: "history", Name: "History"},
}

const (
	// LatestYear is the most recent exam year offered.
	LatestYear = 2025

	yearCount = 48

	// EnglishQuestionCount is the number of English questions in a full exam.
	EnglishQuestionCount = 60

	// DefaultQuestionCount is the number of questions for every other subject.
	DefaultQuestionCount = 40
)

// All returns every subject in display order.
func All() []Subject {
	out := make([]Subject, len(subjects))
	copy(out, subjects)
	return out
}

// Lookup finds a subject by id or case-insensitive name.
func Lookup(idOrName string) (Subject, bool) {
	for _, s := range subjects {
		if s.ID == idOrName || strings.EqualFold(s.Name, idOrName) {
			return s, true
		}
	}
	return Subject{}, false
}

// Years returns the selectable exam years, newest first.
func Years() []int {
	out := make([]int, yearCount)
	for i := range out {
		out[i] = LatestYear - i
	}
	return out
}

// QuestionCount returns how many questions a full exam sets for subject.
func QuestionCount(subjectID string) int {
	if subjectID == "english" {
		return EnglishQuestionCount
	}
	return DefaultQuestionCount
}
