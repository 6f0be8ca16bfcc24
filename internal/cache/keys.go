package cache

import (
	"fmt"
	"strconv"
)

// promptKeyLen is how many runes of a prompt contribute to its cache key.
const promptKeyLen = 50

// QuestionKey derives the cache key for a page of questions. A zero year
// means any year and an empty exam type means utme.
func QuestionKey(subject string, count, year int, examType string) string {
	y := "all"
	if year > 0 {
		y = strconv.Itoa(year)
	}
	if examType == "" {
		examType = "utme"
	}
	return fmt.Sprintf("%s-%d-%s-%s", subject, count, y, examType)
}

// PromptKey derives the cache key for an AI answer from the start of the
// prompt and the subject.
func PromptKey(prompt, subject string) string {
	r := []rune(prompt)
	if len(r) > promptKeyLen {
		r = r[:promptKeyLen]
	}
	if subject == "" {
		subject = "general"
	}
	return fmt.Sprintf("ai-%s-%s", string(r), subject)
}
