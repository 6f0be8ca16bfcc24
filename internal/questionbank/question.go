package questionbank

// DefaultExamType is the exam type requested from the question bank and
// assumed for records that don't carry one.
const DefaultExamType = "utme"

// OptionLetters are the option keys a question may carry, in display order.
// a–d are always present on a normalized question; e only when supplied.
var OptionLetters = []string{"a", "b", "c", "d", "e"}

// Question is the canonical multiple-choice question record.
type Question struct {
	ID       string            `json:"id"`
	Index    int               `json:"index"`
	Text     string            `json:"question"`
	Options  map[string]string `json:"options"`
	Answer   string            `json:"answer"`
	Section  string            `json:"section"`
	Image    *string           `json:"image"`
	Solution string            `json:"solution"`
	ExamType string            `json:"examtype"`
	ExamYear string            `json:"examyear"`
	Subject  string            `json:"subject"`
}

// Valid reports whether the correct answer names a non-empty option.
func (q Question) Valid() bool {
	return q.Answer != "" && q.Options[q.Answer] != ""
}

// HasOption reports whether letter is one of the question's options.
func (q Question) HasOption(letter string) bool {
	_, ok := q.Options[letter]
	return ok
}

// Letters returns the question's option letters in display order.
func (q Question) Letters() []string {
	var out []string
	for _, l := range OptionLetters {
		if q.HasOption(l) {
			out = append(out, l)
		}
	}
	return out
}

// TopUp appends questions from extra to base, skipping ids already present,
// until target questions are held. base is not modified.
func TopUp(base, extra []Question, target int) []Question {
	out := make([]Question, len(base), max(len(base), target))
	copy(out, base)

	seen := make(map[string]bool, len(base))
	for _, q := range base {
		seen[q.ID] = true
	}
	for _, q := range extra {
		if len(out) >= target {
			break
		}
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out
}
