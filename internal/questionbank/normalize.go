package questionbank

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// payload is the shape a question-bank response body arrives in.
type payload interface {
	isPayload()
}

// emptyPayload is a null, empty or scalar body.
type emptyPayload struct{}

// objectPayload is a single bare question object.
type objectPayload struct{ record gjson.Result }

// arrayPayload is a bare array of question objects.
type arrayPayload struct{ records []gjson.Result }

// wrappedPayload is an object whose "data" member holds the real payload.
type wrappedPayload struct{ inner payload }

func (emptyPayload) isPayload()   {}
func (objectPayload) isPayload()  {}
func (arrayPayload) isPayload()   {}
func (wrappedPayload) isPayload() {}

// classify determines the shape of a response body.
func classify(body []byte) (payload, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return emptyPayload{}, nil
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("malformed response body")
	}
	return classifyResult(gjson.ParseBytes(body)), nil
}

func classifyResult(root gjson.Result) payload {
	switch {
	case root.IsArray():
		return arrayPayload{records: root.Array()}
	case root.IsObject():
		if data := root.Get("data"); data.IsArray() || data.IsObject() {
			return wrappedPayload{inner: classifyResult(data)}
		}
		return objectPayload{record: root}
	default:
		return emptyPayload{}
	}
}

// records flattens a payload into its raw question records.
func records(p payload) []gjson.Result {
	switch p := p.(type) {
	case emptyPayload:
		return nil
	case objectPayload:
		return []gjson.Result{p.record}
	case arrayPayload:
		return p.records
	case wrappedPayload:
		return records(p.inner)
	default:
		panic(fmt.Sprintf("questionbank: unhandled payload %T", p))
	}
}

// Normalize converts a response body into canonical questions for subject.
// Records whose answer doesn't name a non-empty option are dropped; the
// number dropped is returned alongside the questions.
func Normalize(body []byte, subject string) ([]Question, int, error) {
	p, err := classify(body)
	if err != nil {
		return nil, 0, err
	}

	raw := records(p)
	out := make([]Question, 0, len(raw))
	dropped := 0
	for i, r := range raw {
		if !r.IsObject() {
			dropped++
			continue
		}
		q := formatQuestion(r, i, subject)
		if !q.Valid() {
			dropped++
			continue
		}
		out = append(out, q)
	}
	return out, dropped, nil
}

func formatQuestion(r gjson.Result, index int, subject string) Question {
	options := make(map[string]string, 5)
	opt := r.Get("option")
	for _, letter := range OptionLetters[:4] {
		options[letter] = opt.Get(letter).String()
	}
	if e := opt.Get("e").String(); e != "" {
		options["e"] = e
	}

	id := r.Get("id").String()
	if id == "" {
		id = strconv.Itoa(index)
	}

	var image *string
	if img := r.Get("image").String(); img != "" {
		image = &img
	}

	solution := r.Get("solution").String()
	if solution == "" {
		solution = r.Get("explanation").String()
	}

	examType := r.Get("examtype").String()
	if examType == "" {
		examType = DefaultExamType
	}

	return Question{
		ID:       id,
		Index:    index,
		Text:     r.Get("question").String(),
		Options:  options,
		Answer:   strings.ToLower(strings.TrimSpace(r.Get("answer").String())),
		Section:  r.Get("section").String(),
		Image:    image,
		Solution: solution,
		ExamType: examType,
		ExamYear: r.Get("examyear").String(),
		Subject:  subject,
	}
}
