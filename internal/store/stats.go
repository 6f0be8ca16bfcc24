package store

import (
	"context"
	"sort"

	"github.com/tidwall/gjson"
)

// Stats summarises what the store holds for offline use.
type Stats struct {
	Questions  int      `json:"questions"`
	Flashcards int      `json:"flashcards"`
	Subjects   []string `json:"subjects"`
	Years      []string `json:"years"`
}

// Stats counts cached questions and flashcards. Question pages are counted
// by the length of their stored value list.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats

	pages, err := s.All(ctx, Questions)
	if err != nil {
		return st, err
	}
	subjects := map[string]struct{}{}
	years := map[string]struct{}{}
	for _, p := range pages {
		doc := gjson.ParseBytes(p.Value)
		st.Questions += int(doc.Get("value.#").Int())
		if v := doc.Get("tags.subject").String(); v != "" {
			subjects[v] = struct{}{}
		}
		if v := doc.Get("tags.year").String(); v != "" {
			years[v] = struct{}{}
		}
	}
	st.Subjects = sortedKeys(subjects)
	st.Years = sortedKeys(years)

	st.Flashcards, err = s.Count(ctx, Flashcards)
	if err != nil {
		return st, err
	}
	return st, nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
