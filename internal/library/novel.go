// Package library keeps literature texts and the study material generated
// from them.
package library

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/examprep/cbt/internal/store"
)

var ErrNotFound = errors.New("novel not found")

// Novel is a set text with its study notes.
type Novel struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Author      string      `json:"author"`
	Year        string      `json:"year_published,omitempty"`
	Genre       string      `json:"genre,omitempty"`
	Description string      `json:"description,omitempty"`
	Summary     string      `json:"summary,omitempty"`
	Chapters    []Chapter   `json:"chapters,omitempty"`
	Characters  []Character `json:"characters,omitempty"`
	Themes      []Theme     `json:"themes,omitempty"`
	Devices     []Device    `json:"literary_devices,omitempty"`

	// Text is the full text when the novel was imported from a document.
	Text  string `json:"text,omitempty"`
	Pages int    `json:"pages,omitempty"`
}

type Chapter struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type Character struct {
	Name        string `json:"name"`
	Role        string `json:"role,omitempty"`
	Description string `json:"description"`
}

type Theme struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Device is a literary device with where the text uses it.
type Device struct {
	Name     string `json:"device"`
	Examples string `json:"examples"`
}

// Excerpt returns up to n runes of the best available text: the full text,
// else the summary, else the description.
func (n Novel) Excerpt(max int) string {
	text := n.Text
	if text == "" {
		text = n.Summary
	}
	if text == "" {
		text = n.Description
	}
	r := []rune(text)
	if len(r) > max {
		return string(r[:max])
	}
	return text
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives an id from a title.
func Slug(title string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
}

// Library is the novel collection.
type Library struct {
	store *store.Store
}

func New(st *store.Store) *Library {
	return &Library{store: st}
}

// Save stores n, deriving its id from the title when missing.
func (l *Library) Save(ctx context.Context, n Novel) (Novel, error) {
	if n.ID == "" {
		n.ID = Slug(n.Title)
	}
	if n.ID == "" {
		return Novel{}, errors.New("novel needs an id or title")
	}
	if err := l.store.Put(ctx, store.Novel, n.ID, n); err != nil {
		return Novel{}, fmt.Errorf("save novel: %w", err)
	}
	return n, nil
}

// Get returns the novel with id, stored or built in.
func (l *Library) Get(ctx context.Context, id string) (Novel, error) {
	rec, err := l.store.Get(ctx, store.Novel, id)
	if err != nil {
		return Novel{}, err
	}
	if rec == nil {
		for _, n := range builtin {
			if n.ID == id {
				return n, nil
			}
		}
		return Novel{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var n Novel
	if err := rec.Decode(&n); err != nil {
		return Novel{}, err
	}
	return n, nil
}

// List returns every stored and built-in novel ordered by title.
func (l *Library) List(ctx context.Context) ([]Novel, error) {
	recs, err := l.store.All(ctx, store.Novel)
	if err != nil {
		return nil, err
	}
	out := make([]Novel, 0, len(recs)+len(builtin))
	seen := make(map[string]bool, len(recs))
	for _, rec := range recs {
		var n Novel
		if err := rec.Decode(&n); err == nil {
			out = append(out, n)
			seen[n.ID] = true
		}
	}
	for _, n := range builtin {
		if !seen[n.ID] {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}
