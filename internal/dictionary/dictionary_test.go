package dictionary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ephemeral":
			w.Write([]byte(`[{"word":"ephemeral","phonetic":"/ɪˈfɛm(ə)rəl/","meanings":[
				{"partOfSpeech":"adjective","definitions":[{"definition":"Lasting for a short time.","example":"fashions are ephemeral"}],"synonyms":["fleeting"]}
			]}]`))
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"title":"No Definitions Found"}`))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()

	entries, err := c.Lookup(ctx, " ephemeral ")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(entries) != 1 || entries[0].Word != "ephemeral" {
		t.Fatalf("entries = %+v", entries)
	}
	m := entries[0].Meanings[0]
	if m.PartOfSpeech != "adjective" || m.Definitions[0].Example != "fashions are ephemeral" {
		t.Errorf("meaning = %+v", m)
	}
	if len(m.Synonyms) != 1 || m.Synonyms[0] != "fleeting" {
		t.Errorf("synonyms = %v", m.Synonyms)
	}

	if _, err := c.Lookup(ctx, "qwzx"); !errors.Is(err, ErrWordNotFound) {
		t.Errorf("missing word: err = %v, want ErrWordNotFound", err)
	}
	if _, err := c.Lookup(ctx, "broken"); err == nil || errors.Is(err, ErrWordNotFound) {
		t.Errorf("server error: err = %v, want a non-404 failure", err)
	}
	if _, err := c.Lookup(ctx, "   "); !errors.Is(err, ErrWordNotFound) {
		t.Errorf("blank word: err = %v", err)
	}
}
