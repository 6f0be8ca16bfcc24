// Package dictionary looks up English word definitions.
package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"
	DefaultTimeout = 10 * time.Second
)

var ErrWordNotFound = errors.New("word not found in dictionary")

// Entry is one dictionary entry for a word.
type Entry struct {
	Word      string    `json:"word"`
	Phonetic  string    `json:"phonetic,omitempty"`
	Meanings  []Meaning `json:"meanings"`
	SourceURL []string  `json:"sourceUrls,omitempty"`
}

// Meaning groups the definitions for one part of speech.
type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Definitions  []Definition `json:"definitions"`
	Synonyms     []string     `json:"synonyms,omitempty"`
	Antonyms     []string     `json:"antonyms,omitempty"`
}

type Definition struct {
	Definition string `json:"definition"`
	Example    string `json:"example,omitempty"`
}

// Client queries the dictionary API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// Lookup returns the entries for word. A 404 is ErrWordNotFound; any other
// failure is wrapped.
func (c *Client) Lookup(ctx context.Context, word string) ([]Entry, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrWordNotFound
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(word), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dictionary lookup %q: %w", word, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%q: %w", word, ErrWordNotFound)
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("dictionary lookup %q: status %d", word, resp.StatusCode)
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("dictionary lookup %q: decode: %w", word, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%q: %w", word, ErrWordNotFound)
	}
	return entries, nil
}
