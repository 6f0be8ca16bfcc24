// Package flashcards stores study cards and their review progress.
package flashcards

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/examprep/cbt/internal/store"
)

var ErrNotFound = errors.New("flashcard not found")

// Card is a single question/answer study card.
type Card struct {
	ID           string `json:"id"`
	Subject      string `json:"subject"`
	Topic        string `json:"topic"`
	Front        string `json:"front"`
	Back         string `json:"back"`
	CreatedAt    int64  `json:"created_at"` // unix ms
	ReviewCount  int    `json:"review_count"`
	CorrectCount int    `json:"correct_count"`
	LastReviewed int64  `json:"last_reviewed,omitempty"` // unix ms
	Stage        int    `json:"stage"`
	NextReview   int64  `json:"next_review,omitempty"` // unix ms; 0 for a new card
}

// Accuracy is the share of reviews answered correctly, 0 before any review.
func (c Card) Accuracy() float64 {
	if c.ReviewCount == 0 {
		return 0
	}
	return float64(c.CorrectCount) / float64(c.ReviewCount)
}

// Deck is the flashcard collection.
type Deck struct {
	store *store.Store
	now   func() time.Time
}

func NewDeck(st *store.Store) *Deck {
	return &Deck{store: st, now: time.Now}
}

// Save stores c, assigning an id and creation time when missing.
func (d *Deck) Save(ctx context.Context, c Card) (Card, error) {
	if c.ID == "" {
		c.ID = "fc-" + uuid.NewString()
	}
	if c.CreatedAt == 0 {
		c.CreatedAt = d.now().UnixMilli()
	}
	if err := d.store.Put(ctx, store.Flashcards, c.ID, c); err != nil {
		return Card{}, fmt.Errorf("save flashcard: %w", err)
	}
	return c, nil
}

// AddMissing saves the cards whose ids are not already in the deck and
// returns how many were added. Existing cards keep their review progress.
func (d *Deck) AddMissing(ctx context.Context, cards []Card) (int, error) {
	added := 0
	for _, c := range cards {
		_, err := d.Get(ctx, c.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return added, err
		}
		if _, err := d.Save(ctx, c); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// Get returns the card with id.
func (d *Deck) Get(ctx context.Context, id string) (Card, error) {
	rec, err := d.store.Get(ctx, store.Flashcards, id)
	if err != nil {
		return Card{}, err
	}
	if rec == nil {
		return Card{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var c Card
	if err := rec.Decode(&c); err != nil {
		return Card{}, err
	}
	return c, nil
}

// List returns cards newest first. Empty subject or topic matches all.
func (d *Deck) List(ctx context.Context, subject, topic string) ([]Card, error) {
	var (
		recs []store.Record
		err  error
	)
	if subject != "" {
		recs, err = d.store.GetAllByIndex(ctx, store.Flashcards, "subject", subject)
	} else {
		recs, err = d.store.All(ctx, store.Flashcards)
	}
	if err != nil {
		return nil, fmt.Errorf("list flashcards: %w", err)
	}

	cards := make([]Card, 0, len(recs))
	for _, rec := range recs {
		var c Card
		if err := rec.Decode(&c); err != nil {
			continue
		}
		if topic != "" && c.Topic != topic {
			continue
		}
		cards = append(cards, c)
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].CreatedAt > cards[j].CreatedAt
	})
	return cards, nil
}

// Delete removes the card with id. Deleting a missing card is not an error.
func (d *Deck) Delete(ctx context.Context, id string) error {
	return d.store.Delete(ctx, store.Flashcards, id)
}

// RecordReview counts one review of the card and schedules the next.
func (d *Deck) RecordReview(ctx context.Context, id string, correct bool) (Card, error) {
	c, err := d.Get(ctx, id)
	if err != nil {
		return Card{}, err
	}
	now := d.now()
	c.ReviewCount++
	if correct {
		c.CorrectCount++
	}
	c.LastReviewed = now.UnixMilli()
	schedule(&c, correct, now)
	return d.Save(ctx, c)
}
