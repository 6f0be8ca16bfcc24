package flashcards

import (
	"context"
	"sort"
	"time"
)

// reviewIntervals is the expanding schedule in days. Each correct review
// moves a card one stage along; a miss sends it back to the start.
var reviewIntervals = []int{1, 3, 7, 14, 30, 60}

// masteredInterval applies once a card has passed every stage.
const masteredInterval = 90

// Mastered reports whether the card has passed every review stage.
func (c Card) Mastered() bool {
	return c.Stage >= len(reviewIntervals)
}

// Due reports whether the card should be reviewed at now. New cards are
// always due.
func (c Card) Due(now time.Time) bool {
	return c.NextReview == 0 || now.UnixMilli() >= c.NextReview
}

// schedule advances or resets c after a review at now.
func schedule(c *Card, correct bool, now time.Time) {
	if correct {
		c.Stage++
	} else {
		c.Stage = 0
	}
	days := masteredInterval
	if c.Stage < len(reviewIntervals) {
		days = reviewIntervals[c.Stage]
	}
	if !correct {
		days = reviewIntervals[0]
	}
	c.NextReview = now.AddDate(0, 0, days).UnixMilli()
}

// Due returns the cards due for review, most overdue first. Empty subject
// matches all.
func (d *Deck) Due(ctx context.Context, subject string) ([]Card, error) {
	cards, err := d.List(ctx, subject, "")
	if err != nil {
		return nil, err
	}
	now := d.now()
	due := cards[:0]
	for _, c := range cards {
		if c.Due(now) {
			due = append(due, c)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].NextReview < due[j].NextReview
	})
	return due, nil
}
