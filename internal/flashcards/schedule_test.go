package flashcards

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule_ExpandsOnHitsAndResetsOnMiss(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	var c Card

	wantDays := []int{3, 7, 14, 30, 60, 90, 90}
	for i, days := range wantDays {
		schedule(&c, true, now)
		assert.Equal(t, now.AddDate(0, 0, days).UnixMilli(), c.NextReview, "hit %d", i+1)
	}
	assert.True(t, c.Mastered())

	schedule(&c, false, now)
	assert.Equal(t, 0, c.Stage)
	assert.Equal(t, now.AddDate(0, 0, 1).UnixMilli(), c.NextReview)
	assert.False(t, c.Mastered())
}

func TestDeck_Due(t *testing.T) {
	d := newTestDeck(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	fresh, err := d.Save(ctx, Card{Subject: "biology", Front: "Unit of life?"})
	require.NoError(t, err)
	reviewed, err := d.Save(ctx, Card{Subject: "biology", Front: "Powerhouse?"})
	require.NoError(t, err)
	_, err = d.Save(ctx, Card{Subject: "physics", Front: "SI unit of force?"})
	require.NoError(t, err)

	_, err = d.RecordReview(ctx, reviewed.ID, true)
	require.NoError(t, err)

	due, err := d.Due(ctx, "biology")
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, fresh.ID, due[0].ID)

	now = now.AddDate(0, 0, 4)
	due, err = d.Due(ctx, "biology")
	require.NoError(t, err)
	assert.Len(t, due, 2, "the reviewed card falls due after its interval")

	all, err := d.Due(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
