package prefs

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examprep/cbt/internal/catalog"
	"github.com/examprep/cbt/internal/exam"
	"github.com/examprep/cbt/internal/questionbank"
	"github.com/examprep/cbt/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "cbt.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestLoadDefaults(t *testing.T) {
	p := Load(context.Background(), openStore(t), nil)
	assert.Equal(t, DefaultSettings(), p.Settings())
	assert.Empty(t, p.History(exam.ModeFull))
}

func TestLoadFillsMissingSettings(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	require.NoError(t, st.Put(ctx, store.Prefs, docKey, map[string]any{
		"settings": map[string]any{"theme": "light", "sound_enabled": false},
	}))

	got := Load(ctx, st, nil).Settings()
	assert.Equal(t, "light", got.Theme)
	assert.False(t, got.SoundEnabled)
	assert.True(t, got.TimerEnabled, "timer defaults on when the stored document predates it")
	assert.True(t, got.CalculatorEnabled)
	assert.Equal(t, "medium", got.FontSize)
}

func TestSettingsSurviveRestart(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	p := Load(ctx, st, nil)
	require.NoError(t, p.Set(ctx, "theme", "light"))
	require.NoError(t, p.Set(ctx, "font_size", "large"))
	require.NoError(t, p.Set(ctx, "sound_enabled", "off"))

	got := Load(ctx, st, nil).Settings()
	assert.Equal(t, "light", got.Theme)
	assert.Equal(t, "large", got.FontSize)
	assert.False(t, got.SoundEnabled)
	assert.True(t, got.TimerEnabled)
}

func TestSetRejectsBadInput(t *testing.T) {
	p := Load(context.Background(), openStore(t), nil)
	ctx := context.Background()

	assert.ErrorIs(t, p.Set(ctx, "theme", "neon"), ErrInvalidValue)
	assert.ErrorIs(t, p.Set(ctx, "timer_enabled", "maybe"), ErrInvalidValue)
	assert.ErrorIs(t, p.Set(ctx, "volume", "11"), ErrUnknownKey)
	assert.Equal(t, DefaultSettings(), p.Settings())
}

func TestHistoryIsCappedPerMode(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	p := Load(ctx, st, nil)

	for i := range MaxHistory + 5 {
		require.NoError(t, p.AddResult(ctx, exam.Result{ID: strconv.Itoa(i), Mode: exam.ModeFull}))
	}
	require.NoError(t, p.AddResult(ctx, exam.Result{ID: "p", Mode: exam.ModePractice}))

	full := Load(ctx, st, nil).History(exam.ModeFull)
	require.Len(t, full, MaxHistory)
	assert.Equal(t, strconv.Itoa(MaxHistory+4), full[0].ID, "newest first")
	assert.Equal(t, "5", full[MaxHistory-1].ID)

	practice := p.History(exam.ModePractice)
	require.Len(t, practice, 1)
	assert.Equal(t, "p", practice[0].ID)
}

func TestMachineRecordsIntoHistory(t *testing.T) {
	ctx := context.Background()
	p := Load(ctx, openStore(t), nil)
	m := exam.NewMachine(p, nil)

	m.StartPractice(catalog.Subject{ID: "physics", Name: "Physics"}, 0, []questionbank.Question{{ID: "q", Options: map[string]string{"a": "x"}, Answer: "a"}}, 1)
	require.NoError(t, m.Answer(0, "a"))
	r, err := m.Submit(ctx)
	require.NoError(t, err)

	h := p.History(exam.ModePractice)
	require.Len(t, h, 1)
	assert.Equal(t, r.ID, h[0].ID)
	assert.Equal(t, 100, h[0].OverallScore)
}

func TestBookmarkToggle(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	p := Load(ctx, st, nil)
	q := questionbank.Question{ID: "physics-1", Text: "What is a vector?"}

	on, err := p.ToggleBookmark(ctx, q)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, Load(ctx, st, nil).IsBookmarked("physics-1"))

	on, err = p.ToggleBookmark(ctx, q)
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, p.Bookmarks())

	assert.ErrorIs(t, p.RemoveBookmark(ctx, "physics-1"), ErrNotFound)
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	p := Load(ctx, openStore(t), nil)
	fixed := time.UnixMilli(1_700_000_000_000)
	p.now = func() time.Time { return fixed }

	var ids []int64
	for i := range MaxNotifications + 3 {
		n, err := p.Notify(ctx, Notification{Title: "n" + strconv.Itoa(i)})
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}
	ns := p.Notifications()
	require.Len(t, ns, MaxNotifications)
	assert.Equal(t, "n52", ns[0].Title)
	assert.NotEqual(t, ids[0], ids[1], "ids stay unique within one millisecond")
	assert.Equal(t, MaxNotifications, p.Unread())

	require.NoError(t, p.MarkRead(ctx, ns[0].ID))
	assert.Equal(t, MaxNotifications-1, p.Unread())

	require.NoError(t, p.RemoveNotification(ctx, ns[1].ID))
	assert.Len(t, p.Notifications(), MaxNotifications-1)
	assert.ErrorIs(t, p.MarkRead(ctx, 42), ErrNotFound)

	require.NoError(t, p.ClearNotifications(ctx))
	assert.Empty(t, p.Notifications())
}

func TestClearAllKeepsSettings(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	p := Load(ctx, st, nil)

	require.NoError(t, p.Set(ctx, "theme", "light"))
	require.NoError(t, p.AddResult(ctx, exam.Result{ID: "r", Mode: exam.ModeFull}))
	_, err := p.ToggleBookmark(ctx, questionbank.Question{ID: "q"})
	require.NoError(t, err)
	_, err = p.Notify(ctx, Notification{Title: "hi"})
	require.NoError(t, err)

	require.NoError(t, p.ClearAll(ctx))

	s := Load(ctx, st, nil).State()
	assert.Equal(t, "light", s.Settings.Theme)
	assert.Empty(t, s.ExamHistory)
	assert.Empty(t, s.Bookmarks)
	assert.Empty(t, s.Notifications)
}
