package library

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examprep/cbt/internal/store"
)

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(st)
}

func TestLibrary_SaveGetList(t *testing.T) {
	l := newTestLibrary(t)
	ctx := context.Background()

	n, err := l.Save(ctx, Novel{Title: "Sweet Sixteen", Author: "Bolaji Abdullahi"})
	require.NoError(t, err)
	assert.Equal(t, "sweet-sixteen", n.ID)

	_, err = l.Save(ctx, Novel{Title: "A Good Novel"})
	require.NoError(t, err)

	got, err := l.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got)

	all, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3, "stored novels plus the built-in set text")
	assert.Equal(t, "A Good Novel", all[0].Title)
	assert.Equal(t, "The Lekki Headmaster", all[2].Title)

	_, err = l.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = l.Save(ctx, Novel{})
	assert.Error(t, err)
}

func TestLibrary_BuiltinSetText(t *testing.T) {
	l := newTestLibrary(t)
	ctx := context.Background()

	n, err := l.Get(ctx, "lekki-headmaster")
	require.NoError(t, err)
	assert.Len(t, n.Chapters, 10)
	assert.Len(t, n.Characters, 6)
	assert.Len(t, n.Themes, 6)
	assert.Len(t, n.Devices, 4)
	assert.Equal(t, "Legacy", n.Chapters[9].Title)

	// A stored copy replaces the built-in one.
	n.Summary = "My own notes."
	_, err = l.Save(ctx, n)
	require.NoError(t, err)
	all, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "My own notes.", all[0].Summary)
}

func TestStudyCards(t *testing.T) {
	cards := StudyCards(lekkiHeadmaster)
	require.Len(t, cards, 6+6+4+1)

	first := cards[0]
	assert.Equal(t, "novel-lekki-headmaster-char-mr-adekunle-olatunji", first.ID)
	assert.Equal(t, "literature", first.Subject)
	assert.Equal(t, "The Lekki Headmaster - Characters", first.Topic)
	assert.Equal(t, "Who is Mr. Adekunle Olatunji?", first.Front)
	assert.Contains(t, first.Back, "Protagonist - Headmaster\n\n")

	summary := cards[len(cards)-1]
	assert.Equal(t, "The Lekki Headmaster - Overview", summary.Topic)
	assert.True(t, strings.HasSuffix(summary.Back, "..."))
	assert.LessOrEqual(t, len([]rune(summary.Back)), summaryCardLimit+3)

	assert.Equal(t, cards, StudyCards(lekkiHeadmaster), "ids are stable")
	assert.Empty(t, StudyCards(Novel{ID: "bare", Title: "Bare"}))
}

func TestLibrary_Analysis(t *testing.T) {
	l := newTestLibrary(t)
	ctx := context.Background()

	a, err := l.Analysis(ctx, "novel")
	require.NoError(t, err)
	assert.Nil(t, a)

	want := Analysis{
		Summary:    "A headmaster reforms a school.",
		Themes:     []string{"leadership", "integrity"},
		Characters: []CharacterNote{{Name: "Mr Olatunji", Description: "the headmaster"}},
	}
	require.NoError(t, l.SaveAnalysis(ctx, "novel", want))

	a, err = l.Analysis(ctx, "novel")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, want, *a)

	n, err := l.Analyses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNovelExcerpt(t *testing.T) {
	assert.Equal(t, "abc", Novel{Text: "abcdef"}.Excerpt(3))
	assert.Equal(t, "summary", Novel{Summary: "summary", Description: "d"}.Excerpt(100))
	assert.Equal(t, "d", Novel{Description: "d"}.Excerpt(100))
}

func TestImportPDF_RejectsNonPDF(t *testing.T) {
	l := newTestLibrary(t)
	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	_, err := l.ImportPDF(context.Background(), path, Novel{})
	assert.Error(t, err)

	_, err = l.ImportPDF(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"), Novel{})
	assert.Error(t, err)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a\n\nb", cleanText("  a\r\n\n\n\n\nb \n"))
}
