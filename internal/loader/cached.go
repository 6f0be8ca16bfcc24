package loader

import (
	"context"

	"github.com/examprep/cbt/internal/questionbank"
	"github.com/examprep/cbt/internal/store"
)

type storedPage struct {
	Value []questionbank.Question `json:"value"`
}

// CachedForSubject returns every cached question for subject across all
// stored pages, without duplicates. Storage failures yield an empty list.
func (l *Loader) CachedForSubject(ctx context.Context, subject string) []questionbank.Question {
	recs, err := l.store.GetAllByIndex(ctx, store.Questions, "subject", subject)
	if err != nil {
		l.log.Warn("read cached questions", "subject", subject, "err", err)
		return nil
	}

	var out []questionbank.Question
	for _, rec := range recs {
		var page storedPage
		if err := rec.Decode(&page); err != nil {
			l.log.Debug("skip unreadable page", "key", rec.Key, "err", err)
			continue
		}
		out = questionbank.TopUp(out, page.Value, len(out)+len(page.Value))
	}
	return out
}

// Stats reports what is cached for offline use.
func (l *Loader) Stats(ctx context.Context) (store.Stats, error) {
	return l.store.Stats(ctx)
}
