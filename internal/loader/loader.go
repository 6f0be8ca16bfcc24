package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/examprep/cbt/internal/cache"
	"github.com/examprep/cbt/internal/catalog"
	"github.com/examprep/cbt/internal/questionbank"
	"github.com/examprep/cbt/internal/store"
)

// ErrNoQuestions is recorded for a subject when neither the network nor any
// cached copy produced a single question.
var ErrNoQuestions = errors.New("no questions available")

// Fetcher is the remote question source.
type Fetcher interface {
	FetchQuestions(ctx context.Context, subject string, count, year int) ([]questionbank.Question, error)
	FetchBulkQuestions(ctx context.Context, subject string, count int) ([]questionbank.Question, error)
}

// Config configures a Loader.
type Config struct {
	MemoryTTL  time.Duration
	DurableTTL time.Duration // 0 keeps durable pages usable forever
}

// DefaultConfig returns the loader defaults.
func DefaultConfig() Config {
	return Config{
		MemoryTTL:  cache.DefaultMemoryTTL,
		DurableTTL: 7 * 24 * time.Hour,
	}
}

// Loader assembles question lists for practice and exam sessions through the
// cache-aside pipeline, topping up short pages from the bulk endpoint.
type Loader struct {
	fetcher Fetcher
	store   *store.Store
	pages   *cache.Pipeline[[]questionbank.Question]
	saved   *cache.Durable[[]questionbank.Question]
	log     *slog.Logger
}

// New creates a Loader. When network reports offline no fetch is attempted
// and only cached questions are used; a nil network always fetches.
func New(fetcher Fetcher, st *store.Store, network cache.Connectivity, cfg Config, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	empty := func(qs []questionbank.Question) bool { return len(qs) == 0 }
	durable := cache.NewDurable[[]questionbank.Question](st, store.Questions, cfg.DurableTTL, log)

	return &Loader{
		fetcher: fetcher,
		store:   st,
		pages: cache.NewPipeline(cache.Options[[]questionbank.Question]{
			Strategy: cache.NetworkFirst,
			Memory:   cache.NewMemory[[]questionbank.Question](cfg.MemoryTTL),
			Durable:  durable,
			Empty:    empty,
			Network:  network,
			Logger:   log,
		}),
		saved: durable,
		log:   log,
	}
}

func tags(subject string, year int) map[string]string {
	y := ""
	if year > 0 {
		y = strconv.Itoa(year)
	}
	return map[string]string{"subject": subject, "year": y}
}

// Questions loads a page of questions for subject through the cache tiers.
func (l *Loader) Questions(ctx context.Context, subject string, count, year int) ([]questionbank.Question, cache.Source, error) {
	req := cache.Request{
		Key:  cache.QuestionKey(subject, count, year, questionbank.DefaultExamType),
		Tags: tags(subject, year),
	}
	return l.pages.Get(ctx, req, func(ctx context.Context) ([]questionbank.Question, error) {
		return l.fetcher.FetchQuestions(ctx, subject, count, year)
	})
}

// Bulk loads the bulk batch for subject through the cache tiers.
func (l *Loader) Bulk(ctx context.Context, subject string, count int) ([]questionbank.Question, error) {
	req := cache.Request{
		Key:  fmt.Sprintf("bulk-%s-%d", subject, count),
		Tags: tags(subject, 0),
	}
	qs, _, err := l.pages.Get(ctx, req, func(ctx context.Context) ([]questionbank.Question, error) {
		return l.fetcher.FetchBulkQuestions(ctx, subject, count)
	})
	if len(qs) > count {
		qs = qs[:count]
	}
	return qs, err
}

// LoadPractice returns up to count questions for a practice session. A short
// page is topped up from the bulk batch; bulk failures are ignored. When
// nothing can be fetched the last practice list for the same selection is
// returned.
func (l *Loader) LoadPractice(ctx context.Context, subject string, count, year int) ([]questionbank.Question, error) {
	key := practiceKey(subject, count, year)

	qs, _, err := l.Questions(ctx, subject, count, year)
	if err != nil {
		if saved := l.savedList(ctx, key); len(saved) > 0 {
			l.log.Info("using saved practice questions", "subject", subject, "count", len(saved))
			return truncate(saved, count), nil
		}
		return nil, err
	}

	if len(qs) < count {
		bulk, err := l.Bulk(ctx, subject, count)
		if err != nil {
			l.log.Debug("bulk top-up failed", "subject", subject, "err", err)
		} else {
			qs = questionbank.TopUp(qs, bulk, count)
		}
	}

	if len(qs) > 0 {
		l.saveList(ctx, key, qs, tags(subject, year))
	}
	return truncate(qs, count), nil
}

// Progress reports how far LoadExam has got.
type Progress struct {
	Loaded        int
	Total         int
	Subject       string
	QuestionCount int
}

// ExamSet is the question list for each subject of a full exam.
type ExamSet struct {
	Questions map[string][]questionbank.Question

	// Failures holds the reason for every subject that ended up with no
	// questions at all.
	Failures map[string]error
}

// LoadExam loads questions for every subject of a full exam. A subject that
// can't be loaded gets an empty list rather than failing the exam; only
// context cancellation aborts the load.
func (l *Loader) LoadExam(ctx context.Context, subjects []catalog.Subject, progress func(Progress)) (*ExamSet, error) {
	set := &ExamSet{
		Questions: make(map[string][]questionbank.Question, len(subjects)),
		Failures:  make(map[string]error),
	}

	for i, subject := range subjects {
		if err := ctx.Err(); err != nil {
			return set, err
		}

		qs, err := l.loadExamSubject(ctx, subject.ID)
		if len(qs) == 0 {
			if err == nil {
				err = ErrNoQuestions
			}
			set.Failures[subject.ID] = err
			l.log.Warn("no questions for subject", "subject", subject.ID, "err", err)
		}
		set.Questions[subject.ID] = qs

		if progress != nil {
			progress(Progress{
				Loaded:        i + 1,
				Total:         len(subjects),
				Subject:       subject.Name,
				QuestionCount: len(qs),
			})
		}
	}
	return set, nil
}

func (l *Loader) loadExamSubject(ctx context.Context, subject string) ([]questionbank.Question, error) {
	count := catalog.QuestionCount(subject)
	key := fmt.Sprintf("exam-%s-%d", subject, count)

	qs, _, err := l.Questions(ctx, subject, count, 0)
	if err != nil {
		qs = l.savedList(ctx, key)
	}

	if len(qs) < count {
		bulk, bulkErr := l.Bulk(ctx, subject, count)
		if bulkErr == nil {
			qs = questionbank.TopUp(qs, bulk, count)
		} else if err == nil {
			err = bulkErr
		}
	}

	if len(qs) > 0 {
		l.saveList(ctx, key, qs, tags(subject, 0))
	}
	return truncate(qs, count), err
}

// Wait blocks until background cache writes have finished.
func (l *Loader) Wait() {
	l.pages.Wait()
}

// ClearMemory drops the in-process page cache.
func (l *Loader) ClearMemory() {
	l.pages.ClearMemory()
}

func practiceKey(subject string, count, year int) string {
	y := "all"
	if year > 0 {
		y = strconv.Itoa(year)
	}
	return fmt.Sprintf("practice-%s-%d-%s", subject, count, y)
}

func (l *Loader) savedList(ctx context.Context, key string) []questionbank.Question {
	r := l.saved.Get(ctx, key)
	if r.Status != cache.StatusHit {
		return nil
	}
	return r.Value
}

func (l *Loader) saveList(ctx context.Context, key string, qs []questionbank.Question, t map[string]string) {
	_ = l.saved.Set(ctx, key, qs, t)
}

func truncate(qs []questionbank.Question, n int) []questionbank.Question {
	if len(qs) > n {
		return qs[:n]
	}
	return qs
}
