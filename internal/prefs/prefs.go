// Package prefs persists user settings, result history, bookmarks and
// notifications as a single document. Active sessions and in-process caches
// are never written here.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/examprep/cbt/internal/exam"
	"github.com/examprep/cbt/internal/questionbank"
	"github.com/examprep/cbt/internal/store"
)

const (
	docKey = "app"

	// MaxHistory bounds each result history.
	MaxHistory = 50

	// MaxNotifications bounds the notification list.
	MaxNotifications = 50
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnknownKey   = errors.New("unknown setting")
	ErrInvalidValue = errors.New("invalid setting value")
)

// Settings are the user's display and exam preferences.
type Settings struct {
	Theme             string `json:"theme"`
	FontSize          string `json:"font_size"`
	TimerEnabled      bool   `json:"timer_enabled"`
	SoundEnabled      bool   `json:"sound_enabled"`
	VibrationEnabled  bool   `json:"vibration_enabled"`
	CalculatorEnabled bool   `json:"calculator_enabled"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Theme:             "dark",
		FontSize:          "medium",
		TimerEnabled:      true,
		SoundEnabled:      true,
		VibrationEnabled:  true,
		CalculatorEnabled: true,
	}
}

// Bookmark is a saved question.
type Bookmark struct {
	Question     questionbank.Question `json:"question"`
	BookmarkedAt int64                 `json:"bookmarked_at"` // unix ms
}

// Notification is an in-app message.
type Notification struct {
	ID        int64  `json:"id"`
	Type      string `json:"type,omitempty"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"` // unix ms
	Read      bool   `json:"read"`
}

// State is everything that survives a restart.
type State struct {
	Settings        Settings       `json:"settings"`
	PracticeHistory []exam.Result  `json:"practice_history"`
	ExamHistory     []exam.Result  `json:"exam_history"`
	Bookmarks       []Bookmark     `json:"bookmarks"`
	Notifications   []Notification `json:"notifications"`
}

var _ exam.HistorySink = (*Prefs)(nil)

// Prefs holds the persisted state in memory and writes it back on every
// mutation. A failed write is returned; the in-memory change stands.
type Prefs struct {
	store *store.Store
	log   *slog.Logger
	now   func() time.Time

	mu    sync.Mutex
	state State
}

// Load restores the persisted state. A missing or unreadable document
// yields the defaults, as does any setting the document lacks.
func Load(ctx context.Context, st *store.Store, log *slog.Logger) *Prefs {
	if log == nil {
		log = slog.Default()
	}
	p := &Prefs{store: st, log: log, now: time.Now, state: State{Settings: DefaultSettings()}}

	rec, err := st.Get(ctx, store.Prefs, docKey)
	if err != nil {
		log.Warn("load preferences", "err", err)
		return p
	}
	if rec == nil {
		return p
	}
	// Settings missing from an older document keep their defaults.
	s := State{Settings: DefaultSettings()}
	if err := rec.Decode(&s); err != nil {
		log.Warn("load preferences", "err", err)
		return p
	}
	p.state = s
	return p
}

func (p *Prefs) update(ctx context.Context, fn func(*State) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := fn(&p.state); err != nil {
		return err
	}
	if err := p.store.Put(ctx, store.Prefs, docKey, p.state); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// State returns a copy of the current state.
func (p *Prefs) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	s.PracticeHistory = slices.Clone(s.PracticeHistory)
	s.ExamHistory = slices.Clone(s.ExamHistory)
	s.Bookmarks = slices.Clone(s.Bookmarks)
	s.Notifications = slices.Clone(s.Notifications)
	return s
}

// Settings returns the current settings.
func (p *Prefs) Settings() Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Settings
}

var choices = map[string][]string{
	"theme":     {"dark", "light"},
	"font_size": {"small", "medium", "large"},
}

// Set changes one setting by its JSON name, e.g. Set(ctx, "theme", "light").
func (p *Prefs) Set(ctx context.Context, key, value string) error {
	return p.update(ctx, func(s *State) error {
		if allowed, ok := choices[key]; ok && !slices.Contains(allowed, value) {
			return fmt.Errorf("%w: %s must be one of %v", ErrInvalidValue, key, allowed)
		}
		switch key {
		case "theme":
			s.Settings.Theme = value
		case "font_size":
			s.Settings.FontSize = value
		case "timer_enabled", "sound_enabled", "vibration_enabled", "calculator_enabled":
			b, err := parseBool(value)
			if err != nil {
				return err
			}
			switch key {
			case "timer_enabled":
				s.Settings.TimerEnabled = b
			case "sound_enabled":
				s.Settings.SoundEnabled = b
			case "vibration_enabled":
				s.Settings.VibrationEnabled = b
			default:
				s.Settings.CalculatorEnabled = b
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownKey, key)
		}
		return nil
	})
}

func parseBool(v string) (bool, error) {
	switch v {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not on or off", ErrInvalidValue, v)
}

// AddResult prepends r to the history for its mode, keeping the newest
// MaxHistory entries.
func (p *Prefs) AddResult(ctx context.Context, r exam.Result) error {
	return p.update(ctx, func(s *State) error {
		list := &s.ExamHistory
		if r.Mode == exam.ModePractice {
			list = &s.PracticeHistory
		}
		*list = prepend(*list, r, MaxHistory)
		return nil
	})
}

// History returns the results for mode, newest first.
func (p *Prefs) History(mode exam.Mode) []exam.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	if mode == exam.ModePractice {
		return slices.Clone(p.state.PracticeHistory)
	}
	return slices.Clone(p.state.ExamHistory)
}

// ToggleBookmark bookmarks q, or removes the bookmark if q is already
// saved. It reports whether q is bookmarked afterwards.
func (p *Prefs) ToggleBookmark(ctx context.Context, q questionbank.Question) (bool, error) {
	var added bool
	err := p.update(ctx, func(s *State) error {
		if i := bookmarkIndex(s.Bookmarks, q.ID); i >= 0 {
			s.Bookmarks = slices.Delete(s.Bookmarks, i, i+1)
			return nil
		}
		s.Bookmarks = append(s.Bookmarks, Bookmark{Question: q, BookmarkedAt: p.now().UnixMilli()})
		added = true
		return nil
	})
	return added, err
}

// RemoveBookmark deletes the bookmark for question id.
func (p *Prefs) RemoveBookmark(ctx context.Context, id string) error {
	return p.update(ctx, func(s *State) error {
		i := bookmarkIndex(s.Bookmarks, id)
		if i < 0 {
			return fmt.Errorf("bookmark %s: %w", id, ErrNotFound)
		}
		s.Bookmarks = slices.Delete(s.Bookmarks, i, i+1)
		return nil
	})
}

// IsBookmarked reports whether question id is bookmarked.
func (p *Prefs) IsBookmarked(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return bookmarkIndex(p.state.Bookmarks, id) >= 0
}

// Bookmarks returns the bookmarks in the order they were added.
func (p *Prefs) Bookmarks() []Bookmark {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.state.Bookmarks)
}

func bookmarkIndex(bs []Bookmark, id string) int {
	return slices.IndexFunc(bs, func(b Bookmark) bool { return b.Question.ID == id })
}

// Notify prepends a notification, keeping the newest MaxNotifications.
// Ids are creation times in milliseconds, bumped to stay unique.
func (p *Prefs) Notify(ctx context.Context, n Notification) (Notification, error) {
	err := p.update(ctx, func(s *State) error {
		now := p.now().UnixMilli()
		n.ID = now
		if len(s.Notifications) > 0 && s.Notifications[0].ID >= n.ID {
			n.ID = s.Notifications[0].ID + 1
		}
		n.Timestamp = now
		n.Read = false
		s.Notifications = prepend(s.Notifications, n, MaxNotifications)
		return nil
	})
	return n, err
}

// MarkRead marks notification id as read.
func (p *Prefs) MarkRead(ctx context.Context, id int64) error {
	return p.update(ctx, func(s *State) error {
		i := notificationIndex(s.Notifications, id)
		if i < 0 {
			return fmt.Errorf("notification %d: %w", id, ErrNotFound)
		}
		s.Notifications[i].Read = true
		return nil
	})
}

// RemoveNotification deletes notification id.
func (p *Prefs) RemoveNotification(ctx context.Context, id int64) error {
	return p.update(ctx, func(s *State) error {
		i := notificationIndex(s.Notifications, id)
		if i < 0 {
			return fmt.Errorf("notification %d: %w", id, ErrNotFound)
		}
		s.Notifications = slices.Delete(s.Notifications, i, i+1)
		return nil
	})
}

// ClearNotifications deletes every notification.
func (p *Prefs) ClearNotifications(ctx context.Context) error {
	return p.update(ctx, func(s *State) error {
		s.Notifications = nil
		return nil
	})
}

// Notifications returns the notifications, newest first.
func (p *Prefs) Notifications() []Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.state.Notifications)
}

// Unread counts unread notifications.
func (p *Prefs) Unread() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, x := range p.state.Notifications {
		if !x.Read {
			n++
		}
	}
	return n
}

func notificationIndex(ns []Notification, id int64) int {
	return slices.IndexFunc(ns, func(n Notification) bool { return n.ID == id })
}

// ClearAll wipes histories, bookmarks and notifications. Settings are kept.
func (p *Prefs) ClearAll(ctx context.Context) error {
	return p.update(ctx, func(s *State) error {
		*s = State{Settings: s.Settings}
		return nil
	})
}

func prepend[T any](list []T, v T, limit int) []T {
	if len(list) >= limit {
		list = list[:limit-1]
	}
	out := make([]T, 0, len(list)+1)
	out = append(out, v)
	return append(out, list...)
}
