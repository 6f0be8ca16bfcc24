// Package app wires the services behind the command line.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/examprep/cbt/internal/assistant"
	"github.com/examprep/cbt/internal/config"
	"github.com/examprep/cbt/internal/dictionary"
	"github.com/examprep/cbt/internal/exam"
	"github.com/examprep/cbt/internal/flashcards"
	"github.com/examprep/cbt/internal/library"
	"github.com/examprep/cbt/internal/llm"
	"github.com/examprep/cbt/internal/loader"
	"github.com/examprep/cbt/internal/netstat"
	"github.com/examprep/cbt/internal/prefs"
	"github.com/examprep/cbt/internal/questionbank"
	"github.com/examprep/cbt/internal/store"
)

// Options configures Open.
type Options struct {
	Config config.Config
	DBPath string
	Logger *slog.Logger

	// Provider overrides the AI provider built from Config.
	Provider llm.Provider

	// Network overrides the connectivity check.
	Network assistant.Connectivity
}

// App holds every service for one process.
type App struct {
	Config     config.Config
	Store      *store.Store
	Questions  *questionbank.Client
	Network    assistant.Connectivity
	Loader     *loader.Loader
	Assistant  *assistant.Service
	Deck       *flashcards.Deck
	Library    *library.Library
	Prefs      *prefs.Prefs
	Exam       *exam.Machine
	Dictionary *dictionary.Client
	Log        *slog.Logger

	// AIError explains why Assistant has no provider, if it has none.
	AIError error
}

// Open opens the store and builds the services. A missing or broken AI
// configuration is not fatal: the assistant reports it per request.
func Open(ctx context.Context, opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	cfg := opts.Config

	st, err := store.Open(ctx, opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	a := &App{
		Config:     cfg,
		Store:      st,
		Deck:       flashcards.NewDeck(st),
		Library:    library.New(st),
		Dictionary: dictionary.NewClient(cfg.DictionaryURL),
		Log:        log,
	}

	a.Questions = questionbank.NewClient(questionbank.Options{
		BaseURL:     cfg.APIURL,
		AccessToken: cfg.AccessToken,
		Logger:      log,
	})

	a.Network = opts.Network
	if a.Network == nil {
		checker := netstat.NewChecker(a.Questions.BaseURL())
		checker.ForceOffline(cfg.Offline)
		a.Network = checker
	}

	a.Loader = loader.New(a.Questions, st, a.Network, loader.DefaultConfig(), log)
	a.Prefs = prefs.Load(ctx, st, log)
	a.Exam = exam.NewMachine(a.Prefs, log)

	provider := opts.Provider
	if provider == nil {
		provider, a.AIError = llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), log)
		if a.AIError != nil {
			log.Debug("AI provider unavailable", "err", a.AIError)
		}
	}

	a.Assistant = assistant.New(assistant.Options{
		Provider:    provider,
		Store:       st,
		Network:     a.Network,
		Deck:        a.Deck,
		Library:     a.Library,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Logger:      log,
	})
	return a, nil
}

// Close waits for background cache writes and closes the store.
func (a *App) Close() error {
	a.Loader.Wait()
	a.Assistant.Wait()
	return a.Store.Close()
}
