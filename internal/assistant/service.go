// Package assistant is the AI study helper: cached single-turn answers, a
// chat session whose history survives restarts, and generators for study
// material.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/examprep/cbt/internal/cache"
	"github.com/examprep/cbt/internal/flashcards"
	"github.com/examprep/cbt/internal/library"
	"github.com/examprep/cbt/internal/llm"
	"github.com/examprep/cbt/internal/store"
)

const (
	// MaxHistory is the number of turns kept in the persisted conversation.
	MaxHistory = 50

	// DefaultAnswerTTL is how long a cached answer is served without asking
	// the model again.
	DefaultAnswerTTL = 24 * time.Hour

	historyKey = "default"
	noReply    = "Sorry, I could not generate a response."
)

// Connectivity reports whether the network is usable.
type Connectivity interface {
	Online(ctx context.Context) bool
}

// Turn is one message of the conversation.
type Turn struct {
	Role    llm.Role `json:"role"`
	Content string   `json:"content"`
}

// AskInput is a question for the assistant.
type AskInput struct {
	Prompt  string
	Subject string
	Context string
	Image   *llm.Image
}

// Reply is the assistant's answer and where it came from.
type Reply struct {
	Text   string
	Source cache.Source
}

// Options configures a Service.
type Options struct {
	// Provider answers questions. Nil means the AI service is not
	// configured; cached answers are still served.
	Provider llm.Provider

	Store   *store.Store
	Network Connectivity

	// Deck and Library receive generated material. Either may be nil.
	Deck    *flashcards.Deck
	Library *library.Library

	MaxTokens   int
	Temperature float64
	AnswerTTL   time.Duration
	Logger      *slog.Logger
}

// Service is the AI conversation service.
type Service struct {
	provider    llm.Provider
	store       *store.Store
	net         Connectivity
	deck        *flashcards.Deck
	library     *library.Library
	maxTokens   int
	temperature float64
	answers     *cache.Pipeline[string]
	log         *slog.Logger

	mu      sync.Mutex
	session []Turn // nil until first use
	loaded  bool
}

// New creates a Service.
func New(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.AnswerTTL == 0 {
		opts.AnswerTTL = DefaultAnswerTTL
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1000
	}

	s := &Service{
		provider:    opts.Provider,
		store:       opts.Store,
		net:         opts.Network,
		deck:        opts.Deck,
		library:     opts.Library,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		log:         opts.Logger,
	}
	s.answers = cache.NewPipeline(cache.Options[string]{
		Strategy: cache.CacheFirst,
		Memory:   cache.NewMemory[string](cache.DefaultMemoryTTL),
		Durable:  cache.NewDurable[string](opts.Store, store.AICache, opts.AnswerTTL, opts.Logger),
		Empty:    func(v string) bool { return v == "" || v == noReply },
		Logger:   opts.Logger,
	})
	return s
}

// Ask answers a question. Text questions are served from the answer cache
// when possible and otherwise continue the chat session. Questions with an
// image always go to the model as a one-off request.
func (s *Service) Ask(ctx context.Context, in AskInput) (Reply, error) {
	if strings.TrimSpace(in.Prompt) == "" && in.Image == nil {
		return Reply{}, errors.New("empty question")
	}

	if in.Image != nil {
		text, err := s.askWithImage(ctx, in)
		return Reply{Text: text, Source: cache.SourceNetwork}, err
	}

	req := cache.Request{Key: cache.PromptKey(in.Prompt, in.Subject)}
	msg := userMessage(in)
	text, src, err := s.answers.Get(ctx, req, func(ctx context.Context) (string, error) {
		if err := s.ready(ctx); err != nil {
			return "", err
		}
		return s.chat(ctx, msg)
	})
	if err != nil {
		var fb *cache.FallbackError
		if errors.As(err, &fb) {
			err = fb.Err
		}
		return Reply{}, err
	}
	return Reply{Text: text, Source: src}, nil
}

// Wait blocks until cached answers have been written.
func (s *Service) Wait() {
	s.answers.Wait()
}

func (s *Service) ready(ctx context.Context) error {
	if s.net != nil && !s.net.Online(ctx) {
		return ErrOffline
	}
	if s.provider == nil {
		return ErrNotConfigured
	}
	return nil
}

// userMessage frames the prompt. Context takes precedence over the subject
// tag.
func userMessage(in AskInput) string {
	switch {
	case in.Context != "":
		return "Context: " + in.Context + "\n\nQuestion: " + in.Prompt
	case in.Subject != "":
		return "[Subject: " + in.Subject + "] " + in.Prompt
	default:
		return in.Prompt
	}
}

func (s *Service) request(msgs []llm.Message) llm.Request {
	return llm.Request{
		System:      SystemPrompt,
		Messages:    msgs,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	}
}

// withPurpose labels the request for the request log unless a caller
// already has.
func withPurpose(ctx context.Context, purpose llm.Purpose) context.Context {
	if llm.PurposeFrom(ctx) != llm.PurposeOther {
		return ctx
	}
	return llm.WithPurpose(ctx, purpose)
}

func replyText(resp *llm.Response) string {
	if text := strings.TrimSpace(resp.Text()); text != "" {
		return text
	}
	return noReply
}

func (s *Service) askWithImage(ctx context.Context, in AskInput) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	msg := llm.Message{Role: llm.RoleUser, Content: userMessage(in), Images: []llm.Image{*in.Image}}
	resp, err := s.provider.Generate(withPurpose(ctx, llm.PurposeImage), s.request([]llm.Message{msg}))
	if err != nil {
		return "", &ServiceError{Err: err}
	}
	return replyText(resp), nil
}

// chat sends content as the next user turn of the session.
func (s *Service) chat(ctx context.Context, content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.loadSession(ctx)
	msgs := make([]llm.Message, 0, len(turns)+1)
	for _, t := range turns {
		msgs = append(msgs, llm.Message{Role: t.Role, Content: t.Content})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: content})

	resp, err := s.provider.Generate(withPurpose(ctx, llm.PurposeChat), s.request(msgs))
	if err != nil {
		return "", &ServiceError{Err: err}
	}
	text := replyText(resp)

	turns = append(turns,
		Turn{Role: llm.RoleUser, Content: content},
		Turn{Role: llm.RoleAssistant, Content: text},
	)
	s.session = trimHistory(turns)
	s.saveSession(ctx)
	return text, nil
}

func trimHistory(turns []Turn) []Turn {
	if len(turns) > MaxHistory {
		turns = turns[len(turns)-MaxHistory:]
	}
	return turns
}

// loadSession replays persisted history once per Service. Must hold s.mu.
func (s *Service) loadSession(ctx context.Context) []Turn {
	if s.loaded {
		return s.session
	}
	s.loaded = true
	s.session = nil

	rec, err := s.store.Get(ctx, store.ConversationHistory, historyKey)
	if err != nil {
		s.log.Warn("load conversation history", "err", err)
		return nil
	}
	if rec == nil {
		return nil
	}
	var stored []Turn
	if err := rec.Decode(&stored); err != nil {
		s.log.Warn("conversation history unreadable", "err", err)
		return nil
	}
	for _, t := range stored {
		if t.Role == llm.RoleUser || t.Role == llm.RoleAssistant {
			s.session = append(s.session, t)
		}
	}
	s.session = trimHistory(s.session)
	return s.session
}

func (s *Service) saveSession(ctx context.Context) {
	if err := s.store.Put(context.WithoutCancel(ctx), store.ConversationHistory, historyKey, s.session); err != nil {
		s.log.Warn("save conversation history", "err", err)
	}
}

// ResetSession forgets the conversation, in memory and on disk.
func (s *Service) ResetSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
	s.loaded = true
	return s.store.Delete(ctx, store.ConversationHistory, historyKey)
}

// History returns the current conversation, oldest first.
func (s *Service) History(ctx context.Context) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.loadSession(ctx)
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}
