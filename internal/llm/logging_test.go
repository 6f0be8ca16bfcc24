package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/examprep/cbt/internal/store"
)

func TestLoggingProvider_RecordsRequests(t *testing.T) {
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "llm.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`Osmosis is diffusion of water.`), Usage: Usage{InputTokens: 12, OutputTokens: 6}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	repo := st.EventRepo()
	p := WithLogging(mock, "mock", repo, nil)

	ctx := WithPurpose(context.Background(), PurposeChat)
	req := Request{
		System: "tutor",
		Messages: []Message{{
			Role:    RoleUser,
			Content: "What is osmosis?",
			Images:  []Image{{MIMEType: "image/png", Data: []byte("png")}},
		}},
	}
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("expected error from second call")
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	failed, ok := events[0], events[1]
	if failed.Success || failed.ErrorMessage == "" {
		t.Errorf("newest event should be the failure: %+v", failed.LLMRequestEventData)
	}
	if !ok.Success || ok.Purpose != "chat" || ok.InputTokens != 12 || ok.Provider != "mock" {
		t.Errorf("unexpected success event: %+v", ok.LLMRequestEventData)
	}
	if !strings.Contains(ok.RequestBody, "<image image/png, 3 bytes>") {
		t.Errorf("request body missing image marker: %q", ok.RequestBody)
	}
}
