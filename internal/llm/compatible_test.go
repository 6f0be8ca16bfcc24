package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompatibleProviders_Defaults(t *testing.T) {
	grok, err := NewGrokProvider(GrokConfig{APIKey: "xai-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if grok.ModelID() != "grok-3-latest" {
		t.Errorf("grok model = %q", grok.ModelID())
	}

	or, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "meta-llama/llama-3.1-8b-instruct"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if or.ModelID() != "meta-llama/llama-3.1-8b-instruct" {
		t.Errorf("openrouter model = %q, want the configured model untouched", or.ModelID())
	}
}

func TestCompatibleProviders_RequireKey(t *testing.T) {
	if _, err := NewGrokProvider(GrokConfig{}); err == nil {
		t.Error("grok: expected error for missing key")
	}
	if _, err := NewOpenRouterProvider(OpenRouterConfig{}); err == nil {
		t.Error("openrouter: expected error for missing key")
	}
}

func TestCompatibleProvider_TalksOpenAIWireFormat(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1", "object": "chat.completion", "model": "grok-3-latest",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Photosynthesis makes glucose."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 20, "completion_tokens": 5, "total_tokens": 25}
		}`))
	}))
	defer srv.Close()

	p, err := NewGrokProvider(GrokConfig{APIKey: "xai-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := p.Generate(context.Background(), Request{
		System:   "You are a tutor.",
		Messages: []Message{{Role: RoleUser, Content: "What does photosynthesis make?"}},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if auth != "Bearer xai-test" {
		t.Errorf("Authorization = %q", auth)
	}
	if got.Model != "grok-3-latest" || len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Errorf("unexpected request: %+v", got)
	}
	if resp.Text() != "Photosynthesis makes glucose." {
		t.Errorf("text = %q", resp.Text())
	}
	if resp.Usage.TotalTokens != 25 || resp.StopReason != "end" {
		t.Errorf("unexpected usage or stop reason: %+v %q", resp.Usage, resp.StopReason)
	}
}
