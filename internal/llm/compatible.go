package llm

import "fmt"

// compatibleAPI is a hosted chat API that speaks the OpenAI wire format.
type compatibleAPI struct {
	name    string
	baseURL string
	model   string
}

var (
	grokAPI       = compatibleAPI{name: "grok", baseURL: "https://api.x.ai/v1", model: "grok-3-latest"}
	openRouterAPI = compatibleAPI{name: "openrouter", baseURL: "https://openrouter.ai/api/v1", model: "google/gemini-2.0-flash-exp"}
)

func (api compatibleAPI) provider(key, model, baseURL string) (*OpenAIProvider, error) {
	if key == "" {
		return nil, fmt.Errorf("%s API key is required", api.name)
	}
	if model == "" {
		model = api.model
	}
	if baseURL == "" {
		baseURL = api.baseURL
	}
	return newOpenAIProviderRaw(OpenAIConfig{APIKey: key, Model: model, BaseURL: baseURL})
}

// NewGrokProvider creates a provider for xAI's Grok models.
func NewGrokProvider(cfg GrokConfig) (*OpenAIProvider, error) {
	return grokAPI.provider(cfg.APIKey, cfg.Model, cfg.BaseURL)
}

// NewOpenRouterProvider creates a provider for models routed through
// OpenRouter.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	return openRouterAPI.provider(cfg.APIKey, cfg.Model, cfg.BaseURL)
}
