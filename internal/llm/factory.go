package llm

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"homehub/internal/config"
)

// Factory creates LLM clients with consistent logic
type Factory struct {
	OpenaiAPIKey       string
	OpenaiBaseURL      string
	ImageModel         string
	OpenRouterReferrer string
	OpenRouterTitle    string
	YandexOAuthToken   string
	YandexFolderID     string
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		OpenaiAPIKey:       cfg.OpenAIAPIKey,
		OpenaiBaseURL:      cfg.OpenAIBaseURL,
		ImageModel:         cfg.ImageModel,
		OpenRouterReferrer: cfg.OpenRouterReferrer,
		OpenRouterTitle:    cfg.OpenRouterTitle,
		YandexOAuthToken:   cfg.YandexOAuthToken,
		YandexFolderID:     cfg.YandexFolderID,
	}
}

func (f *Factory) CreateClient(provider, model string) (Client, error) {
	switch config.LLMProvider(strings.ToLower(provider)) {
	case config.ProviderOpenAI:
		return f.OpenAI(model), nil
	case config.ProviderYandex:
		return NewYandex(f.YandexOAuthToken, f.YandexFolderID)
	default:
		return nil, goerr.New("unknown llm provider", goerr.V("provider", provider))
	}
}

// OpenAI returns the OpenAI-compatible client, which also serves images.
func (f *Factory) OpenAI(model string) *OpenAIClient {
	return NewOpenAI(f.OpenaiAPIKey, f.OpenaiBaseURL, model, f.ImageModel, f.OpenRouterReferrer, f.OpenRouterTitle)
}
