package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	// EnvGogoMode is the environment variable name for mode selection.
	EnvGogoMode = "GOGO_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// Providers accepted by NewLLMClient.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderMock   = "mock"
)

// Options selects and configures a backend.
type Options struct {
	Provider     string
	BaseURL      string
	APIKey       string
	Model        string
	GeminiAPIKey string
	Timeout      time.Duration
}

// NewLLMClient creates an LLM client for opts.Provider. GOGO_MODE=MOCK
// forces the mock client regardless of the provider.
func NewLLMClient(ctx context.Context, opts Options, logger *zap.Logger) (LLMClient, error) {
	if os.Getenv(EnvGogoMode) == ModeMock || opts.Provider == ProviderMock {
		logger.Info("using mock LLM client")
		return NewMockClient(), nil
	}

	switch opts.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, opts.GeminiAPIKey, opts.Model)
	case "", ProviderOpenAI:
		return NewClient(opts.BaseURL, opts.APIKey, opts.Model, opts.Timeout), nil
	}
	return nil, fmt.Errorf("unknown LLM provider %q", opts.Provider)
}
