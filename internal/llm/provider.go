package llm

import (
	"context"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
)

// Provider abstracts one language-model backend. Implementations wrap a
// hosted API (Mistral, OpenAI) or a local daemon (Ollama) behind the
// same three calls.
type Provider interface {
	// Name identifies the backend ("mistral", "openai", "ollama").
	Name() string

	// Complete sends one prompt and returns the model's raw output.
	// No normalization happens here; parsing is the caller's job.
	Complete(ctx context.Context, req Request) (*Response, error)

	// IsAvailable reports whether the backend is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// Request is the input for a single completion call.
type Request struct {
	Prompt    string // user message, built by the prompt templates
	System    string // system instruction; empty falls back to SystemPrompt
	Model     string // per-call model override
	MaxTokens int    // response length cap
}

// Response carries the model output. Text is the completion byte for
// byte, untouched.
type Response struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config selects and tunes a provider. The API key arrives from the
// environment; nothing in here is ever written back to a config file.
type Config struct {
	Provider   string // "mistral", "openai", "ollama" or empty
	Model      string
	APIKey     string
	BaseURL    string // custom endpoint for tests, proxies and Ollama
	Timeout    int    // seconds
	MaxTokens  int
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig targets the hosted Mistral backend.
func DefaultConfig() Config {
	return Config{
		Provider:  "mistral",
		Model:     "mistral-medium-latest",
		Timeout:   60,
		MaxTokens: 4000,
	}
}

// ConfigFromModel maps the YAML-level LLM settings onto a provider Config.
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:   mc.Provider,
		Model:      mc.Model,
		APIKey:     mc.APIKey,
		BaseURL:    mc.BaseURL,
		Timeout:    mc.Timeout,
		MaxTokens:  mc.MaxTokens,
		HTTPProxy:  mc.HTTPProxy,
		HTTPSProxy: mc.HTTPSProxy,
		NoProxy:    mc.NoProxy,
	}
}
