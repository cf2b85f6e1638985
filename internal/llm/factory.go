package llm

import (
	"fmt"
	"strings"
)

// NewProvider builds the provider named by the configuration. An empty
// name yields a nil provider: analysis is disabled and only the demo
// catalog can answer.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "mistral":
		return NewMistralProvider(config)
	case "openai":
		return NewOpenAIProvider(config)
	case "ollama":
		return NewOllamaProvider(config)
	case "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown LLM provider: %s (supported: mistral, openai, ollama)", config.Provider)
}
