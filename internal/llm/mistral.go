package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const mistralDefaultBase = "https://api.mistral.ai"

// MistralProvider is the default hosted provider. It speaks the chat
// completions dialect of Mistral's "La Plateforme" API.
type MistralProvider struct {
	base   string
	key    string
	client *http.Client
	cfg    Config
}

// NewMistralProvider builds the provider. The API key is mandatory; it
// arrives through Config and is never read from disk here.
func NewMistralProvider(cfg Config) (*MistralProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Mistral API key is required")
	}

	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = mistralDefaultBase
	}

	timeout := 60 * time.Second
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}

	return &MistralProvider{
		base:   base,
		key:    cfg.APIKey,
		client: &http.Client{Timeout: timeout},
		cfg:    cfg,
	}, nil
}

func (p *MistralProvider) Name() string { return "mistral" }

// IsAvailable lists models as a lightweight credential probe.
func (p *MistralProvider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.base+"/v1/models", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+p.key)

	resp, err := p.client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Mistral API check failed: %v\n", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Mistral API check failed: HTTP %d\n", resp.StatusCode)
		return false
	}
	return true
}

// Complete sends one prompt and hands the model text back untouched.
func (p *MistralProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = p.cfg.Model
	}
	if model == "" {
		model = "mistral-medium-latest"
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.cfg.MaxTokens
	}
	system := req.System
	if system == "" {
		system = SystemPrompt
	}

	out, err := p.chat(ctx, mistralRequest{
		Model: model,
		Messages: []mistralMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2, // low temperature keeps the JSON structure stable
	})
	if err != nil {
		return nil, fmt.Errorf("Mistral API error: %w", err)
	}

	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("no choices in Mistral response")
	}

	return &Response{
		Text:       out.Choices[0].Message.Content,
		Model:      out.Model,
		TokensUsed: out.Usage.TotalTokens,
	}, nil
}

// Wire format for POST /v1/chat/completions.
type mistralRequest struct {
	Model       string           `json:"model"`
	Messages    []mistralMessage `json:"messages"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
	Temperature float64          `json:"temperature,omitempty"`
}

type mistralMessage struct {
	Role    string `json:"role"` // system, user or assistant
	Content string `json:"content"`
}

type mistralChoice struct {
	Index        int            `json:"index"`
	Message      mistralMessage `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

type mistralUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type mistralResponse struct {
	ID      string          `json:"id"`
	Object  string          `json:"object"`
	Model   string          `json:"model"`
	Choices []mistralChoice `json:"choices"`
	Usage   mistralUsage    `json:"usage"`
}

func (p *MistralProvider) chat(ctx context.Context, apiReq mistralRequest) (*mistralResponse, error) {
	payload, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.base+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.key)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != http.StatusOK {
		return nil, p.chatError(httpResp)
	}

	var out mistralResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &out, nil
}

// chatError prefers the structured error body the API sends, falling
// back to the raw bytes.
func (p *MistralProvider) chatError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, p.base)
	}

	var apiErr struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		return fmt.Errorf("API error (%d): %s - %s", resp.StatusCode, apiErr.Type, apiErr.Message)
	}
	return fmt.Errorf("API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
