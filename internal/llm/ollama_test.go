package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestOllama(t *testing.T, baseURL string) *OllamaProvider {
	t.Helper()
	provider, err := NewOllamaProvider(Config{
		BaseURL: baseURL,
		Model:   "llama3.1",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	return provider
}

func TestOllamaProvider_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}

		var apiReq ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&apiReq); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		if apiReq.Stream {
			t.Error("Expected stream to be false")
		}
		if apiReq.System == "" {
			t.Error("Expected a system prompt")
		}

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:           "llama3.1",
			Response:        `{"term": "cloud"}`,
			Done:            true,
			PromptEvalCount: 10,
			EvalCount:       20,
		})
	}))
	defer server.Close()

	provider := newTestOllama(t, server.URL)

	resp, err := provider.Complete(context.Background(), Request{Prompt: "Analyze the term cloud"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Text != `{"term": "cloud"}` {
		t.Errorf("Unexpected text: %s", resp.Text)
	}
	if resp.TokensUsed != 30 {
		t.Errorf("Unexpected token usage: %d", resp.TokensUsed)
	}
}

func TestOllamaProvider_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "model not found"}`))
	}))
	defer server.Close()

	provider := newTestOllama(t, server.URL)

	_, err := provider.Complete(context.Background(), Request{Prompt: "test"})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "model not found") {
		t.Errorf("Expected error message to contain 'model not found', got %v", err)
	}
}

func TestOllamaProvider_Complete_NoModel(t *testing.T) {
	provider, err := NewOllamaProvider(Config{BaseURL: "http://localhost:11434"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), Request{Prompt: "test"})
	if err == nil {
		t.Fatal("Expected error for missing model, got nil")
	}
	if !strings.Contains(err.Error(), "model must be specified") {
		t.Errorf("Expected 'model must be specified' error, got %v", err)
	}
}

func TestOllamaProvider_Complete_TokenEstimate(t *testing.T) {
	// Some models report zero token counts; the provider estimates instead
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:    "llama3.1",
			Response: "12345678",
			Done:     true,
		})
	}))
	defer server.Close()

	provider := newTestOllama(t, server.URL)

	resp, err := provider.Complete(context.Background(), Request{Prompt: "12345678"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	// (8 + 8) / 4 = 4
	if resp.TokensUsed != 4 {
		t.Errorf("Expected estimated token usage 4, got %d", resp.TokensUsed)
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("Expected path /api/tags, got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"models": []}`))
	}))
	defer server.Close()

	provider := newTestOllama(t, server.URL)

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	server.Close()

	if provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be false when server is down")
	}
}
