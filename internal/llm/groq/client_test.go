package groq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codesync/internal/llm"
	"codesync/internal/models"
)

func newStubClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   DefaultModel,
		Timeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client
}

func TestGenerateContentSuccess(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var body chatRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.Model != DefaultModel || body.MaxTokens != 1000 || body.Temperature != 0.1 {
			t.Errorf("unexpected request body %+v", body)
		}
		if len(body.Messages) != 2 || body.Messages[0].Role != "system" || body.Messages[1].Role != "user" {
			t.Errorf("unexpected messages %+v", body.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3-8b-8192","choices":[{"message":{"role":"assistant","content":"  x + 1;\n"}}]}`))
	})

	resp, err := client.GenerateContent(context.Background(), &models.GenerationRequest{
		SystemPrompt: "system",
		Prompt:       "user",
		MaxTokens:    1000,
		Temperature:  0.1,
	})
	if err != nil {
		t.Fatalf("GenerateContent returned error: %v", err)
	}
	if resp.Content != "x + 1;" {
		t.Fatalf("expected trimmed content, got %q", resp.Content)
	}
	if resp.Metadata.Provider != "groq" || resp.Metadata.Model != DefaultModel {
		t.Fatalf("unexpected metadata %+v", resp.Metadata)
	}
}

func TestGenerateContentUpstreamStatus(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.GenerateContent(context.Background(), &models.GenerationRequest{Prompt: "p"})
	var perr *llm.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if perr.Status != http.StatusInternalServerError || perr.Code != llm.ErrCodeUpstreamStatus {
		t.Fatalf("unexpected provider error %+v", perr)
	}
	if got := llm.ErrorText(err); got != "Error: 500" {
		t.Fatalf("expected Error: 500, got %q", got)
	}
}

func TestGenerateContentRateLimit(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	_, err := client.GenerateContent(context.Background(), &models.GenerationRequest{Prompt: "p"})
	var perr *llm.ProviderError
	if !errors.As(err, &perr) || perr.Code != llm.ErrCodeRateLimit {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestGenerateContentNoChoices(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	if _, err := client.GenerateContent(context.Background(), &models.GenerationRequest{Prompt: "p"}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestGenerateContentUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, _ := NewClient(&Config{APIKey: "k", BaseURL: url, Model: DefaultModel, Timeout: time.Second})
	_, err := client.GenerateContent(context.Background(), &models.GenerationRequest{Prompt: "p"})
	var perr *llm.ProviderError
	if !errors.As(err, &perr) || perr.Status != 0 {
		t.Fatalf("expected transport provider error, got %v", err)
	}
	if got := llm.ErrorText(err); got == "" || got == "Error: 0" {
		t.Fatalf("unexpected error text %q", got)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(&Config{}); err == nil {
		t.Fatal("expected error without API key")
	}
	if (&Client{}).GetProviderName() != "groq" {
		t.Fatal("expected provider name groq")
	}
}

func TestNewConfig(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "key")
	t.Setenv("GROQ_MODEL", "")
	t.Setenv("GROQ_BASE_URL", "")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.APIKey != "key" || cfg.Model != DefaultModel || cfg.BaseURL != DefaultBaseURL || cfg.Timeout != 5*time.Second {
		t.Fatalf("unexpected config values: %+v", cfg)
	}

	t.Setenv("UPSTREAM_TIMEOUT", "soon")
	if _, err := NewConfig(); err == nil {
		t.Fatal("expected error for bad timeout")
	}
}

func TestNewConfigMissingKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	if _, err := NewConfig(); err == nil {
		t.Fatal("expected error when API key missing")
	}
}

func TestRegisteredWithRegistry(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "key")
	provider, err := llm.NewProvider("groq")
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}
	if provider.GetProviderName() != "groq" {
		t.Fatalf("unexpected provider %s", provider.GetProviderName())
	}
}
