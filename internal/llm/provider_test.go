package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"codesync/internal/models"
)

type testProvider struct{}

func (testProvider) GenerateContent(context.Context, *models.GenerationRequest) (*models.GenerationResponse, error) {
	return &models.GenerationResponse{Content: "ok"}, nil
}
func (testProvider) GetProviderName() string { return "test" }

func TestProviderErrorError(t *testing.T) {
	err := &ProviderError{Provider: "groq", Message: "failed"}
	if err.Error() != "groq error: failed" {
		t.Fatalf("unexpected error message: %s", err.Error())
	}

	cause := errors.New("detail")
	wrapped := &ProviderError{Provider: "groq", Message: "failed", Err: cause}
	if got := wrapped.Error(); got != "groq error: failed (detail)" {
		t.Fatalf("unexpected wrapped error message: %s", got)
	}
	if !errors.Is(wrapped, cause) {
		t.Fatal("expected Unwrap to expose the cause")
	}
}

func TestErrorText(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&ProviderError{Provider: "groq", Status: 500, Message: "bad status"}, "Error: 500"},
		{fmt.Errorf("call: %w", &ProviderError{Provider: "groq", Status: 429}), "Error: 429"},
		{&ProviderError{Provider: "groq", Message: "request failed", Err: errors.New("connection refused")}, "Error: connection refused"},
		{&ProviderError{Provider: "groq", Message: "empty response"}, "Error: empty response"},
		{errors.New("boom"), "Error: boom"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := ErrorText(tc.err); got != tc.want {
			t.Fatalf("ErrorText(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestRegisterAndNewProvider(t *testing.T) {
	RegisterProvider("test_provider", func() (Provider, error) {
		return testProvider{}, nil
	})
	defer delete(providers, "test_provider")

	provider, err := NewProvider("test_provider")
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}
	if name := provider.GetProviderName(); name != "test" {
		t.Fatalf("expected provider name test, got %s", name)
	}

	if _, err := NewProvider("missing"); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestDisabledProviderFails(t *testing.T) {
	d := &Disabled{Name: "groq", Cause: errors.New("GROQ_API_KEY environment variable is required")}
	if d.GetProviderName() != "groq" {
		t.Fatalf("unexpected name %s", d.GetProviderName())
	}
	_, err := d.GenerateContent(context.Background(), &models.GenerationRequest{})
	var perr *ProviderError
	if !errors.As(err, &perr) || perr.Code != ErrCodeServiceDown {
		t.Fatalf("expected service_unavailable provider error, got %v", err)
	}
}
