package llm

import (
	"context"
	"errors"
	"fmt"

	"codesync/internal/models"
)

// Provider is an upstream text-generation backend.
type Provider interface {
	GenerateContent(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResponse, error)
	GetProviderName() string
}

// ProviderError is an error from an LLM provider. Status carries the upstream
// HTTP status when the call reached the provider but was refused.
type ProviderError struct {
	Provider string
	Code     string
	Status   int
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }

const (
	ErrCodeAPIKey         = "invalid_api_key"
	ErrCodeRateLimit      = "rate_limit_exceeded"
	ErrCodeServiceDown    = "service_unavailable"
	ErrCodeInvalidInput   = "invalid_input"
	ErrCodeTimeout        = "timeout"
	ErrCodeUpstreamStatus = "upstream_status"
)

// ErrorText renders a failed call the way clients see it: "Error: <status>"
// when the upstream answered with a non-success status, "Error: <reason>"
// otherwise.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	var perr *ProviderError
	if errors.As(err, &perr) {
		if perr.Status != 0 {
			return fmt.Sprintf("Error: %d", perr.Status)
		}
		if perr.Err != nil {
			return "Error: " + perr.Err.Error()
		}
		return "Error: " + perr.Message
	}
	return "Error: " + err.Error()
}

// Disabled is installed when the configured provider cannot be built. Every
// call fails with the construction error.
type Disabled struct {
	Name  string
	Cause error
}

func (d *Disabled) GenerateContent(context.Context, *models.GenerationRequest) (*models.GenerationResponse, error) {
	return nil, &ProviderError{
		Provider: d.Name,
		Code:     ErrCodeServiceDown,
		Message:  "provider not configured",
		Err:      d.Cause,
	}
}

func (d *Disabled) GetProviderName() string { return d.Name }
