package gemini

import (
	"context"
	"strings"
	"time"

	"google.golang.org/genai"

	"codesync/internal/llm"
	"codesync/internal/models"
)

const providerName = "gemini"

// Client is the Gemini API backend for the text-transform service.
type Client struct {
	client *genai.Client
	config *Config
}

func NewClient(config *Config) (*Client, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}
	return &Client{client: client, config: config}, nil
}

func (c *Client) GenerateContent(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResponse, error) {
	startTime := time.Now()

	result, err := c.client.Models.GenerateContent(ctx, c.config.Model, genai.Text(joinPrompt(req)), generationConfig(req))
	if err != nil {
		code := llm.ErrCodeServiceDown
		if isRateLimitError(err) {
			code = llm.ErrCodeRateLimit
		}
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     code,
			Message:  "Failed to generate content",
			Err:      err,
		}
	}
	if result == nil {
		return nil, &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeInvalidInput, Message: "No response generated"}
	}

	text, err := result.Text()
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Failed to extract response text",
			Err:      err,
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeInvalidInput, Message: "Empty response generated"}
	}

	return &models.GenerationResponse{
		Content: strings.TrimSpace(text),
		Metadata: models.GenerationMetadata{
			ProcessingTime: time.Since(startTime),
			Provider:       providerName,
			Model:          c.config.Model,
		},
	}, nil
}

func (c *Client) GetProviderName() string {
	return providerName
}

// joinPrompt folds the system instruction into the user turn.
func joinPrompt(req *models.GenerationRequest) string {
	if req.SystemPrompt == "" {
		return req.Prompt
	}
	return req.SystemPrompt + "\n\n" + req.Prompt
}

// generationConfig carries the prompt template's sampling settings.
func generationConfig(req *models.GenerationRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr(req.Temperature)}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = genai.Ptr(int64(req.MaxTokens))
	}
	return cfg
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "quota")
}
