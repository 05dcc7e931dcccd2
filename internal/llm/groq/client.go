package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"codesync/internal/llm"
	"codesync/internal/models"
)

const providerName = "groq"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Client calls an OpenAI-compatible chat completions endpoint. One request
// per call; failures are never retried.
type Client struct {
	http   *http.Client
	config *Config
}

func NewClient(config *Config) (*Client, error) {
	if config == nil || config.APIKey == "" {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeAPIKey,
			Message:  "missing API key",
		}
	}
	return &Client{
		http:   &http.Client{Timeout: config.Timeout},
		config: config,
	}, nil
}

func (c *Client) GenerateContent(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResponse, error) {
	startTime := time.Now()

	body := chatRequest{
		Model:       c.config.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.SystemPrompt != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.Prompt})

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeInvalidInput, Message: "failed to encode request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeInvalidInput, Message: "failed to build request", Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if req.RequestID != "" {
		httpReq.Header.Set("X-Request-ID", req.RequestID)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		code := llm.ErrCodeServiceDown
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			code = llm.ErrCodeTimeout
		}
		return nil, &llm.ProviderError{Provider: providerName, Code: code, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     statusCode(resp.StatusCode),
			Status:   resp.StatusCode,
			Message:  fmt.Sprintf("upstream returned %d", resp.StatusCode),
		}
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeInvalidInput, Message: "failed to decode response", Err: err}
	}
	if len(decoded.Choices) == 0 {
		return nil, &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeInvalidInput, Message: "no choices returned"}
	}

	model := decoded.Model
	if model == "" {
		model = c.config.Model
	}
	return &models.GenerationResponse{
		Content: strings.TrimSpace(decoded.Choices[0].Message.Content),
		Metadata: models.GenerationMetadata{
			ProcessingTime: time.Since(startTime),
			Provider:       providerName,
			Model:          model,
		},
	}, nil
}

func (c *Client) GetProviderName() string {
	return providerName
}

func statusCode(status int) string {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return llm.ErrCodeAPIKey
	case http.StatusTooManyRequests:
		return llm.ErrCodeRateLimit
	default:
		return llm.ErrCodeUpstreamStatus
	}
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
