package groq

import (
	"errors"
	"os"
	"time"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1/chat/completions"
	DefaultModel   = "llama3-8b-8192"
	DefaultTimeout = 30 * time.Second
)

// holds Groq-specific configuration
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

func NewConfig() (*Config, error) {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GROQ_API_KEY environment variable is required")
	}

	baseURL := os.Getenv("GROQ_BASE_URL")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := os.Getenv("GROQ_MODEL")
	if model == "" {
		model = DefaultModel
	}

	timeout := DefaultTimeout
	if raw := os.Getenv("UPSTREAM_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errors.New("UPSTREAM_TIMEOUT must be a duration such as 30s")
		}
		timeout = d
	}

	return &Config{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   model,
		Timeout: timeout,
	}, nil
}
