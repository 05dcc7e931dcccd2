package gemini

import (
	"errors"
	"os"
)

const DefaultModel = "gemini-2.5-flash"

type Config struct {
	APIKey string
	Model  string
}

func NewConfig() (*Config, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable is required")
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = DefaultModel
	}

	return &Config{APIKey: apiKey, Model: model}, nil
}
