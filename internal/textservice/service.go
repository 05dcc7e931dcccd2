package textservice

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"codesync/internal/llm"
	"codesync/internal/metrics"
	"codesync/internal/models"
	"codesync/internal/prompts"
)

// Service turns code into a completion or an explanation with a single
// upstream call. Failures are returned to the caller and never retried.
type Service struct {
	provider llm.Provider
	prompts  prompts.PromptProvider
	log      *zap.Logger
}

func New(provider llm.Provider, pm prompts.PromptProvider, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{provider: provider, prompts: pm, log: log}
}

func (s *Service) Provider() llm.Provider { return s.provider }
func (s *Service) Prompts() prompts.PromptProvider { return s.prompts }

// Complete asks for a continuation of code in the given language.
func (s *Service) Complete(ctx context.Context, code, language string) (string, error) {
	if language == "" {
		language = models.DefaultLanguage
	}
	return s.generate(ctx, prompts.ModeComplete, prompts.Data{Code: code, Language: language})
}

// Explain asks for a plain-language explanation of code.
func (s *Service) Explain(ctx context.Context, code string) (string, error) {
	return s.generate(ctx, prompts.ModeExplain, prompts.Data{Code: code})
}

func (s *Service) generate(ctx context.Context, mode string, data prompts.Data) (string, error) {
	prompt, err := s.prompts.BuildPrompt(mode, data)
	if err != nil {
		metrics.UpstreamCalls.WithLabelValues(mode, metrics.Outcome(err)).Inc()
		return "", err
	}

	requestID := uuid.NewString()
	resp, err := s.provider.GenerateContent(ctx, &models.GenerationRequest{
		RequestID:    requestID,
		SystemPrompt: prompt.System,
		Prompt:       prompt.User,
		MaxTokens:    prompt.MaxTokens,
		Temperature:  prompt.Temperature,
	})
	metrics.UpstreamCalls.WithLabelValues(mode, metrics.Outcome(err)).Inc()
	if err != nil {
		s.log.Warn("text transform failed",
			zap.String("mode", mode),
			zap.String("request_id", requestID),
			zap.String("provider", s.provider.GetProviderName()),
			zap.Error(err))
		return "", err
	}

	s.log.Debug("text transform completed",
		zap.String("mode", mode),
		zap.String("request_id", requestID),
		zap.String("model", resp.Metadata.Model),
		zap.Duration("took", resp.Metadata.ProcessingTime))
	return strings.TrimSpace(resp.Content), nil
}
