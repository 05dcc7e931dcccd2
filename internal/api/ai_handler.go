package api

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"codesync/internal/llm"
	"codesync/internal/middleware"
	"codesync/internal/models"
	"codesync/internal/utils"
)

type TextTransformer interface {
	Complete(ctx context.Context, code, language string) (string, error)
	Explain(ctx context.Context, code string) (string, error)
}

// AIHandler serves the completion and explanation endpoints.
type AIHandler struct {
	svc    TextTransformer
	logger *zap.Logger
}

func NewAIHandler(svc TextTransformer, logger *zap.Logger) *AIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIHandler{svc: svc, logger: logger}
}

func (h *AIHandler) CompleteHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CompleteRequest](r)

	completion, err := h.svc.Complete(r.Context(), req.Code, req.Language)
	if err != nil {
		h.fail(w, "complete", err)
		return
	}
	utils.JSON(w, http.StatusOK, models.CompleteResponse{Completion: completion, Success: true})
}

func (h *AIHandler) ExplainHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ExplainRequest](r)

	explanation, err := h.svc.Explain(r.Context(), req.Code)
	if err != nil {
		h.fail(w, "explain", err)
		return
	}
	utils.JSON(w, http.StatusOK, models.ExplainResponse{Explanation: explanation, Success: true})
}

func (h *AIHandler) fail(w http.ResponseWriter, mode string, err error) {
	h.logger.Error("AI provider error", zap.String("mode", mode), zap.Error(err))
	utils.JSON(w, http.StatusInternalServerError, models.FailureResponse{
		Error:   llm.ErrorText(err),
		Success: false,
	})
}
