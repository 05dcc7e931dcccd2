package api

import (
	"net/http"

	"codesync/internal/llm"
	"codesync/internal/prompts"
	"codesync/internal/store"
	"codesync/internal/utils"
)

const (
	serviceName    = "codesync"
	LivenessBanner = "CodeSync Backend Server Running!"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"` // "ready" | "not_ready"
	Service string                    `json:"service"`
	Checks  map[string]ReadinessCheck `json:"checks"`
}

type HealthHandler struct {
	provider      llm.Provider
	promptManager prompts.PromptProvider
	persistence   *store.Persistence
}

func NewHealthHandler(provider llm.Provider, promptManager prompts.PromptProvider, persistence *store.Persistence) *HealthHandler {
	return &HealthHandler{
		provider:      provider,
		promptManager: promptManager,
		persistence:   persistence,
	}
}

func (h *HealthHandler) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(LivenessBanner))
}

func (h *HealthHandler) HealthzHandler(w http.ResponseWriter, _ *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
	})
}

func (h *HealthHandler) ReadyzHandler(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]ReadinessCheck)
	ready := true

	switch p := h.provider.(type) {
	case nil:
		checks["provider"] = ReadinessCheck{Status: "failed", Message: "AI provider not initialized"}
		ready = false
	case *llm.Disabled:
		checks["provider"] = ReadinessCheck{Status: "failed", Message: "AI provider " + p.Name + " not configured"}
		ready = false
	default:
		checks["provider"] = ReadinessCheck{Status: "ok"}
	}

	if h.promptManager == nil || len(h.promptManager.GetTemplates()) == 0 {
		checks["prompt_manager"] = ReadinessCheck{Status: "failed", Message: "No prompt templates loaded"}
		ready = false
	} else {
		checks["prompt_manager"] = ReadinessCheck{Status: "ok"}
	}

	if h.persistence == nil {
		checks["document_store"] = ReadinessCheck{Status: "failed", Message: "Document store not initialized"}
		ready = false
	} else if err := h.persistence.Ready(r.Context()); err != nil {
		checks["document_store"] = ReadinessCheck{Status: "failed", Message: err.Error()}
		ready = false
	} else {
		checks["document_store"] = ReadinessCheck{Status: "ok"}
	}

	resp := ReadinessResponse{Service: serviceName, Checks: checks}
	if ready {
		resp.Status = "ready"
		utils.JSON(w, http.StatusOK, resp)
		return
	}
	resp.Status = "not_ready"
	utils.JSON(w, http.StatusServiceUnavailable, resp)
}
