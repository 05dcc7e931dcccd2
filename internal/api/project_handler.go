package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"codesync/internal/middleware"
	"codesync/internal/models"
	"codesync/internal/session"
	"codesync/internal/store"
	"codesync/internal/utils"
)

// ProjectHandler exposes the document store over HTTP. Live room edits are
// never written through automatically; saving is always an explicit request.
type ProjectHandler struct {
	hub         *session.Hub
	persistence *store.Persistence
}

func NewProjectHandler(hub *session.Hub, persistence *store.Persistence) *ProjectHandler {
	return &ProjectHandler{hub: hub, persistence: persistence}
}

// SaveProject snapshots a live room into project {id}.
func (h *ProjectHandler) SaveProject(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SaveProjectRequest](r)
	projectID := chi.URLParam(r, "id")

	state, ok := h.hub.Snapshot(req.RoomID)
	if !ok {
		utils.JSON(w, http.StatusNotFound, models.FailureResponse{Error: "room not found", Success: false})
		return
	}

	saved := h.persistence.Archive(r.Context(), models.ProjectFromState(projectID, state))
	utils.JSON(w, http.StatusOK, models.SuccessResponse{Success: saved})
}

func (h *ProjectHandler) LoadProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.persistence.LoadProject(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		utils.JSON(w, http.StatusNotFound, models.FailureResponse{Error: "project not found", Success: false})
		return
	}
	utils.JSON(w, http.StatusOK, models.ProjectResponse{Project: project, Success: true})
}

func (h *ProjectHandler) SaveFile(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SaveFileRequest](r)

	saved := h.persistence.SaveFile(r.Context(), chi.URLParam(r, "id"), req.FilePath, req.Content)
	utils.JSON(w, http.StatusOK, models.SuccessResponse{Success: saved})
}

// LoadFile returns one stored file named by the path query parameter.
func (h *ProjectHandler) LoadFile(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		utils.JSON(w, http.StatusBadRequest, models.FailureResponse{Error: "missing_file_path: path is required", Success: false})
		return
	}

	content, ok := h.persistence.LoadFile(r.Context(), chi.URLParam(r, "id"), path)
	if !ok {
		utils.JSON(w, http.StatusNotFound, models.FailureResponse{Error: "file not found", Success: false})
		return
	}
	utils.JSON(w, http.StatusOK, models.FileResponse{FilePath: path, Content: content, Success: true})
}
