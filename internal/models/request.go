package models

import (
	"strings"

	"codesync/internal/utils"
)

const DefaultLanguage = "javascript"

type CompleteRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// implements the Validator interface
func (r *CompleteRequest) Validate() error {
	r.Language = utils.NormalizeLanguage(r.Language)
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	return nil
}

type ExplainRequest struct {
	Code string `json:"code"`
}

func (r *ExplainRequest) Validate() error { return nil }

type SaveProjectRequest struct {
	RoomID string `json:"room_id"`
}

func (r *SaveProjectRequest) Validate() error {
	if strings.TrimSpace(r.RoomID) == "" {
		return &ErrorResponse{Code: "missing_room_id", Message: "room_id is required"}
	}
	return nil
}

type SaveFileRequest struct {
	FilePath string `json:"file_path"`
	Content  string `json:"content"`
}

func (r *SaveFileRequest) Validate() error {
	if r.FilePath == "" {
		return &ErrorResponse{Code: "missing_file_path", Message: "file_path is required"}
	}
	return nil
}

// GenerationRequest is what the text-transform service hands to an LLM provider.
type GenerationRequest struct {
	RequestID    string
	SystemPrompt string
	Prompt       string
	MaxTokens    int
	Temperature  float64
}
