package models

import "time"

type CompleteResponse struct {
	Completion string `json:"completion"`
	Success    bool   `json:"success"`
}

type ExplainResponse struct {
	Explanation string `json:"explanation"`
	Success     bool   `json:"success"`
}

// FailureResponse is the body of every unsuccessful request/response call.
type FailureResponse struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ProjectResponse struct {
	Project *Project `json:"project"`
	Success bool     `json:"success"`
}

type FileResponse struct {
	FilePath string `json:"file_path"`
	Content  string `json:"content"`
	Success  bool   `json:"success"`
}

// uniform error payload, also used as the "error" websocket frame
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return e.Code + ": " + e.Message
}

type GenerationResponse struct {
	Content  string
	Metadata GenerationMetadata
}

type GenerationMetadata struct {
	ProcessingTime time.Duration
	Provider       string
	Model          string
}
