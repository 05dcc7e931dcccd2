package models

import "encoding/json"

// ClientMessage is one decoded and validated client action.
type ClientMessage interface {
	Event() EventType
	Validate() error
}

// JoinRoomRequest carries a client-chosen display name. Any string,
// including "", is accepted.
type JoinRoomRequest struct {
	RoomID   string `json:"room_id"`
	Username string `json:"username"`
}

func (r *JoinRoomRequest) Event() EventType { return EventJoinRoom }

func (r *JoinRoomRequest) Validate() error {
	if r.RoomID == "" {
		return &ErrorResponse{Code: "missing_room_id", Message: "room_id is required"}
	}
	return nil
}

type LeaveRoomRequest struct {
	RoomID string `json:"room_id"`
}

func (r *LeaveRoomRequest) Event() EventType { return EventLeaveRoom }

func (r *LeaveRoomRequest) Validate() error {
	if r.RoomID == "" {
		return &ErrorResponse{Code: "missing_room_id", Message: "room_id is required"}
	}
	return nil
}

type CodeChangeRequest struct {
	RoomID         string          `json:"room_id"`
	FilePath       string          `json:"file_path"`
	Content        *string         `json:"content"`
	CursorPosition *CursorPosition `json:"cursor_position,omitempty"`
}

func (r *CodeChangeRequest) Event() EventType { return EventCodeChange }

func (r *CodeChangeRequest) Validate() error {
	if r.RoomID == "" {
		return &ErrorResponse{Code: "missing_room_id", Message: "room_id is required"}
	}
	if r.FilePath == "" {
		return &ErrorResponse{Code: "missing_file_path", Message: "file_path is required"}
	}
	if r.Content == nil {
		return &ErrorResponse{Code: "missing_content", Message: "content is required"}
	}
	if r.CursorPosition != nil && !r.CursorPosition.Valid() {
		return &ErrorResponse{Code: "invalid_cursor", Message: "cursor_position must be non-negative"}
	}
	return nil
}

// Cursor returns the reported cursor or the origin when none was sent.
func (r *CodeChangeRequest) Cursor() CursorPosition {
	if r.CursorPosition == nil {
		return CursorPosition{}
	}
	return *r.CursorPosition
}

type CursorMoveRequest struct {
	RoomID         string          `json:"room_id"`
	CursorPosition *CursorPosition `json:"cursor_position"`
}

func (r *CursorMoveRequest) Event() EventType { return EventCursorMove }

func (r *CursorMoveRequest) Validate() error {
	if r.RoomID == "" {
		return &ErrorResponse{Code: "missing_room_id", Message: "room_id is required"}
	}
	if r.CursorPosition == nil {
		return &ErrorResponse{Code: "missing_cursor", Message: "cursor_position is required"}
	}
	if !r.CursorPosition.Valid() {
		return &ErrorResponse{Code: "invalid_cursor", Message: "cursor_position must be non-negative"}
	}
	return nil
}

type CreateFileRequest struct {
	RoomID   string `json:"room_id"`
	FilePath string `json:"file_path"`
	Content  string `json:"content"`
}

func (r *CreateFileRequest) Event() EventType { return EventCreateFile }

func (r *CreateFileRequest) Validate() error {
	return validateFileTarget(r.RoomID, r.FilePath)
}

type DeleteFileRequest struct {
	RoomID   string `json:"room_id"`
	FilePath string `json:"file_path"`
}

func (r *DeleteFileRequest) Event() EventType { return EventDeleteFile }

func (r *DeleteFileRequest) Validate() error {
	return validateFileTarget(r.RoomID, r.FilePath)
}

type SelectFileRequest struct {
	RoomID   string `json:"room_id"`
	FilePath string `json:"file_path"`
}

func (r *SelectFileRequest) Event() EventType { return EventSelectFile }

func (r *SelectFileRequest) Validate() error {
	return validateFileTarget(r.RoomID, r.FilePath)
}

func validateFileTarget(roomID, filePath string) error {
	if roomID == "" {
		return &ErrorResponse{Code: "missing_room_id", Message: "room_id is required"}
	}
	if filePath == "" {
		return &ErrorResponse{Code: "missing_file_path", Message: "file_path is required"}
	}
	return nil
}

// ParseClientMessage decodes a raw websocket frame into its typed action and
// validates it. Unknown event types and malformed payloads are reported as
// *ErrorResponse.
func ParseClientMessage(raw []byte) (ClientMessage, error) {
	var frame InboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, &ErrorResponse{Code: "invalid_json", Message: "frame is not valid JSON"}
	}

	var msg ClientMessage
	switch frame.Type {
	case EventJoinRoom:
		msg = &JoinRoomRequest{}
	case EventLeaveRoom:
		msg = &LeaveRoomRequest{}
	case EventCodeChange:
		msg = &CodeChangeRequest{}
	case EventCursorMove:
		msg = &CursorMoveRequest{}
	case EventCreateFile:
		msg = &CreateFileRequest{}
	case EventDeleteFile:
		msg = &DeleteFileRequest{}
	case EventSelectFile:
		msg = &SelectFileRequest{}
	default:
		return nil, &ErrorResponse{Code: "unknown_event", Message: "unknown event type: " + string(frame.Type)}
	}

	if len(frame.Data) == 0 || string(frame.Data) == "null" {
		return nil, &ErrorResponse{Code: "missing_data", Message: "frame data is required"}
	}
	if err := json.Unmarshal(frame.Data, msg); err != nil {
		return nil, &ErrorResponse{Code: "invalid_payload", Message: "invalid " + string(frame.Type) + " payload"}
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return msg, nil
}
