package models

import "encoding/json"

type EventType string

// client -> server
const (
	EventJoinRoom   EventType = "join_room"
	EventLeaveRoom  EventType = "leave_room"
	EventCodeChange EventType = "code_change"
	EventCursorMove EventType = "cursor_move"
	EventCreateFile EventType = "create_file"
	EventDeleteFile EventType = "delete_file"
	EventSelectFile EventType = "select_file"
)

// server -> client
const (
	EventConnected        EventType = "connected"
	EventRoomState        EventType = "room_state"
	EventUserJoined       EventType = "user_joined"
	EventUserLeft         EventType = "user_left"
	EventUserDisconnected EventType = "user_disconnected"
	EventCodeUpdate       EventType = "code_update"
	EventCursorUpdate     EventType = "cursor_update"
	EventFileCreated      EventType = "file_created"
	EventFileDeleted      EventType = "file_deleted"
	EventFileSelected     EventType = "file_selected"
	EventError            EventType = "error"
)

const ConnectedStatus = "Connected to CodeSync"

// CursorPosition is a zero-based line/column pair.
type CursorPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (c CursorPosition) Valid() bool { return c.Line >= 0 && c.Column >= 0 }

// WSFrame is the envelope written to clients.
type WSFrame struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data"`
}

// InboundFrame is the envelope read from clients; Data is decoded per Type.
type InboundFrame struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

/*** Server payloads ***/

type ConnectedPayload struct {
	Status string `json:"status"`
}

type UserInfo struct {
	UserID         string         `json:"user_id"`
	Username       string         `json:"username"`
	CursorPosition CursorPosition `json:"cursor_position"`
}

// RoomState is the catch-up snapshot sent to a joining session.
type RoomState struct {
	Files       map[string]string `json:"files"`
	CurrentFile *string           `json:"current_file"`
	Users       []UserInfo        `json:"users"`
}

type UserJoinedPayload struct {
	Username string `json:"username"`
	UserID   string `json:"user_id"`
}

type UserLeftPayload struct {
	Username string `json:"username"`
	UserID   string `json:"user_id"`
}

type UserDisconnectedPayload struct {
	UserID string `json:"user_id"`
}

type CodeUpdatePayload struct {
	FilePath       string         `json:"file_path"`
	Content        string         `json:"content"`
	UserID         string         `json:"user_id"`
	CursorPosition CursorPosition `json:"cursor_position"`
}

type CursorUpdatePayload struct {
	UserID         string         `json:"user_id"`
	Username       string         `json:"username"`
	CursorPosition CursorPosition `json:"cursor_position"`
}

type FileCreatedPayload struct {
	FilePath string `json:"file_path"`
	Content  string `json:"content"`
}

type FileDeletedPayload struct {
	FilePath string `json:"file_path"`
}

type FileSelectedPayload struct {
	FilePath string `json:"file_path"`
	Content  string `json:"content"`
}
