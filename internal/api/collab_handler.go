package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"codesync/internal/metrics"
	"codesync/internal/models"
	"codesync/internal/session"
	"codesync/internal/utils"
)

const maxFrameBytes = 4 << 20

// CollabHandler serves the real-time relay over websockets.
type CollabHandler struct {
	hub          *session.Hub
	log          *zap.Logger
	sendBuffer   int
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

func NewCollabHandler(hub *session.Hub, log *zap.Logger, sendBuffer int, writeTimeout time.Duration) *CollabHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CollabHandler{
		hub:          hub,
		log:          log,
		sendBuffer:   sendBuffer,
		writeTimeout: writeTimeout,
		upgrader:     websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
}

// CollabWS upgrades the connection and relays frames until it closes. The
// session id is assigned here, never by the client.
func (h *CollabHandler) CollabWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	conn.SetReadLimit(maxFrameBytes)

	client := session.NewClient(uuid.NewString(), conn, h.sendBuffer, h.writeTimeout)

	// the pump must outlive the request context, which ends on hijack
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := client.WritePump(ctx); err != nil && !errors.Is(err, context.Canceled) {
			h.log.Debug("write pump stopped", zap.String("session_id", client.ID), zap.Error(err))
		}
		client.Close()
	}()

	h.hub.Connect(client)
	defer func() {
		h.hub.Disconnect(client.ID)
		client.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("websocket closed", zap.String("session_id", client.ID), zap.Error(err))
			}
			return
		}
		h.dispatch(client.ID, raw)
	}
}

// dispatch applies one inbound frame. Malformed frames are answered with an
// error frame to the sender and change nothing.
func (h *CollabHandler) dispatch(sessionID string, raw []byte) {
	msg, err := models.ParseClientMessage(raw)
	if err != nil {
		code := "invalid_frame"
		var errResp *models.ErrorResponse
		if errors.As(err, &errResp) {
			code = errResp.Code
		} else {
			errResp = &models.ErrorResponse{Code: code, Message: err.Error()}
		}
		metrics.InvalidFrames.WithLabelValues(code).Inc()
		h.log.Info("rejected client frame", zap.String("session_id", sessionID), zap.String("code", code))
		h.hub.NotifySession(sessionID, models.EventError, errResp)
		return
	}

	switch m := msg.(type) {
	case *models.JoinRoomRequest:
		h.hub.JoinRoom(sessionID, m.RoomID, m.Username)
	case *models.LeaveRoomRequest:
		h.hub.LeaveRoom(sessionID, m.RoomID)
	case *models.CodeChangeRequest:
		h.hub.UpdateFile(sessionID, m.RoomID, m.FilePath, *m.Content, m.Cursor())
	case *models.CursorMoveRequest:
		h.hub.MoveCursor(sessionID, m.RoomID, *m.CursorPosition)
	case *models.CreateFileRequest:
		h.hub.CreateFile(m.RoomID, m.FilePath, m.Content)
	case *models.DeleteFileRequest:
		h.hub.DeleteFile(m.RoomID, m.FilePath)
	case *models.SelectFileRequest:
		h.hub.SelectFile(m.RoomID, m.FilePath)
	}
}

// RoomSnapshot returns the current state of one room.
func (h *CollabHandler) RoomSnapshot(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	state, ok := h.hub.Snapshot(roomID)
	if !ok {
		utils.JSON(w, http.StatusNotFound, models.FailureResponse{Error: "room not found", Success: false})
		return
	}
	utils.JSON(w, http.StatusOK, state)
}
