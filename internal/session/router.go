package session

import (
	"go.uber.org/zap"

	"codesync/internal/metrics"
	"codesync/internal/models"
)

// Router is the only path by which room state changes reach clients.
// Delivery is fire-and-forget: each recipient has its own queue, and a
// recipient whose queue is full is disconnected instead of stalling the rest.
type Router struct {
	registry *Registry
	log      *zap.Logger
}

func NewRouter(registry *Registry, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{registry: registry, log: log}
}

// NotifySession delivers one frame to exactly one session.
func (rt *Router) NotifySession(sessionID string, event models.EventType, payload interface{}) bool {
	client, ok := rt.registry.Client(sessionID)
	if !ok {
		return false
	}
	return rt.deliver(client, models.WSFrame{Type: event, Data: payload})
}

// Fanout delivers one frame to every listed session except exclude and
// returns how many recipients accepted it.
func (rt *Router) Fanout(recipients []string, event models.EventType, payload interface{}, exclude string) int {
	frame := models.WSFrame{Type: event, Data: payload}
	delivered := 0
	for _, id := range recipients {
		if exclude != "" && id == exclude {
			continue
		}
		client, ok := rt.registry.Client(id)
		if !ok {
			continue
		}
		if rt.deliver(client, frame) {
			delivered++
		}
	}
	return delivered
}

func (rt *Router) deliver(client *Client, frame models.WSFrame) bool {
	if client.Send(frame) {
		metrics.FramesDelivered.WithLabelValues(string(frame.Type)).Inc()
		return true
	}
	metrics.FramesDropped.WithLabelValues(string(frame.Type)).Inc()
	rt.log.Warn("dropping slow session",
		zap.String("session_id", client.ID),
		zap.String("event", string(frame.Type)))
	// the read loop observes the closed connection and runs the disconnect path
	client.Close()
	return false
}
