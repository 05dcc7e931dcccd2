package session

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"codesync/internal/models"
)

const DefaultSendBuffer = 256

// Client is one live transport connection. Outbound frames go through a
// bounded queue drained by WritePump, so a slow peer never stalls the
// goroutine that broadcasts to it.
type Client struct {
	ID string

	conn         *websocket.Conn
	send         chan models.WSFrame
	writeTimeout time.Duration
	done         chan struct{}
	closeOnce    sync.Once

	mu   sync.Mutex
	hook func(models.WSFrame)
}

func NewClient(id string, conn *websocket.Conn, buffer int, writeTimeout time.Duration) *Client {
	if buffer <= 0 {
		buffer = DefaultSendBuffer
	}
	return &Client{
		ID:           id,
		conn:         conn,
		send:         make(chan models.WSFrame, buffer),
		writeTimeout: writeTimeout,
		done:         make(chan struct{}),
	}
}

// SetSendHook replaces the queue with a synchronous callback (used in tests).
func (c *Client) SetSendHook(fn func(models.WSFrame)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

// Send queues a frame without blocking. It reports false when the frame was
// dropped because the client is closed or its queue is full.
func (c *Client) Send(frame models.WSFrame) bool {
	c.mu.Lock()
	hook := c.hook
	c.mu.Unlock()
	if hook != nil {
		hook(frame)
		return true
	}

	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// WritePump writes queued frames to the connection until the client is
// closed, the context ends, or a write fails.
func (c *Client) WritePump(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case frame := <-c.send:
			if c.conn == nil {
				continue
			}
			if c.writeTimeout > 0 {
				if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
					return err
				}
			}
			if err := c.conn.WriteJSON(frame); err != nil {
				return err
			}
		}
	}
}

// Close stops the pump and closes the underlying connection, which unblocks
// the connection's read loop. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func (c *Client) Done() <-chan struct{} { return c.done }
