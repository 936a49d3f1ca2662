package websocket

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// connection wraps a gorilla conn behind a write mutex; gorilla allows only
// one concurrent writer and broadcasts arrive from several goroutines.
type connection struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func newConnection(ws *websocket.Conn) *connection {
	return &connection{ws: ws}
}

func (that *connection) Send(v any) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.ws.SetWriteDeadline(time.Now().Add(sendTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.ws.WriteJSON(v); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) Close() error {
	if err := that.ws.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}

	return nil
}
