package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/session"
)

const (
	writeWait = 10 * time.Second
	readWait  = 5 * time.Minute
)

// Conn serialises writes to a websocket. Session events arrive from the
// countdown goroutine while the read loop answers actions, and gorilla
// allows one concurrent writer.
type Conn struct {
	ws  *websocket.Conn
	mu  sync.Mutex
	log zerolog.Logger
}

func NewConn(ws *websocket.Conn, log zerolog.Logger) *Conn {
	return &Conn{ws: ws, log: log}
}

// WriteTyped sends a strongly-typed response payload over the WebSocket.
func (c *Conn) WriteTyped(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse over the WebSocket.
func (c *Conn) WriteError(action Action, code, errMsg string) error {
	return c.WriteTyped(ErrorResponse{
		Event:  EventError,
		Action: action,
		Code:   code,
		Error:  errMsg,
	})
}

// Emit forwards a session event. Write failures surface on the next read.
func (c *Conn) Emit(ev session.Event) {
	if err := c.WriteTyped(ev); err != nil {
		c.log.Debug().Err(err).Str("event", string(ev.Type)).Msg("Event not delivered")
	}
}

// ReadJSON reads and decodes a message into the provided structure.
// It sets a read deadline.
func (c *Conn) ReadJSON(v interface{}) error {
	c.ws.SetReadDeadline(time.Now().Add(readWait))
	return c.ws.ReadJSON(v)
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}
