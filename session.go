package wsrouter

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const closeWriteWait = 10 * time.Second

// Socket is the transport a session reads from and writes to. It is the
// subset of *websocket.Conn the router uses, so a gorilla connection
// satisfies it directly; hosting frameworks with their own WebSocket
// implementation can drive the router through HandleSocket with any
// implementation of this interface.
//
// Message types use the gorilla/websocket (RFC 6455) opcode values:
// TextMessage (1), BinaryMessage (2), CloseMessage (8).
type Socket interface {
	ReadMessage() (messageType int, data []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Session is the per-connection handle passed to hooks and handlers. It
// serializes writes, so handlers and hooks may send from the dispatch
// goroutine without further coordination.
//
// Sessions are created by the router, one per connection, and are only
// valid until the connection loop returns.
type Session struct {
	id     string
	conn   Socket
	binary bool
	req    *http.Request

	writeMu sync.Mutex
	closed  bool
}

func newSession(conn Socket, req *http.Request, binary bool) *Session {
	return &Session{
		id:     uuid.NewString(),
		conn:   conn,
		req:    req,
		binary: binary,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Request returns the HTTP upgrade request that opened this connection,
// or nil when the session was created through HandleSocket.
func (s *Session) Request() *http.Request { return s.req }

// Send marshals v as JSON and writes it as one frame, text or binary
// matching the router's payload mode.
func (s *Session) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.SendRaw(data)
}

// SendRaw writes data as one frame without marshaling.
func (s *Session) SendRaw(data []byte) error {
	mt := websocket.TextMessage
	if s.binary {
		mt = websocket.BinaryMessage
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(mt, data)
}

// Close sends a close frame with the given status code and reason, then
// closes the underlying transport. It is safe to call more than once;
// later calls are no-ops.
func (s *Session) Close(code int, reason string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	msg := websocket.FormatCloseMessage(code, reason)
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteWait))
	return s.conn.Close()
}
