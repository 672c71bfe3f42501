package wsrouter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
)

// WithUpgrader replaces the websocket.Upgrader used by ServeHTTP, for
// example to set CheckOrigin or enable compression. Routers driven
// through HandleSocket never use the upgrader.
func WithUpgrader(u websocket.Upgrader) Option {
	return func(r *Router) {
		r.upgrader = u
	}
}

// ServeHTTP upgrades the request and runs the connection loop. Handler
// errors are logged and close the connection with an internal-error
// status; use HandleSocket to receive them instead.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		r.log.Debug("websocket upgrade failed", "err", err)
		return
	}

	s := newSession(conn, req, r.binary)
	if err := r.serve(req.Context(), s); err != nil {
		r.log.Error("connection loop failed", "session", s.ID(), "err", err)
		_ = s.Close(websocket.CloseInternalServerErr, "internal error")
		return
	}
	_ = s.Close(websocket.CloseNormalClosure, "")
}

// HandleSocket runs the connection loop over an already-established
// transport. This is for hosting frameworks that perform their own
// upgrade or provide their own WebSocket implementation. The returned
// error is the first handler, fallback, or dispatcher error; the caller
// owns error handling and must close the transport.
func (r *Router) HandleSocket(ctx context.Context, conn Socket) error {
	return r.serve(ctx, newSession(conn, nil, r.binary))
}

// serve is the per-connection state machine: connect, then strictly
// sequential receive/dispatch until disconnect. Each dispatch is awaited
// before the next frame is read, so handler invocation order matches
// frame arrival order within a connection.
func (r *Router) serve(ctx context.Context, s *Session) error {
	if r.onConnect != nil {
		cctx, err := r.onConnect(ctx, s)
		if err != nil {
			r.log.Debug("connection rejected", "session", s.ID(), "err", err)
			_ = s.Close(websocket.ClosePolicyViolation, err.Error())
			return nil
		}
		if cctx != nil {
			ctx = cctx
		}
	}
	r.log.Debug("connection open", "session", s.ID())

	want := websocket.TextMessage
	if r.binary {
		want = websocket.BinaryMessage
	}
	table := r.Table()

	for {
		mt, data, err := s.conn.ReadMessage()
		if err != nil {
			code, reason := closeInfo(err)
			if !isDisconnect(err) {
				// Transport fault rather than a close: surface it through
				// the fallback with no payload before tearing down.
				if ferr := r.fallback(ctx, s, nil, &ProtocolError{Err: err}); ferr != nil {
					return ferr
				}
			}
			if r.onDisconnect != nil {
				r.onDisconnect(ctx, s, code, reason)
			}
			r.log.Debug("connection closed", "session", s.ID(), "code", code)
			return nil
		}

		if mt != want {
			verr := &ProtocolError{Err: fmt.Errorf("unexpected frame type %d", mt)}
			if ferr := r.fallback(ctx, s, nil, verr); ferr != nil {
				return ferr
			}
			continue
		}

		if err := r.dispatch(ctx, s, data, table); err != nil {
			return err
		}
	}
}

// dispatch invokes the dispatcher for one frame and routes structured
// failures to the fallback. Classification failures carry the raw
// payload; protocol violations do not. Anything else is a handler error
// and is returned as-is.
func (r *Router) dispatch(ctx context.Context, s *Session, raw []byte, table *Table) error {
	err := r.dispatcher.Dispatch(ctx, s, raw, table)
	if err == nil {
		return nil
	}

	var ce *ClassificationError
	if errors.As(err, &ce) {
		return r.fallback(ctx, s, raw, err)
	}
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return r.fallback(ctx, s, nil, err)
	}
	return err
}

func (r *Router) fallback(ctx context.Context, s *Session, raw []byte, err error) error {
	if r.onFallback != nil {
		return r.onFallback(ctx, s, raw, err)
	}
	if r.strict {
		return err
	}
	r.log.Debug("frame dropped", "session", s.ID(), "err", err)
	return nil
}

// closeInfo extracts the close code and reason from a read error.
func closeInfo(err error) (int, string) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, ce.Text
	}
	return websocket.CloseAbnormalClosure, err.Error()
}

// isDisconnect reports whether a read error means the peer went away, as
// opposed to a transport fault mid-connection.
func isDisconnect(err error) bool {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed)
}
