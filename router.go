package wsrouter

import (
	"log/slog"

	"github.com/gorilla/websocket"
)

// Router classifies inbound WebSocket messages by schema and dispatches
// them to registered handlers.
//
// Usage:
//  1. Create a router with New
//  2. Bind handlers with Receive (or ReceiveFunc)
//  3. Mount it: Router implements http.Handler, or drive it with
//     HandleSocket from a hosting framework
//
// Router is safe for concurrent use after configuration. Do not call
// Receive once the router is serving connections. Routers share nothing:
// several can coexist on one server, each with its own schema set,
// discriminator, and hooks.
type Router struct {
	field      string
	reg        *registry
	dispatcher Dispatcher
	binary     bool
	strict     bool
	callbacks  []string
	log        Logger
	upgrader   websocket.Upgrader

	onConnect    ConnectFunc
	onDisconnect DisconnectFunc
	onFallback   FallbackFunc
}

// New creates a Router with the given options.
//
// Example:
//
//	r := wsrouter.New(
//	    wsrouter.WithDiscriminator("action"),
//	    wsrouter.OnFallback(func(ctx context.Context, s *wsrouter.Session, raw []byte, err error) error {
//	        return s.Send(ErrorEvent{Reason: "unrecognized message"})
//	    }),
//	)
//	wsrouter.Receive(r, &chatHandler{}, wsrouter.Tag("message"))
func New(opts ...Option) *Router {
	r := &Router{
		dispatcher: defaultDispatcher{},
		log:        NewSlogLogger(slog.Default()),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.reg = newRegistry(r.field)
	return r
}

// Table returns the read-only view of the router's registered schemas and
// handlers, the same view dispatchers receive.
func (r *Router) Table() *Table {
	return &Table{reg: r.reg}
}
