package wsrouter

import "context"

// ConnectFunc is called once when a connection enters the router, before
// any frame is read. It is the sole accept/reject authority: returning an
// error rejects the connection, which is closed with a policy-violation
// status and never reaches the message loop. The returned context, if
// non-nil, replaces the connection's context and is passed to every
// subsequent dispatch and hook for that connection.
//
// With no ConnectFunc registered, every connection is accepted and the
// ambient context is used unchanged.
type ConnectFunc func(ctx context.Context, s *Session) (context.Context, error)

// DisconnectFunc is called once when a connection leaves the message
// loop, with the close code and reason reported by the peer or derived
// from the transport error. It is not called for connections rejected by
// the ConnectFunc.
type DisconnectFunc func(ctx context.Context, s *Session, code int, reason string)

// FallbackFunc is called for every frame that could not be dispatched to
// a handler. For classification failures raw holds the offending payload;
// for protocol violations (unparseable frame, wrong frame type, transport
// fault) raw is nil. The error is the originating *ClassificationError or
// *ProtocolError.
//
// An error returned from the fallback is treated like a handler error:
// the loop stops and the error propagates to the caller.
//
// With no FallbackFunc registered, undispatchable frames are dropped
// silently unless WithStrictUnhandled is set.
type FallbackFunc func(ctx context.Context, s *Session, raw []byte, err error) error

// Option configures a Router.
type Option func(*Router)

// WithDiscriminator sets the field whose value selects a schema directly.
// Schemas registered with a Tag are resolved in O(1) through this field;
// payloads without a recognized value fall back to trial validation.
func WithDiscriminator(field string) Option {
	return func(r *Router) {
		r.field = field
	}
}

// WithDispatcher replaces the default classify-then-invoke dispatcher.
func WithDispatcher(d Dispatcher) Option {
	return func(r *Router) {
		r.dispatcher = d
	}
}

// WithBinary switches the router to binary frames. Routers are either
// text or binary, never both; frames of the other type are routed to the
// fallback hook as protocol violations.
func WithBinary() Option {
	return func(r *Router) {
		r.binary = true
	}
}

// OnConnect registers the connect hook.
func OnConnect(fn ConnectFunc) Option {
	return func(r *Router) {
		r.onConnect = fn
	}
}

// OnDisconnect registers the disconnect hook.
func OnDisconnect(fn DisconnectFunc) Option {
	return func(r *Router) {
		r.onDisconnect = fn
	}
}

// OnFallback registers the fallback hook.
func OnFallback(fn FallbackFunc) Option {
	return func(r *Router) {
		r.onFallback = fn
	}
}

// WithCallbacks declares the schemas the router itself may emit once a
// connection is established, independent of any handler. Only the schema
// names are kept, for documentation synthesis.
func WithCallbacks(models ...any) Option {
	return func(r *Router) {
		for _, m := range models {
			r.callbacks = append(r.callbacks, schemaName(baseType(m)))
		}
	}
}

// WithStrictUnhandled makes an undispatchable frame an error when no
// fallback hook is registered: the loop stops and the classification or
// protocol error propagates to the caller. The default is to drop such
// frames silently, matching the behavior applications expect when they
// simply never register a fallback.
func WithStrictUnhandled() Option {
	return func(r *Router) {
		r.strict = true
	}
}

// WithLogger replaces the router's logger. The default logs through
// log/slog's default logger.
func WithLogger(l Logger) Option {
	return func(r *Router) {
		r.log = l
	}
}
