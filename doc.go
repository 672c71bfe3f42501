// Package wsrouter routes WebSocket messages to typed handlers by schema.
//
// A Router owns a set of message schemas, one handler per schema, and a
// per-connection loop that receives frames, classifies each one against
// the registered schemas, and invokes the matching handler. It sits on
// top of an existing HTTP server's WebSocket upgrade; it never manages
// transport concerns like reconnection, retries, or connection limits.
//
// # Quick Start
//
// Define message schemas as plain structs and bind handlers:
//
//	type ChatMessage struct {
//	    Action  string `json:"action"`
//	    Message string `json:"message"`
//	}
//
//	type ChatActivity struct {
//	    Action string `json:"action"`
//	    State  string `json:"state"`
//	}
//
//	r := wsrouter.New(wsrouter.WithDiscriminator("action"))
//
//	wsrouter.ReceiveFunc(r, func(ctx context.Context, s *wsrouter.Session, m ChatMessage) error {
//	    return s.Send(m) // echo
//	}, wsrouter.Tag("message"))
//
//	wsrouter.ReceiveFunc(r, func(ctx context.Context, s *wsrouter.Session, m ChatActivity) error {
//	    return nil
//	}, wsrouter.Tag("activity"))
//
//	http.Handle("/ws", r)
//
// # Classification
//
// Every frame is resolved to exactly one schema or routed to the fallback
// hook; frames are never silently lost unless the application chooses to
// run without a fallback.
//
// With a discriminator configured, resolution is O(1): the field's value
// selects the schema registered with the matching Tag, and the payload is
// validated against that schema alone. The discriminator is authoritative
// — if the selected schema rejects the payload, classification fails
// rather than falling through to other schemas.
//
// Without a discriminator, or when the field's value is absent or
// unrecognized, schemas are trial-validated in registration order and the
// first that accepts wins. Acceptance means a strict decode (unknown
// fields rejected) plus the schema's Validate method when it has one.
// Registration order is therefore part of the contract: it is the only
// tie-break between overlapping schemas.
//
// Schemas that implement Validate() error are validated after decoding;
// github.com/go-ozzo/ozzo-validation/v4 fits this contract directly:
//
//	func (m ChatMessage) Validate() error {
//	    return validation.ValidateStruct(&m,
//	        validation.Field(&m.Action, validation.Required),
//	        validation.Field(&m.Message, validation.Required, validation.Length(1, 4096)),
//	    )
//	}
//
// # Connection Lifecycle
//
// Each connection moves through connect, open, and closed states. The
// connect hook runs before any frame is read and is the sole accept or
// reject authority; the context it returns is threaded into every handler
// invocation for that connection, which is the place to attach per-
// connection state:
//
//	wsrouter.OnConnect(func(ctx context.Context, s *wsrouter.Session) (context.Context, error) {
//	    user, err := authenticate(s.Request())
//	    if err != nil {
//	        return nil, err // connection closed with 1008
//	    }
//	    return context.WithValue(ctx, userKey, user), nil
//	})
//
// While open, frames are processed strictly sequentially: the loop awaits
// each handler before reading the next frame, so handler invocations on
// one connection happen in frame arrival order. Connections are
// independent; routers hold no shared mutable state after construction.
//
// The disconnect hook receives the peer's close code and reason. The
// fallback hook receives every frame that could not be dispatched: with
// the raw payload for classification failures, with nil for protocol
// violations (unparseable frames, wrong frame type, transport faults).
//
// Handler errors are not recovered. The loop stops and the error reaches
// the caller: HandleSocket returns it, ServeHTTP logs it and closes the
// connection with status 1011. Supervising application-level handler
// correctness is the host's job, not the router's.
//
// # Custom Dispatch
//
// The Dispatcher strategy owns handler selection and invocation for every
// frame. The default classifies against the schema table and invokes the
// match; WithDispatcher replaces the policy wholesale while keeping
// registration, documentation synthesis, and fallback semantics. See
// Dispatcher for the contract.
//
// # Documentation
//
// Descriptors expose the registered contract — schema names,
// discriminator field and values, declared callback schemas — for
// documentation tooling, and DocHandler serves them as JSON. Entries use
// synthetic non-routable paths since HTTP description formats have no
// socket concept.
//
// # Thread Safety
//
// Router is safe for concurrent use after configuration is complete. Do
// not call Receive after the router starts serving connections.
package wsrouter
