package wsrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
)

// validatable is the interface for payload validation.
// Compatible with github.com/go-ozzo/ozzo-validation/v4.
type validatable interface {
	Validate() error
}

// Handler processes one inbound message of schema type T.
//
// The router decodes the frame into T, validates it if T implements
// Validate() error, and invokes the handler with the typed value. The
// session is the connection the message arrived on.
type Handler[T any] interface {
	Handle(ctx context.Context, s *Session, msg T) error
}

// HandlerFunc is a function adapter for Handler. Use for handlers that
// don't need a struct:
//
//	wsrouter.ReceiveFunc(r, func(ctx context.Context, s *wsrouter.Session, m ChatMessage) error {
//	    return s.Send(Echo{Text: m.Message})
//	})
type HandlerFunc[T any] func(ctx context.Context, s *Session, msg T) error

// Handle implements the Handler interface.
func (f HandlerFunc[T]) Handle(ctx context.Context, s *Session, msg T) error {
	return f(ctx, s, msg)
}

// Entry binds one message schema to its handler. Entries are created by
// Receive and are immutable afterwards. Custom dispatchers receive entries
// through the Table and may call Decode and Invoke directly.
type Entry struct {
	typ       reflect.Type
	name      string
	tag       string
	docPath   string
	callbacks []string

	decode func(raw []byte) (any, error)
	invoke func(ctx context.Context, s *Session, msg any) error
}

// Name returns the schema name, derived from the Go type.
func (e *Entry) Name() string { return e.name }

// Tag returns the discriminator value registered for this schema, or empty.
func (e *Entry) Tag() string { return e.tag }

// Schema returns the schema's Go type. Schema identity on a router is the
// type itself: at most one entry exists per type.
func (e *Entry) Schema() reflect.Type { return e.typ }

// Callbacks returns the names of the outgoing schemas declared for this
// handler, for documentation synthesis.
func (e *Entry) Callbacks() []string { return e.callbacks }

// Decode attempts to decode and validate raw bytes as this entry's schema.
// Unknown fields are rejected, so trial validation cannot silently accept
// a payload meant for a wider schema registered later.
func (e *Entry) Decode(raw []byte) (any, error) { return e.decode(raw) }

// Invoke calls the bound handler with a value previously produced by
// Decode. It returns an error if msg is not of the entry's schema type.
func (e *Entry) Invoke(ctx context.Context, s *Session, msg any) error {
	return e.invoke(ctx, s, msg)
}

// ReceiveOption configures a single schema registration.
type ReceiveOption func(*Entry)

// Tag sets the discriminator value that selects this schema when the
// router is configured with a discriminator field. The schema should
// declare the discriminator field itself so the value survives decoding.
func Tag(value string) ReceiveOption {
	return func(e *Entry) {
		e.tag = value
	}
}

// DocPath overrides the synthetic documentation path for this handler.
// Without it, descriptors use " (SchemaName)", which is deliberately not a
// routable path.
func DocPath(path string) ReceiveOption {
	return func(e *Entry) {
		e.docPath = path
	}
}

// Callbacks declares the outgoing schemas this handler may emit in
// response. Values are zero values of the schema types; only their names
// are kept, for documentation synthesis.
//
//	wsrouter.Receive(r, h, wsrouter.Callbacks(UserJoined{}, UserList{}))
func Callbacks(models ...any) ReceiveOption {
	return func(e *Entry) {
		for _, m := range models {
			e.callbacks = append(e.callbacks, schemaName(reflect.TypeOf(m)))
		}
	}
}

// Receive binds a handler for the schema type T. At most one handler may
// be bound per schema type; a second registration returns
// DuplicateSchemaError. Registering a Tag already claimed by another
// schema returns DuplicateTagError.
//
// Registration order is significant: when no discriminator resolves a
// payload, schemas are trial-validated in the order they were registered
// and the first that accepts wins.
//
// This is a package-level function (not a method) due to Go generics
// limitations: methods cannot have type parameters independent of the
// receiver.
func Receive[T any](r *Router, h Handler[T], opts ...ReceiveOption) error {
	typ := reflect.TypeOf((*T)(nil)).Elem()

	e := &Entry{
		typ:  typ,
		name: schemaName(typ),
		decode: func(raw []byte) (any, error) {
			var msg T
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&msg); err != nil {
				return nil, err
			}
			if dec.More() {
				return nil, fmt.Errorf("trailing data after payload")
			}

			if v, ok := any(msg).(validatable); ok {
				if err := v.Validate(); err != nil {
					return nil, err
				}
			} else if v, ok := any(&msg).(validatable); ok {
				if err := v.Validate(); err != nil {
					return nil, err
				}
			}

			return msg, nil
		},
		invoke: func(ctx context.Context, s *Session, msg any) error {
			m, ok := msg.(T)
			if !ok {
				return fmt.Errorf("invoke %s: payload is %T", schemaName(typ), msg)
			}
			return h.Handle(ctx, s, m)
		},
	}
	for _, opt := range opts {
		opt(e)
	}

	return r.reg.add(e)
}

// ReceiveFunc is a convenience function for binding a handler function.
func ReceiveFunc[T any](r *Router, fn func(ctx context.Context, s *Session, msg T) error, opts ...ReceiveOption) error {
	return Receive(r, HandlerFunc[T](fn), opts...)
}

func baseType(v any) reflect.Type {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func schemaName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
