package wsrouter

import (
	"errors"
	"fmt"
)

// ErrInvalidPayload is the cause of a ProtocolError when a frame is not
// well-formed JSON.
var ErrInvalidPayload = errors.New("payload is not valid JSON")

// ErrNoMatch is the cause of a ClassificationError when a well-formed
// payload is accepted by none of the registered schemas.
var ErrNoMatch = errors.New("no registered schema matched")

// ClassificationError reports that a payload could not be resolved to a
// registered schema. The payload itself was well-formed; either no schema
// accepted it, or the schema selected by the discriminator rejected it
// during full validation.
type ClassificationError struct {
	// Schema is the name of the schema selected by the discriminator,
	// or empty when classification fell through trial validation.
	Schema string

	// Err is the originating decode or validation error.
	Err error
}

func (e *ClassificationError) Error() string {
	if e.Schema != "" {
		return fmt.Sprintf("classify payload as %s: %v", e.Schema, e.Err)
	}
	return fmt.Sprintf("classify payload: %v", e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// ProtocolError reports input outside the parsing domain entirely: a frame
// that is not well-formed for the configured payload mode, a frame of the
// wrong type, or a transport-level read fault. Unlike ClassificationError,
// the fallback hook receives no payload for these.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string { return fmt.Sprintf("protocol violation: %v", e.Err) }

func (e *ProtocolError) Unwrap() error { return e.Err }

// DuplicateSchemaError is returned by Receive when a handler is already
// bound to the same schema type on this router.
type DuplicateSchemaError struct {
	Schema string
}

func (e *DuplicateSchemaError) Error() string {
	return fmt.Sprintf("schema %s is already registered", e.Schema)
}

// DuplicateTagError is returned by Receive when the discriminator value is
// already claimed by another schema on this router.
type DuplicateTagError struct {
	Tag    string
	Schema string
}

func (e *DuplicateTagError) Error() string {
	return fmt.Sprintf("discriminator value %q is already registered to schema %s", e.Tag, e.Schema)
}
