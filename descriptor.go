package wsrouter

import (
	"encoding/json"
	"net/http"
)

// Descriptor describes one registered (schema, handler) pair for
// documentation synthesis. Descriptors exist because HTTP documentation
// formats have no native concept of a bidirectional socket: each entry is
// published under a synthetic, deliberately non-routable path so tooling
// can render the message contract next to the real endpoints.
type Descriptor struct {
	// Schema is the message schema's name.
	Schema string `json:"schema"`

	// Path is the synthetic documentation path: the DocPath override if
	// one was given, otherwise " (SchemaName)". The leading space keeps it
	// outside any real route space.
	Path string `json:"path"`

	// Discriminator is the router's discriminator field name, if any.
	Discriminator string `json:"discriminator,omitempty"`

	// Tag is the discriminator value that selects this schema, if any.
	Tag string `json:"tag,omitempty"`

	// Callbacks are the names of the outgoing schemas the handler
	// declared it may emit.
	Callbacks []string `json:"callbacks,omitempty"`
}

// Descriptors returns one descriptor per registered handler, in
// registration order.
func (r *Router) Descriptors() []*Descriptor {
	ds := make([]*Descriptor, 0, len(r.reg.entries))
	for _, e := range r.reg.entries {
		path := e.docPath
		if path == "" {
			path = " (" + e.name + ")"
		}
		ds = append(ds, &Descriptor{
			Schema:        e.name,
			Path:          path,
			Discriminator: r.field,
			Tag:           e.tag,
			Callbacks:     e.callbacks,
		})
	}
	return ds
}

// doc is the JSON document served by DocHandler.
type doc struct {
	Mode          string        `json:"mode"`
	Discriminator string        `json:"discriminator,omitempty"`
	Callbacks     []string      `json:"callbacks,omitempty"`
	Receives      []*Descriptor `json:"receives"`
}

// DocHandler returns an http.Handler that serves the synthesized
// documentation for this router as JSON: payload mode, discriminator
// field, router-level callback schemas, and one entry per registered
// handler. Mount it wherever the hosting application publishes API
// descriptions.
func (r *Router) DocHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		mode := "text"
		if r.binary {
			mode = "binary"
		}
		d := doc{
			Mode:          mode,
			Discriminator: r.field,
			Callbacks:     r.callbacks,
			Receives:      r.Descriptors(),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(d); err != nil {
			r.log.Error("encode documentation", "err", err)
		}
	})
}
