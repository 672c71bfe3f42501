package wsrouter

import (
	"github.com/tidwall/gjson"
)

// registry holds the registered schemas for one router. Entries keep
// registration order because trial validation ties break on it. When a
// discriminator field is configured, byTag gives O(1) resolution from the
// field's literal value to the schema regardless of how many schemas are
// registered.
type registry struct {
	field   string
	entries []*Entry
	byType  map[string]*Entry
	byTag   map[string]*Entry
}

func newRegistry(field string) *registry {
	return &registry{
		field:  field,
		byType: make(map[string]*Entry),
		byTag:  make(map[string]*Entry),
	}
}

func (g *registry) add(e *Entry) error {
	key := e.typ.String()
	if _, ok := g.byType[key]; ok {
		return &DuplicateSchemaError{Schema: e.name}
	}
	if e.tag != "" {
		if prev, ok := g.byTag[e.tag]; ok {
			return &DuplicateTagError{Tag: e.tag, Schema: prev.name}
		}
		g.byTag[e.tag] = e
	}
	g.byType[key] = e
	g.entries = append(g.entries, e)
	return nil
}

// classify resolves raw bytes to a registered schema and its decoded
// value. It is a pure function of the registry state and the payload.
//
// Resolution order:
//  1. Input that is not well-formed JSON fails immediately with a
//     ProtocolError; no schema is tried.
//  2. If a discriminator field is configured and the payload carries a
//     registered value, that schema is authoritative: the payload is
//     validated against it alone, and a validation failure is a
//     ClassificationError, never a fallthrough to other schemas.
//  3. Otherwise each schema is trial-validated in registration order and
//     the first that accepts wins.
func (g *registry) classify(raw []byte) (*Entry, any, error) {
	if !gjson.ValidBytes(raw) {
		return nil, nil, &ProtocolError{Err: ErrInvalidPayload}
	}

	if g.field != "" {
		if v := gjson.GetBytes(raw, g.field); v.Exists() {
			if e, ok := g.byTag[v.String()]; ok {
				msg, err := e.decode(raw)
				if err != nil {
					return nil, nil, &ClassificationError{Schema: e.name, Err: err}
				}
				return e, msg, nil
			}
		}
	}

	for _, e := range g.entries {
		msg, err := e.decode(raw)
		if err == nil {
			return e, msg, nil
		}
	}
	return nil, nil, &ClassificationError{Err: ErrNoMatch}
}
