package wsrouter

import "context"

// Dispatcher decides which handler an inbound frame goes to and invokes
// it. The router calls Dispatch once per frame, sequentially per
// connection, and awaits it before reading the next frame.
//
// Returning a *ClassificationError routes the frame to the fallback hook
// with the raw payload attached; returning a *ProtocolError routes to the
// fallback hook with no payload. Any other error is treated as a handler
// failure and propagates out of the connection loop to the caller.
//
// The default dispatcher classifies the payload against the table and
// invokes the matched entry. Replace it wholesale with WithDispatcher to
// implement arbitrary routing policies, for example prefix-based textual
// routing:
//
//	wsrouter.New(wsrouter.WithDispatcher(wsrouter.DispatcherFunc(
//	    func(ctx context.Context, s *wsrouter.Session, raw []byte, t *wsrouter.Table) error {
//	        for _, e := range t.Entries() {
//	            if bytes.HasPrefix(raw, []byte(e.Tag()+":")) {
//	                msg, err := e.Decode(raw[len(e.Tag())+1:])
//	                if err != nil {
//	                    return &wsrouter.ClassificationError{Schema: e.Name(), Err: err}
//	                }
//	                return e.Invoke(ctx, s, msg)
//	            }
//	        }
//	        return &wsrouter.ClassificationError{Err: wsrouter.ErrNoMatch}
//	    },
//	)))
type Dispatcher interface {
	Dispatch(ctx context.Context, s *Session, raw []byte, table *Table) error
}

// DispatcherFunc is a function adapter for Dispatcher.
type DispatcherFunc func(ctx context.Context, s *Session, raw []byte, table *Table) error

// Dispatch implements the Dispatcher interface.
func (f DispatcherFunc) Dispatch(ctx context.Context, s *Session, raw []byte, table *Table) error {
	return f(ctx, s, raw, table)
}

// Table is the read-only view of a router's registered schemas and
// handlers handed to dispatchers. It is safe for concurrent use once the
// router is serving traffic.
type Table struct {
	reg *registry
}

// Classify resolves raw bytes to a registered schema entry and its
// decoded, validated value. See the package documentation for the
// resolution order.
func (t *Table) Classify(raw []byte) (*Entry, any, error) {
	return t.reg.classify(raw)
}

// Lookup returns the entry bound to the schema of the given value, which
// may be a zero value or a pointer to one.
func (t *Table) Lookup(schema any) (*Entry, bool) {
	typ := baseType(schema)
	if typ == nil {
		return nil, false
	}
	e, ok := t.reg.byType[typ.String()]
	return e, ok
}

// Entries returns all registered entries in registration order.
func (t *Table) Entries() []*Entry {
	return t.reg.entries
}

// Discriminator returns the discriminator field name configured on the
// router, or empty when the router classifies by trial validation only.
func (t *Table) Discriminator() string {
	return t.reg.field
}

type defaultDispatcher struct{}

func (defaultDispatcher) Dispatch(ctx context.Context, s *Session, raw []byte, table *Table) error {
	e, msg, err := table.Classify(raw)
	if err != nil {
		return err
	}
	return e.Invoke(ctx, s, msg)
}
