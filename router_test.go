package wsrouter

import (
	"context"
	"errors"
	"testing"
)

func TestTable(t *testing.T) {
	t.Run("lookup by schema value or pointer", func(t *testing.T) {
		r := New(WithDiscriminator("action"))
		if err := Receive(r, discard[chatMessage](), Tag("message")); err != nil {
			t.Fatalf("receive: %v", err)
		}

		e, ok := r.Table().Lookup(chatMessage{})
		if !ok {
			t.Fatal("schema not found by value")
		}
		if e.Tag() != "message" {
			t.Errorf("tag = %q, want %q", e.Tag(), "message")
		}

		if _, ok := r.Table().Lookup(&chatMessage{}); !ok {
			t.Error("schema not found by pointer")
		}
		if _, ok := r.Table().Lookup(chatActivity{}); ok {
			t.Error("unregistered schema found")
		}
	})

	t.Run("entries preserve registration order", func(t *testing.T) {
		r := New()
		if err := Receive(r, discard[chatActivity]()); err != nil {
			t.Fatalf("receive: %v", err)
		}
		if err := Receive(r, discard[chatMessage]()); err != nil {
			t.Fatalf("receive: %v", err)
		}

		entries := r.Table().Entries()
		if len(entries) != 2 {
			t.Fatalf("entries = %d, want 2", len(entries))
		}
		if entries[0].Name() != "chatActivity" || entries[1].Name() != "chatMessage" {
			t.Errorf("order = [%s, %s], want registration order", entries[0].Name(), entries[1].Name())
		}
	})

	t.Run("discriminator field is exposed", func(t *testing.T) {
		r := New(WithDiscriminator("action"))
		if got := r.Table().Discriminator(); got != "action" {
			t.Errorf("discriminator = %q, want %q", got, "action")
		}
		if got := New().Table().Discriminator(); got != "" {
			t.Errorf("discriminator = %q, want empty", got)
		}
	})
}

func TestCustomDispatcher(t *testing.T) {
	t.Run("receives the raw frame and the full table", func(t *testing.T) {
		var gotRaw []byte
		var gotEntries int
		var handlerCalled bool

		r := New(WithDispatcher(DispatcherFunc(func(ctx context.Context, s *Session, raw []byte, table *Table) error {
			gotRaw = raw
			gotEntries = len(table.Entries())
			return nil
		})))
		if err := ReceiveFunc(r, func(ctx context.Context, s *Session, m chatMessage) error {
			handlerCalled = true
			return nil
		}); err != nil {
			t.Fatalf("receive: %v", err)
		}

		sock := &fakeSocket{frames: []fakeFrame{text(`{"a":"1234"}`)}}
		if err := r.HandleSocket(context.Background(), sock); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if string(gotRaw) != `{"a":"1234"}` {
			t.Errorf("raw = %q, want the frame as received", gotRaw)
		}
		if gotEntries != 1 {
			t.Errorf("table entries = %d, want 1", gotEntries)
		}
		if handlerCalled {
			t.Error("default dispatch path ran despite a custom dispatcher")
		}
	})

	t.Run("classification errors keep fallback semantics", func(t *testing.T) {
		var fbRaw []byte
		r := New(
			WithDispatcher(DispatcherFunc(func(ctx context.Context, s *Session, raw []byte, table *Table) error {
				return &ClassificationError{Err: ErrNoMatch}
			})),
			OnFallback(func(ctx context.Context, s *Session, raw []byte, err error) error {
				fbRaw = raw
				return nil
			}),
		)

		sock := &fakeSocket{frames: []fakeFrame{text(`{"x":1}`)}}
		if err := r.HandleSocket(context.Background(), sock); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(fbRaw) != `{"x":1}` {
			t.Errorf("fallback raw = %q, want the frame", fbRaw)
		}
	})

	t.Run("other dispatcher errors propagate", func(t *testing.T) {
		wantErr := errors.New("strategy failure")
		r := New(WithDispatcher(DispatcherFunc(func(ctx context.Context, s *Session, raw []byte, table *Table) error {
			return wantErr
		})))

		sock := &fakeSocket{frames: []fakeFrame{text(`{}`)}}
		if err := r.HandleSocket(context.Background(), sock); !errors.Is(err, wantErr) {
			t.Fatalf("error = %v, want %v", err, wantErr)
		}
	})
}

func TestEntryInvoke(t *testing.T) {
	r := New()
	if err := Receive(r, discard[chatMessage]()); err != nil {
		t.Fatalf("receive: %v", err)
	}
	e, _, err := r.Table().Classify([]byte(`{"action":"message","message":"hi"}`))
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	if err := e.Invoke(context.Background(), nil, chatActivity{}); err == nil {
		t.Error("invoking with a payload of the wrong schema type must fail")
	}
}
