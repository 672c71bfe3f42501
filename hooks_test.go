package wsrouter

import (
	"context"
	"errors"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

type ctxKey string

type LifecycleSuite struct {
	suite.Suite
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) TestConnectContextReachesHandlers() {
	var seen string
	r := New(
		WithDiscriminator("action"),
		OnConnect(func(ctx context.Context, sess *Session) (context.Context, error) {
			return context.WithValue(ctx, ctxKey("user"), "ada"), nil
		}),
	)
	s.Require().NoError(ReceiveFunc(r, func(ctx context.Context, sess *Session, m chatMessage) error {
		seen, _ = ctx.Value(ctxKey("user")).(string)
		return nil
	}, Tag("message")))

	sock := &fakeSocket{frames: []fakeFrame{
		text(`{"action": "message", "message": "hi"}`),
	}}
	s.Require().NoError(r.HandleSocket(context.Background(), sock))
	s.Equal("ada", seen)
}

func (s *LifecycleSuite) TestConnectContextReachesFallbackAndDisconnect() {
	var fromFallback, fromDisconnect string
	r := New(
		OnConnect(func(ctx context.Context, sess *Session) (context.Context, error) {
			return context.WithValue(ctx, ctxKey("user"), "ada"), nil
		}),
		OnFallback(func(ctx context.Context, sess *Session, raw []byte, err error) error {
			fromFallback, _ = ctx.Value(ctxKey("user")).(string)
			return nil
		}),
		OnDisconnect(func(ctx context.Context, sess *Session, code int, reason string) {
			fromDisconnect, _ = ctx.Value(ctxKey("user")).(string)
		}),
	)

	sock := &fakeSocket{frames: []fakeFrame{text(`{"unmatched": true}`)}}
	s.Require().NoError(r.HandleSocket(context.Background(), sock))
	s.Equal("ada", fromFallback)
	s.Equal("ada", fromDisconnect)
}

func (s *LifecycleSuite) TestConnectRejectClosesWithPolicyViolation() {
	var handled, disconnected bool
	r := New(
		WithDiscriminator("action"),
		OnConnect(func(ctx context.Context, sess *Session) (context.Context, error) {
			return nil, errors.New("not welcome")
		}),
		OnDisconnect(func(ctx context.Context, sess *Session, code int, reason string) {
			disconnected = true
		}),
	)
	s.Require().NoError(ReceiveFunc(r, func(ctx context.Context, sess *Session, m chatMessage) error {
		handled = true
		return nil
	}, Tag("message")))

	sock := &fakeSocket{frames: []fakeFrame{
		text(`{"action": "message", "message": "hi"}`),
	}}
	s.Require().NoError(r.HandleSocket(context.Background(), sock))

	s.Equal(websocket.ClosePolicyViolation, sock.closeCode)
	s.Equal("not welcome", sock.closeReason)
	s.True(sock.closed)
	s.Zero(sock.idx, "no frame may be read from a rejected connection")
	s.False(handled)
	s.False(disconnected, "disconnect hook must not fire for rejected connections")
}

func (s *LifecycleSuite) TestDisconnectReceivesPeerCloseCode() {
	var gotCode int
	var gotReason string
	r := New(OnDisconnect(func(ctx context.Context, sess *Session, code int, reason string) {
		gotCode = code
		gotReason = reason
	}))

	sock := &fakeSocket{frames: []fakeFrame{
		{err: &websocket.CloseError{Code: websocket.CloseGoingAway, Text: "leaving"}},
	}}
	s.Require().NoError(r.HandleSocket(context.Background(), sock))
	s.Equal(websocket.CloseGoingAway, gotCode)
	s.Equal("leaving", gotReason)
}

func (s *LifecycleSuite) TestConnectHookMaySendBeforeFirstFrame() {
	r := New(OnConnect(func(ctx context.Context, sess *Session) (context.Context, error) {
		if err := sess.Send(map[string]string{"room": "Room 1"}); err != nil {
			return nil, err
		}
		return ctx, nil
	}))

	sock := &fakeSocket{}
	s.Require().NoError(r.HandleSocket(context.Background(), sock))
	s.Require().Len(sock.sent, 1)
	s.JSONEq(`{"room": "Room 1"}`, string(sock.sent[0]))
}

func (s *LifecycleSuite) TestNilContextFromConnectKeepsAmbient() {
	var seen bool
	base := context.WithValue(context.Background(), ctxKey("base"), "kept")

	r := New(
		OnConnect(func(ctx context.Context, sess *Session) (context.Context, error) {
			return nil, nil
		}),
		OnFallback(func(ctx context.Context, sess *Session, raw []byte, err error) error {
			_, seen = ctx.Value(ctxKey("base")).(string)
			return nil
		}),
	)

	sock := &fakeSocket{frames: []fakeFrame{text(`{}`)}}
	s.Require().NoError(r.HandleSocket(base, sock))
	s.True(seen)
}
