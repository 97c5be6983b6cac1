package session

import (
	"context"
	"errors"
)

var (
	// ErrResolveTimeout is attached to Anonymous when the provider pushed
	// nothing within the resolve timeout.
	ErrResolveTimeout = errors.New("session provider did not resolve in time")
	// ErrStreamClosed is attached to Anonymous when the stream ended before
	// the first push.
	ErrStreamClosed = errors.New("session stream closed")
	// ErrSignOut wraps every failed end-session call.
	ErrSignOut = errors.New("sign out failed")
)

// Push is one notification from the provider's session stream. Session is
// nil when nobody is signed in. Err reports a stream failure instead of a
// session value.
type Push struct {
	Session *Session
	Err     error
}

// Provider is the identity provider as seen by the header.
type Provider interface {
	// Sessions streams the current session until ctx is done, then closes
	// the channel. The first value describes the session at subscribe time.
	Sessions(ctx context.Context) <-chan Push
	// EndSession asks the provider to sign the current user out.
	EndSession(ctx context.Context) error
}
