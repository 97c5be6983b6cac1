package session

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tplgallery/header/internal/cache"
)

// Default timeouts used when Options leaves them zero.
const (
	DefaultResolveTimeout = 10 * time.Second
	DefaultSignOutTimeout = 10 * time.Second
)

// --- Bubble Tea messages ---

// PushMsg delivers one provider push to the observer that asked for it.
type PushMsg struct {
	ObserverID string
	Push       Push
	// Closed is set when the provider closed the stream.
	Closed bool
}

// SignOutMsg carries the result of an end-session request.
type SignOutMsg struct {
	ObserverID string
	Err        error
}

// Options tunes an Observer.
type Options struct {
	ResolveTimeout time.Duration
	SignOutTimeout time.Duration
}

// Observer follows the provider's session stream for one mounted header.
// All methods except the commands it returns must be called from the
// Bubble Tea update loop.
type Observer struct {
	id       string
	provider Provider
	cache    *cache.Client
	opts     Options

	ctx    context.Context
	cancel context.CancelFunc
	pushes <-chan Push

	resolved   bool
	closed     bool
	signingOut bool
	err        error
}

// NewObserver creates an observer in the Loading state. Nothing is
// requested from the provider until Subscribe.
func NewObserver(p Provider, c *cache.Client, opts Options) *Observer {
	if opts.ResolveTimeout <= 0 {
		opts.ResolveTimeout = DefaultResolveTimeout
	}
	if opts.SignOutTimeout <= 0 {
		opts.SignOutTimeout = DefaultSignOutTimeout
	}
	return &Observer{
		id:       uuid.NewString(),
		provider: p,
		cache:    c,
		opts:     opts,
	}
}

// ID identifies the observer in the messages it produces.
func (o *Observer) ID() string { return o.id }

// Subscribe opens the provider stream and returns the command waiting for
// the first push. Calling it again, or after Unsubscribe, returns nil.
func (o *Observer) Subscribe() tea.Cmd {
	if o.closed || o.pushes != nil {
		return nil
	}
	o.ctx, o.cancel = context.WithCancel(context.Background())
	o.pushes = o.provider.Sessions(o.ctx)
	log.Debug().Str("observer", o.id).Msg("session subscribe")
	return o.wait()
}

// wait returns a command receiving the next push. Until the first push it
// also enforces the resolve timeout.
func (o *Observer) wait() tea.Cmd {
	ctx, ch, id := o.ctx, o.pushes, o.id
	var timeout time.Duration
	if !o.resolved {
		timeout = o.opts.ResolveTimeout
	}
	return func() tea.Msg {
		var expired <-chan time.Time
		if timeout > 0 {
			t := time.NewTimer(timeout)
			defer t.Stop()
			expired = t.C
		}
		select {
		case <-ctx.Done():
			return nil
		case p, ok := <-ch:
			if !ok {
				return PushMsg{ObserverID: id, Closed: true}
			}
			return PushMsg{ObserverID: id, Push: p}
		case <-expired:
			return PushMsg{ObserverID: id, Push: Push{Err: ErrResolveTimeout}}
		}
	}
}

// Apply folds a push into the shared cache and returns the command waiting
// for the next one. Messages for another observer, or arriving after
// Unsubscribe, are dropped.
func (o *Observer) Apply(msg PushMsg) tea.Cmd {
	if msg.ObserverID != o.id || o.closed {
		return nil
	}

	switch {
	case msg.Closed:
		if !o.resolved {
			o.resolved = true
			o.err = ErrStreamClosed
		}
		log.Warn().Str("observer", o.id).Msg("session stream closed")
		return nil

	case msg.Push.Err != nil:
		if !o.resolved {
			o.resolved = true
			o.err = msg.Push.Err
			log.Error().Err(msg.Push.Err).Str("observer", o.id).Msg("session provider unresolved")
		} else {
			log.Warn().Err(msg.Push.Err).Str("observer", o.id).Msg("session stream error")
		}
		return o.wait()
	}

	o.resolved = true
	o.err = nil
	var snap *Session
	if msg.Push.Session != nil {
		s := *msg.Push.Session
		snap = &s
	}
	o.cache.Set(CacheKey, snap)
	return o.wait()
}

// State evaluates the current session state from the shared cache.
func (o *Observer) State() State {
	if !o.resolved {
		return Loading{}
	}
	// An unresolved provider never confirmed whatever the cache holds.
	if o.err != nil {
		return Anonymous{Err: o.err}
	}
	if v, ok := o.cache.Get(CacheKey); ok {
		if s, _ := v.(*Session); s != nil {
			return Authenticated{Session: *s}
		}
	}
	return Anonymous{Err: o.err}
}

// Err returns the resolution error, if any.
func (o *Observer) Err() error { return o.err }

// SigningOut reports whether an end-session request is in flight.
func (o *Observer) SigningOut() bool { return o.signingOut }

// Closed reports whether Unsubscribe was called.
func (o *Observer) Closed() bool { return o.closed }

// Unsubscribe stops the stream. It does not cancel a pending sign-out.
func (o *Observer) Unsubscribe() {
	if o.closed {
		return
	}
	o.closed = true
	if o.cancel != nil {
		o.cancel()
	}
	log.Debug().Str("observer", o.id).Msg("session unsubscribe")
}

// SignOut returns the command asking the provider to end the session. It
// returns nil when not signed in, when a request is already pending, or
// after Unsubscribe.
func (o *Observer) SignOut() tea.Cmd {
	if o.closed || o.signingOut || !IsAuthenticated(o.State()) {
		return nil
	}
	o.signingOut = true
	id, p, timeout := o.id, o.provider, o.opts.SignOutTimeout
	return func() tea.Msg {
		// Not derived from the subscription context; unmounting leaves a
		// sign-out running.
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := p.EndSession(ctx); err != nil {
			return SignOutMsg{ObserverID: id, Err: fmt.Errorf("%w: %w", ErrSignOut, err)}
		}
		return SignOutMsg{ObserverID: id}
	}
}

// ApplySignOut records the result of SignOut. On success the shared
// session is cleared. On failure the state is left as it was and the error
// is returned. applied is false when the message was dropped.
func (o *Observer) ApplySignOut(msg SignOutMsg) (applied bool, err error) {
	if msg.ObserverID != o.id {
		return false, nil
	}
	o.signingOut = false
	if o.closed {
		log.Debug().Str("observer", o.id).Msg("sign out result after teardown dropped")
		return false, nil
	}
	if msg.Err != nil {
		log.Error().Err(msg.Err).Str("observer", o.id).Msg("sign out")
		return true, msg.Err
	}
	o.cache.Set(CacheKey, (*Session)(nil))
	log.Info().Str("observer", o.id).Msg("signed out")
	return true, nil
}
