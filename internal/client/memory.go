package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tplgallery/header/internal/session"
)

const memoryBuffer = 16

// Memory is an in-process identity provider. Every stream first receives
// the current session, then each later change.
type Memory struct {
	mu       sync.Mutex
	current  *session.Session
	accounts map[string]session.Session
	subs     map[chan session.Push]struct{}
	endErr   error
	ends     int
}

// NewMemory creates a provider with the given seeded accounts and nobody
// signed in.
func NewMemory(accounts ...session.Session) *Memory {
	m := &Memory{
		accounts: make(map[string]session.Session, len(accounts)),
		subs:     make(map[chan session.Push]struct{}),
	}
	for _, a := range accounts {
		m.accounts[a.UID] = a
	}
	return m
}

// Sessions implements session.Provider.
func (m *Memory) Sessions(ctx context.Context) <-chan session.Push {
	ch := make(chan session.Push, memoryBuffer)

	m.mu.Lock()
	ch <- session.Push{Session: clone(m.current)}
	m.subs[ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		m.drop(ch)
		m.mu.Unlock()
	}()
	return ch
}

// Publish replaces the current session and notifies every stream. A nil
// session signs everybody out.
func (m *Memory) Publish(s *session.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = clone(s)
	for ch := range m.subs {
		select {
		case ch <- session.Push{Session: clone(s)}:
		default:
			log.Warn().Msg("memory provider subscriber too slow, closing stream")
			m.drop(ch)
		}
	}
}

// drop closes ch and forgets it. Callers hold m.mu.
func (m *Memory) drop(ch chan session.Push) {
	if _, ok := m.subs[ch]; !ok {
		return
	}
	delete(m.subs, ch)
	close(ch)
}

// StartSession signs in the seeded account uid.
func (m *Memory) StartSession(_ context.Context, uid string) (*session.Session, error) {
	m.mu.Lock()
	acct, ok := m.accounts[uid]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown account %q", uid)
	}
	m.Publish(&acct)
	return &acct, nil
}

// EndSession implements session.Provider. It fails with the error set by
// FailEndSession, if any.
func (m *Memory) EndSession(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.ends++
	err := m.endErr
	m.mu.Unlock()
	if err != nil {
		return err
	}
	m.Publish(nil)
	return nil
}

// FailEndSession makes later EndSession calls return err (nil to succeed).
func (m *Memory) FailEndSession(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.endErr = err
}

// EndCalls returns how many times EndSession ran.
func (m *Memory) EndCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ends
}

// Current returns a copy of the signed-in session, or nil.
func (m *Memory) Current() *session.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.current)
}

// Subscribers returns the number of open streams.
func (m *Memory) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

func clone(s *session.Session) *session.Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

var _ session.Provider = (*Memory)(nil)
