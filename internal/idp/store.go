// Package idp is a mock identity provider: a set of seeded accounts, at
// most one signed in at a time, streamed to WebSocket clients.
package idp

import (
	"errors"
	"sort"
	"sync"

	"github.com/tplgallery/header/internal/session"
)

// ErrUnknownAccount is returned when starting a session for an account
// that was not seeded.
var ErrUnknownAccount = errors.New("unknown account")

// Store holds the seeded accounts and the current session.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]session.Session
	current  *session.Session
}

func NewStore(accounts []session.Session) *Store {
	s := &Store{accounts: make(map[string]session.Session, len(accounts))}
	for _, a := range accounts {
		s.accounts[a.UID] = a
	}
	return s
}

// Current returns a copy of the signed-in session, or nil.
func (s *Store) Current() *session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cur := *s.current
	return &cur
}

// Start signs in uid, replacing any current session.
func (s *Store) Start(uid string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[uid]
	if !ok {
		return nil, ErrUnknownAccount
	}
	s.current = &acct
	out := acct
	return &out, nil
}

// End signs out. It reports whether anybody was signed in.
func (s *Store) End() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ended := s.current != nil
	s.current = nil
	return ended
}

// Accounts returns the seeded accounts ordered by uid.
func (s *Store) Accounts() []session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]session.Session, 0, len(s.accounts))
	for _, a := range s.accounts {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UID < result[j].UID })
	return result
}
