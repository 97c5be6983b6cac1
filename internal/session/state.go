// Package session tracks the identity provider's current session on behalf
// of the header. The session is shared through the cache so every component
// sees a sign-out without its own provider round-trip.
package session

import "strings"

// CacheKey is the cache slot holding the shared *Session (nil = signed out).
const CacheKey = "user"

// Session is the signed-in user as reported by the identity provider.
type Session struct {
	UID         string `json:"uid" yaml:"uid" toml:"uid"`
	Email       string `json:"email" yaml:"email" toml:"email"`
	DisplayName string `json:"displayName,omitempty" yaml:"display_name" toml:"display_name"`
	PhotoURL    string `json:"photoURL,omitempty" yaml:"photo_url" toml:"photo_url"`
}

// Initial returns the upper-cased first letter of the email, used as the
// avatar when there is no photo.
func (s Session) Initial() string {
	for _, src := range []string{s.Email, s.DisplayName, s.UID} {
		for _, r := range src {
			return strings.ToUpper(string(r))
		}
	}
	return "?"
}

// State is one of Loading, Anonymous or Authenticated.
type State interface {
	isState()
	String() string
}

// Loading is the state before the provider has pushed anything.
type Loading struct{}

// Anonymous means the provider resolved with no session. Err is set when
// the provider could not be resolved at all.
type Anonymous struct {
	Err error
}

// Authenticated carries the current session snapshot.
type Authenticated struct {
	Session Session
}

func (Loading) isState()       {}
func (Anonymous) isState()     {}
func (Authenticated) isState() {}

func (Loading) String() string { return "loading" }

func (a Anonymous) String() string {
	if a.Err != nil {
		return "anonymous (" + a.Err.Error() + ")"
	}
	return "anonymous"
}

func (a Authenticated) String() string { return "authenticated(" + a.Session.UID + ")" }

// IsAuthenticated reports whether st carries a session.
func IsAuthenticated(st State) bool {
	_, ok := st.(Authenticated)
	return ok
}

// Current returns the session in st, if any.
func Current(st State) (Session, bool) {
	if a, ok := st.(Authenticated); ok {
		return a.Session, true
	}
	return Session{}, false
}
