// Package router carries navigation intents out of the header. Routes are
// opaque destination tokens; resolving them to screens is the embedding
// application's business.
package router

import (
	"net/url"
	"sync"
)

// Kind names a destination.
type Kind string

const (
	KindHome           Kind = "home"
	KindLogin          Kind = "login"
	KindProfile        Kind = "profile"
	KindTemplateCreate Kind = "template_create"
)

// Destination is a navigation target.
type Destination struct {
	Kind  Kind
	Param string
}

var (
	Home           = Destination{Kind: KindHome}
	Login          = Destination{Kind: KindLogin}
	TemplateCreate = Destination{Kind: KindTemplateCreate}
)

// Profile is the account page of uid.
func Profile(uid string) Destination {
	return Destination{Kind: KindProfile, Param: uid}
}

// Path renders the destination as a URL path.
func (d Destination) Path() string {
	switch d.Kind {
	case KindLogin:
		return "/auth"
	case KindProfile:
		return "/profile/" + url.PathEscape(d.Param)
	case KindTemplateCreate:
		return "/template/create"
	default:
		return "/"
	}
}

func (d Destination) String() string { return d.Path() }

// NavigateMsg asks the update loop to navigate.
type NavigateMsg struct{ To Destination }

// Router receives navigation intents.
type Router interface {
	Navigate(Destination)
}

// History is an in-memory Router remembering every destination.
type History struct {
	mu      sync.Mutex
	entries []Destination
}

// NewHistory starts at Home.
func NewHistory() *History {
	return &History{entries: []Destination{Home}}
}

// Navigate appends d. Navigating to the current destination is a no-op.
func (h *History) Navigate(d Destination) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == d {
		return
	}
	h.entries = append(h.entries, d)
}

// Back pops the current destination and returns the previous one.
func (h *History) Back() Destination {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) > 1 {
		h.entries = h.entries[:len(h.entries)-1]
	}
	return h.entries[len(h.entries)-1]
}

// Current returns the latest destination.
func (h *History) Current() Destination {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
