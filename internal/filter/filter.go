// Package filter holds the UI-level query state shared across screens. The
// header writes the search term on every keystroke; any other view reads it
// from the same cache slot without a reference to the header.
package filter

import "github.com/tplgallery/header/internal/cache"

// Key is the cache slot holding the shared State.
const Key = "globalFilter"

// State is the current filter. New dimensions are added as fields.
type State struct {
	SearchTerm string
}

// ShowClear reports whether the clear affordance should be visible.
func (s State) ShowClear() bool {
	return len(s.SearchTerm) > 0
}

// Patch is a partial update. Nil fields leave the current value untouched.
type Patch struct {
	SearchTerm *string
}

// Merge applies p over s, field by field.
func (s State) Merge(p Patch) State {
	if p.SearchTerm != nil {
		s.SearchTerm = *p.SearchTerm
	}
	return s
}

// Read returns the current filter. ok is false before the first write.
func Read(c *cache.Client) (State, bool) {
	v, ok := c.Get(Key)
	if !ok {
		return State{}, false
	}
	s, ok := v.(State)
	return s, ok
}

// SearchTerm returns the shared search term, or "" if none was written.
func SearchTerm(c *cache.Client) string {
	s, _ := Read(c)
	return s.SearchTerm
}

// Write merges p into the shared filter, creating it from p alone if it
// does not exist yet, and notifies every subscriber of Key.
func Write(c *cache.Client, p Patch) State {
	var next State
	c.Update(Key, func(old any, ok bool) any {
		cur, _ := old.(State)
		next = cur.Merge(p)
		return next
	})
	return next
}

// SetSearchTerm writes term as the shared search term.
func SetSearchTerm(c *cache.Client, term string) State {
	return Write(c, Patch{SearchTerm: &term})
}

// Clear resets the search term to the empty string.
func Clear(c *cache.Client) State {
	return SetSearchTerm(c, "")
}

// Subscribe calls fn with every new State written to c.
func Subscribe(c *cache.Client, fn func(State)) (unsubscribe func()) {
	return c.Subscribe(Key, func(v any) {
		if s, ok := v.(State); ok {
			fn(s)
		}
	})
}
