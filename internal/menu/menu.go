// Package menu implements the open/closed toggle of the user-menu overlay.
// The menu can only be open while a session is present; the guard lives
// here rather than in the view.
package menu

import "github.com/tplgallery/header/internal/session"

// Controller is the overlay visibility owned by one header instance. The
// zero value is closed.
type Controller struct {
	open bool
}

// IsOpen reports whether the overlay is visible.
func (c Controller) IsOpen() bool { return c.open }

// Open shows the overlay if st is Authenticated. It reports whether the
// visibility changed.
func (c *Controller) Open(st session.State) bool {
	if c.open || !session.IsAuthenticated(st) {
		return false
	}
	c.open = true
	return true
}

// Toggle flips the overlay, honouring the Open guard. It reports whether
// the visibility changed.
func (c *Controller) Toggle(st session.State) bool {
	if c.open {
		return c.Close()
	}
	return c.Open(st)
}

// Leave handles the pointer or focus leaving the overlay region.
func (c *Controller) Leave() bool { return c.Close() }

// Close hides the overlay. It reports whether the visibility changed.
func (c *Controller) Close() bool {
	if !c.open {
		return false
	}
	c.open = false
	return true
}

// Sync forces the overlay closed when st carries no session.
func (c *Controller) Sync(st session.State) bool {
	if session.IsAuthenticated(st) {
		return false
	}
	return c.Close()
}
