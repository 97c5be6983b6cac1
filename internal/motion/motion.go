// Package motion drives show/hide transitions with harmonica springs. Each
// change of visibility is reported once as an Enter or Exit event; the
// spring only shapes how the view renders in between.
package motion

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
)

const (
	fps       = 60
	frequency = 8.0
	damping   = 1.0
	epsilon   = 0.01
)

// Kind is the direction of a transition.
type Kind int

const (
	Enter Kind = iota
	Exit
)

func (k Kind) String() string {
	if k == Enter {
		return "enter"
	}
	return "exit"
}

// Event is a discrete show or hide of a named element.
type Event struct {
	Name string
	Kind Kind
}

// EventMsg announces an Event to the update loop.
type EventMsg struct{ Event Event }

// FrameMsg advances the transition with the same name by one frame.
type FrameMsg struct{ Name string }

// Transition animates a single element between hidden (0) and shown (1).
type Transition struct {
	name      string
	spring    harmonica.Spring
	pos, vel  float64
	target    float64
	animating bool
	instant   bool
}

// New returns a hidden transition. With instant set, changes skip the
// animation and only emit events.
func New(name string, instant bool) Transition {
	return Transition{
		name:    name,
		spring:  harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		instant: instant,
	}
}

// Name returns the element name used in events and frames.
func (t Transition) Name() string { return t.name }

// Shown reports the requested visibility.
func (t Transition) Shown() bool { return t.target == 1 }

// Visible reports whether anything should be rendered, which includes the
// tail of an exit animation.
func (t Transition) Visible() bool { return t.Shown() || t.pos > epsilon }

// Progress returns the current position clamped to [0, 1].
func (t Transition) Progress() float64 {
	return math.Max(0, math.Min(1, t.pos))
}

// Animating reports whether frames are still being scheduled.
func (t Transition) Animating() bool { return t.animating }

// Set requests visibility. When it changes, the returned command emits the
// Enter or Exit event and, unless instant, starts the frame loop.
func (t *Transition) Set(visible bool) tea.Cmd {
	target := 0.0
	if visible {
		target = 1
	}
	if target == t.target {
		return nil
	}
	t.target = target

	ev := Event{Name: t.name, Kind: Exit}
	if visible {
		ev.Kind = Enter
	}
	emit := func() tea.Msg { return EventMsg{Event: ev} }

	if t.instant {
		t.pos, t.vel = target, 0
		return emit
	}
	if t.animating {
		return emit
	}
	t.animating = true
	return tea.Batch(emit, t.tick())
}

// Update advances the spring on a matching frame and schedules the next
// one until the transition settles.
func (t *Transition) Update(msg FrameMsg) tea.Cmd {
	if msg.Name != t.name || !t.animating {
		return nil
	}
	t.pos, t.vel = t.spring.Update(t.pos, t.vel, t.target)
	if math.Abs(t.pos-t.target) < epsilon && math.Abs(t.vel) < epsilon {
		t.Settle()
		return nil
	}
	return t.tick()
}

// Settle jumps to the requested visibility and stops the frame loop.
func (t *Transition) Settle() {
	t.pos, t.vel = t.target, 0
	t.animating = false
}

func (t Transition) tick() tea.Cmd {
	name := t.name
	return tea.Tick(time.Second/fps, func(time.Time) tea.Msg {
		return FrameMsg{Name: name}
	})
}
