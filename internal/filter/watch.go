package filter

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/tplgallery/header/internal/cache"
)

// ChangedMsg reports a write to the shared filter to the Watch that asked.
type ChangedMsg struct {
	WatchID string
	State   State
}

// Watch lets a Bubble Tea component await writes to the shared filter made
// by any other component.
type Watch struct {
	id     string
	w      *cache.Watcher
	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatch subscribes to the shared filter in c.
func NewWatch(c *cache.Client) *Watch {
	ctx, cancel := context.WithCancel(context.Background())
	return &Watch{
		id:     uuid.NewString(),
		w:      c.Watch(Key),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Next returns the command waiting for the next write.
func (w *Watch) Next() tea.Cmd {
	id, cw, ctx := w.id, w.w, w.ctx
	return func() tea.Msg {
		v, ok := cw.Next(ctx)
		if !ok {
			return nil
		}
		s, _ := v.(State)
		return ChangedMsg{WatchID: id, State: s}
	}
}

// Owns reports whether msg was produced by this watch.
func (w *Watch) Owns(msg ChangedMsg) bool { return msg.WatchID == w.id }

// Close stops the watch and releases any pending Next.
func (w *Watch) Close() {
	w.cancel()
	w.w.Close()
}
