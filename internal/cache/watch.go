package cache

import (
	"context"
	"sync"
)

// Watcher turns the callbacks of a subscription into a channel so a value
// can be awaited from a Bubble Tea command. Only the latest unread value is
// kept; intermediate writes collapse into it.
type Watcher struct {
	key   string
	ch    chan any
	unsub func()

	mu     sync.Mutex
	closed bool
}

// Watch subscribes to key and returns a Watcher delivering its writes.
func (c *Client) Watch(key string) *Watcher {
	w := &Watcher{key: key, ch: make(chan any, 1)}
	w.unsub = c.Subscribe(key, w.deliver)
	return w
}

func (w *Watcher) deliver(v any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	// Drop the unread value, if any, in favour of v.
	select {
	case <-w.ch:
	default:
	}
	w.ch <- v
}

// Key returns the watched key.
func (w *Watcher) Key() string { return w.key }

// Next blocks until a new value is written or ctx is done. ok is false when
// the watcher was closed or the context ended.
func (w *Watcher) Next(ctx context.Context) (v any, ok bool) {
	select {
	case v, ok = <-w.ch:
		return v, ok
	case <-ctx.Done():
		return nil, false
	}
}

// Close ends the subscription and unblocks any pending Next.
func (w *Watcher) Close() {
	w.unsub()
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.ch)
	}
}
