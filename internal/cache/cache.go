// Package cache provides a keyed publish/subscribe store shared by every
// component of the header. It plays the part of an application-wide query
// cache: any component may read or write a key, and every subscriber to
// that key is told about the new value before the write returns.
package cache

import (
	"sort"
	"sync"
)

type subscriber struct {
	id int
	fn func(any)
}

// Client holds one value slot per key plus the subscribers of each key.
type Client struct {
	mu     sync.RWMutex
	values map[string]any
	subs   map[string][]subscriber
	nextID int

	// notifyMu serialises store+notify so subscribers observe writes in
	// the order they were made.
	notifyMu sync.Mutex
}

// New creates an empty cache.
func New() *Client {
	return &Client{
		values: make(map[string]any),
		subs:   make(map[string][]subscriber),
	}
}

// Get returns the current value for key. ok is false before the first write.
func (c *Client) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// Set replaces the value for key and notifies its subscribers.
func (c *Client) Set(key string, value any) {
	c.Update(key, func(any, bool) any { return value })
}

// Update computes the new value for key from the current one and notifies
// subscribers. fn runs with the store locked and must not touch the cache.
func (c *Client) Update(key string, fn func(old any, ok bool) any) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	old, ok := c.values[key]
	next := fn(old, ok)
	c.values[key] = next
	subs := make([]subscriber, len(c.subs[key]))
	copy(subs, c.subs[key])
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(next)
	}
}

// Delete removes key. Subscribers are not notified; readers see the key as
// never written.
func (c *Client) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
}

// Subscribe registers fn for every future write to key. fn runs on the
// writer's goroutine and must not write to the cache. The returned function
// removes the subscription; calling it more than once is safe.
func (c *Client) Subscribe(key string, fn func(any)) (unsubscribe func()) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.subs[key] = append(c.subs[key], subscriber{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			list := c.subs[key]
			for i, s := range list {
				if s.id == id {
					c.subs[key] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
			if len(c.subs[key]) == 0 {
				delete(c.subs, key)
			}
		})
	}
}

// SubscriberCount reports how many subscribers key currently has.
func (c *Client) SubscriberCount(key string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs[key])
}

// Keys returns the written keys in sorted order.
func (c *Client) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
