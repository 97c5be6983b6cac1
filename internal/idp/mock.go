package idp

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Cycler drives the provider in mock mode: each tick either signs in the
// next seeded account or signs the current one out.
type Cycler struct {
	server   *Server
	interval time.Duration
	next     int
}

func NewCycler(server *Server, interval time.Duration) *Cycler {
	return &Cycler{server: server, interval: interval}
}

// Start runs the cycle in the background until ctx is done.
func (c *Cycler) Start(ctx context.Context) {
	if c.interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Step()
			}
		}
	}()
}

// Step advances the cycle once.
func (c *Cycler) Step() {
	if c.server.store.Current() != nil {
		c.server.End()
		return
	}
	accounts := c.server.store.Accounts()
	if len(accounts) == 0 {
		return
	}
	uid := accounts[c.next%len(accounts)].UID
	c.next++
	if err := c.server.Start(uid); err != nil {
		log.Error().Err(err).Str("uid", uid).Msg("mock sign in")
	}
}
