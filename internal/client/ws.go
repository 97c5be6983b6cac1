package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/tplgallery/header/internal/session"
)

const (
	reconnectBaseDelay = 1 * time.Second
	reconnectMaxDelay  = 30 * time.Second
	writeTimeout       = 10 * time.Second
	pongTimeout        = 60 * time.Second
	pingInterval       = 30 * time.Second
)

var (
	// ErrNotConnected is returned by writes while no connection is up.
	ErrNotConnected = errors.New("not connected")
	// ErrDisconnected is pushed when an established connection drops.
	ErrDisconnected = errors.New("session stream disconnected")
)

// WSClient streams session pushes from the identity provider over a
// WebSocket, reconnecting with exponential backoff.
type WSClient struct {
	url    string
	token  string
	dialer *websocket.Dialer

	mu      sync.Mutex
	writeMu sync.Mutex // serialises all conn writes (ping, resync)
	conn    *websocket.Conn
	seq     uint64

	baseDelay time.Duration
}

// NewWSClient creates a client that connects to the given WebSocket URL.
func NewWSClient(url, token string) *WSClient {
	return &WSClient{
		url:       url,
		token:     token,
		dialer:    websocket.DefaultDialer,
		baseDelay: reconnectBaseDelay,
	}
}

// Sessions connects in the background and streams pushes until ctx is
// done. Dial failures and disconnects are pushed as errors; the client
// keeps retrying.
func (c *WSClient) Sessions(ctx context.Context) <-chan session.Push {
	out := make(chan session.Push, 1)
	go c.run(ctx, out)
	return out
}

func (c *WSClient) run(ctx context.Context, out chan<- session.Push) {
	defer close(out)

	delay := c.baseDelay
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := c.dialer.DialContext(ctx, c.url, authHeader(c.token))
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Dur("retry", delay).Str("url", c.url).Msg("ws dial")
			if !send(ctx, out, session.Push{Err: fmt.Errorf("dial %s: %w", c.url, err)}) {
				return
			}
			if !sleep(ctx, delay) {
				return
			}
			delay = min(delay*2, reconnectMaxDelay)
			continue
		}
		delay = c.baseDelay

		c.mu.Lock()
		c.conn = conn
		c.seq = 0
		c.mu.Unlock()
		log.Info().Str("url", c.url).Msg("ws connected")

		pingCtx, pingCancel := context.WithCancel(ctx)
		go c.pingLoop(pingCtx, conn)
		stop := context.AfterFunc(ctx, func() { conn.Close() })

		err = c.readLoop(ctx, conn, out)

		stop()
		pingCancel()
		conn.Close()
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		log.Warn().Err(err).Msg("ws disconnected")
		if !send(ctx, out, session.Push{Err: fmt.Errorf("%w: %v", ErrDisconnected, err)}) {
			return
		}
	}
}

// readLoop forwards session frames until the connection fails. It returns
// nil when ctx ended while a push was waiting to be delivered.
func (c *WSClient) readLoop(ctx context.Context, conn *websocket.Conn, out chan<- session.Push) error {
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	conn.SetReadDeadline(time.Now().Add(pongTimeout))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().Err(err).Msg("ws malformed frame")
			continue
		}

		c.mu.Lock()
		c.seq = msg.Seq
		c.mu.Unlock()

		push, ok := dispatch(msg)
		if !ok {
			continue
		}
		if !send(ctx, out, push) {
			return nil
		}
	}
}

func dispatch(msg WSMessage) (session.Push, bool) {
	switch msg.Type {
	case MsgSession:
		var p SessionPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return session.Push{}, false
		}
		return session.Push{Session: p.Session}, true
	case MsgError:
		var p ErrorPayload
		_ = json.Unmarshal(msg.Payload, &p)
		log.Warn().Str("message", p.Message).Msg("provider error")
	}
	return session.Push{}, false
}

// pingLoop sends periodic pings on the given connection. It exits when the
// context is cancelled or the connection changes.
func (c *WSClient) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			cc := c.conn
			c.mu.Unlock()
			if cc != conn {
				return
			}
			c.writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// Resync asks the provider to resend the current session.
func (c *WSClient) Resync() error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(map[string]string{"type": "resync"})
}

// Seq returns the last seen sequence number.
func (c *WSClient) Seq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Connected reports whether a connection is currently up.
func (c *WSClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func send(ctx context.Context, out chan<- session.Push, p session.Push) bool {
	select {
	case out <- p:
		return true
	case <-ctx.Done():
		return false
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
