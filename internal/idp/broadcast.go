package idp

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	sendBuffer   = 16
	writeTimeout = 10 * time.Second
)

// ErrTooManyClients is returned by AddClient at the connection limit.
var ErrTooManyClients = errors.New("too many clients")

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	go c.writePump()
	return c
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Debug().Err(err).Str("client", c.id).Msg("ws write")
			return
		}
	}
}

// Broadcaster fans the current session out to every connected client.
type Broadcaster struct {
	mu         sync.RWMutex
	clients    map[*client]bool
	store      *Store
	maxClients int
	seq        atomic.Uint64

	snapshotTicker *time.Ticker
	done           chan struct{}
	closeOnce      sync.Once
}

// NewBroadcaster resends the current session every snapshotInterval. A
// maxClients of zero means no limit.
func NewBroadcaster(store *Store, snapshotInterval time.Duration, maxClients int) *Broadcaster {
	b := &Broadcaster{
		clients:    make(map[*client]bool),
		store:      store,
		maxClients: maxClients,
		done:       make(chan struct{}),
	}
	if snapshotInterval > 0 {
		b.snapshotTicker = time.NewTicker(snapshotInterval)
		go b.snapshotLoop()
	}
	return b
}

// AddClient registers conn and sends it the current session.
func (b *Broadcaster) AddClient(conn *websocket.Conn) (*client, error) {
	b.mu.Lock()
	if b.maxClients > 0 && len(b.clients) >= b.maxClients {
		b.mu.Unlock()
		return nil, ErrTooManyClients
	}
	c := newClient(conn)
	b.clients[c] = true
	b.mu.Unlock()

	log.Info().Str("client", c.id).Str("remote", conn.RemoteAddr().String()).Msg("ws client connected")
	b.sendTo(c)
	return c, nil
}

func (b *Broadcaster) RemoveClient(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.send)
		log.Info().Str("client", c.id).Msg("ws client disconnected")
	}
	b.mu.Unlock()
}

// Publish sends the current session to every client.
func (b *Broadcaster) Publish() {
	data, err := b.frame()
	if err != nil {
		log.Error().Err(err).Msg("broadcast marshal")
		return
	}

	b.mu.RLock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, c := range clients {
		if !b.enqueue(c, data) {
			log.Warn().Str("client", c.id).Msg("ws client too slow, disconnecting")
			b.RemoveClient(c)
		}
	}
}

// sendTo sends the current session to a single client.
func (b *Broadcaster) sendTo(c *client) {
	data, err := b.frame()
	if err != nil {
		log.Error().Err(err).Msg("snapshot marshal")
		return
	}
	if !b.enqueue(c, data) {
		log.Warn().Str("client", c.id).Msg("ws client too slow, snapshot dropped")
	}
}

// sendError reports a problem with a client's own frame back to it.
func (b *Broadcaster) sendError(c *client, message string) {
	data, err := json.Marshal(WSMessage{
		Type:    MsgError,
		Seq:     b.seq.Load(),
		Payload: ErrorPayload{Message: message},
	})
	if err != nil {
		return
	}
	b.enqueue(c, data)
}

func (b *Broadcaster) enqueue(c *client, data []byte) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.clients[c] {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (b *Broadcaster) frame() ([]byte, error) {
	return json.Marshal(WSMessage{
		Type:    MsgSession,
		Seq:     b.seq.Add(1),
		Payload: SessionPayload{Session: b.store.Current()},
	})
}

func (b *Broadcaster) snapshotLoop() {
	for {
		select {
		case <-b.snapshotTicker.C:
			b.Publish()
		case <-b.done:
			return
		}
	}
}

// Close stops the snapshot loop and disconnects every client.
func (b *Broadcaster) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
		if b.snapshotTicker != nil {
			b.snapshotTicker.Stop()
		}
		b.mu.Lock()
		for c := range b.clients {
			delete(b.clients, c)
			close(c.send)
		}
		b.mu.Unlock()
	})
}

func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
