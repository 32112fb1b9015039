package events

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/solve-so/solve-core/pkg/logging"
)

// Broadcaster is an in-process fan-out hub: operations call Publish, every
// connected subscriber receives the envelope as a JSON text frame. Connection
// bookkeeping mirrors the teacher's subscription registry (a mutex-guarded
// map keyed by an opaque ID), upgraded from a client dialing out to a server
// accepting connections.
type Broadcaster struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client
}

type client struct {
	conn *websocket.Conn
	send chan Envelope
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}
}

// ServeHTTP upgrades the connection and registers it as a subscriber until
// the client disconnects or the write loop errors.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	id := uuid.NewString()
	c := &client{conn: conn, send: make(chan Envelope, 64)}

	b.mu.Lock()
	b.clients[id] = c
	b.mu.Unlock()

	go b.writeLoop(id, c)
	go b.readLoop(id, c)
}

// writeLoop drains c.send to the socket until it's closed or write fails.
func (b *Broadcaster) writeLoop(id string, c *client) {
	defer b.remove(id)
	for env := range c.send {
		if err := c.conn.WriteJSON(env); err != nil {
			return
		}
	}
}

// readLoop discards inbound frames; subscribers are write-only consumers.
// It exists only to notice disconnects via the read error gorilla/websocket
// surfaces on a closed connection.
func (b *Broadcaster) readLoop(id string, c *client) {
	defer b.remove(id)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *Broadcaster) remove(id string) {
	b.mu.Lock()
	c, ok := b.clients[id]
	if ok {
		delete(b.clients, id)
	}
	b.mu.Unlock()
	if ok {
		close(c.send)
		c.conn.Close()
	}
}

// Publish fans an envelope out to every connected subscriber. For a
// subscriber whose send buffer is full the envelope is skipped rather than
// allowed to block the publisher; the subscriber itself stays connected.
func (b *Broadcaster) Publish(kind Kind, data any) {
	env := Envelope{ID: uuid.NewString(), Kind: kind, Data: data}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, c := range b.clients {
		select {
		case c.send <- env:
		default:
			logging.L().Warn("subscriber send buffer full, dropping", zap.String("client_id", id))
		}
	}
}

// Count returns the number of currently connected subscribers.
func (b *Broadcaster) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
