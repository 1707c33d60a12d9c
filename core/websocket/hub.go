package websocket

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Conn is the transport-facing connection surface. The x/net handler
// adapts real connections; tests substitute fakes.
type Conn interface {
	ReadText() (string, error)
	WriteText(text string) error
	Close() error
}

// Client is one connected peer. Outbound messages go through a
// buffered send queue drained by a write pump; a peer that cannot
// keep up is dropped rather than allowed to stall the hub.
type Client struct {
	ID   string
	conn Conn

	send   chan []byte
	done   chan struct{}
	closed atomic.Bool
}

// NewClient wraps a connection.
func NewClient(id string, conn Conn) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan []byte, 256),
		done: make(chan struct{}),
	}
}

// Close shuts the client down. Idempotent. The send queue stays open
// so concurrent broadcasters never hit a closed channel; the write
// pump exits through done.
func (c *Client) Close() {
	if c.closed.Swap(true) {
		return
	}
	close(c.done)
	c.conn.Close()
}

// IsClosed reports whether Close ran.
func (c *Client) IsClosed() bool { return c.closed.Load() }

// enqueue offers a payload to the send queue without blocking.
func (c *Client) enqueue(payload []byte) bool {
	if c.IsClosed() {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Hub tracks connected clients and named rooms and fans messages out
// to them.
type Hub struct {
	clients sync.Map // id -> *Client
	rooms   sync.Map // name -> *Room

	maxClients   int
	clientCount  atomic.Int64
	messageCount atomic.Int64

	// OnMessage, when set, receives every inbound text message.
	OnMessage func(c *Client, text string)
}

// NewHub creates a hub capped at maxClients concurrent peers.
func NewHub(maxClients int) *Hub {
	if maxClients <= 0 {
		maxClients = 10000
	}
	return &Hub{maxClients: maxClients}
}

// Register admits a client and starts its write pump. The caller owns
// the read side (see ReadLoop).
func (h *Hub) Register(c *Client) error {
	if int(h.clientCount.Load()) >= h.maxClients {
		return fmt.Errorf("max clients reached (%d)", h.maxClients)
	}
	h.clients.Store(c.ID, c)
	h.clientCount.Add(1)

	go h.writePump(c)
	return nil
}

// Unregister removes a client everywhere and closes it.
func (h *Hub) Unregister(c *Client) {
	if _, ok := h.clients.LoadAndDelete(c.ID); !ok {
		return
	}
	h.clientCount.Add(-1)
	h.rooms.Range(func(_, v any) bool {
		v.(*Room).Leave(c.ID)
		return true
	})
	c.Close()
}

// Broadcast sends a payload to every client, or to a single room when
// room is non-empty.
func (h *Hub) Broadcast(payload []byte, room string) {
	h.messageCount.Add(1)

	if room != "" {
		if r, ok := h.GetRoom(room); ok {
			r.Broadcast(payload)
		}
		return
	}

	h.clients.Range(func(_, v any) bool {
		client := v.(*Client)
		if !client.enqueue(payload) {
			h.Unregister(client)
		}
		return true
	})
}

// BroadcastText sends a text message.
func (h *Hub) BroadcastText(text, room string) {
	h.Broadcast([]byte(text), room)
}

// SendTo delivers a payload to one client.
func (h *Hub) SendTo(clientID string, payload []byte) error {
	v, ok := h.clients.Load(clientID)
	if !ok {
		return fmt.Errorf("client not found: %s", clientID)
	}
	if !v.(*Client).enqueue(payload) {
		return fmt.Errorf("client %s send queue full", clientID)
	}
	return nil
}

// GetClient looks a client up by id.
func (h *Hub) GetClient(clientID string) (*Client, bool) {
	v, ok := h.clients.Load(clientID)
	if !ok {
		return nil, false
	}
	return v.(*Client), true
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int { return int(h.clientCount.Load()) }

// MessageCount returns the number of broadcasts handled.
func (h *Hub) MessageCount() int64 { return h.messageCount.Load() }

// ReadLoop consumes inbound messages for a client until its
// connection fails, then unregisters it. Blocking; the connection
// handler calls it on its own goroutine.
func (h *Hub) ReadLoop(c *Client) {
	defer h.Unregister(c)

	for {
		text, err := c.conn.ReadText()
		if err != nil {
			return
		}
		if h.OnMessage != nil {
			h.OnMessage(c, text)
		}
	}
}

func (h *Hub) writePump(c *Client) {
	for {
		select {
		case payload := <-c.send:
			if err := c.conn.WriteText(string(payload)); err != nil {
				h.Unregister(c)
				return
			}
		case <-c.done:
			return
		}
	}
}
