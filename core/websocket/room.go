package websocket

import (
	"fmt"
	"sync"
)

// Room is a named subset of the hub's clients. Clients join and leave
// freely; broadcasts reach only current members.
type Room struct {
	Name string

	hub     *Hub
	clients sync.Map // id -> *Client
}

// CreateRoom creates (or returns the existing) named room.
func (h *Hub) CreateRoom(name string) *Room {
	room := &Room{Name: name, hub: h}
	actual, _ := h.rooms.LoadOrStore(name, room)
	return actual.(*Room)
}

// GetRoom looks a room up by name.
func (h *Hub) GetRoom(name string) (*Room, bool) {
	v, ok := h.rooms.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*Room), true
}

// DeleteRoom empties and removes a room. Member clients stay
// connected to the hub.
func (h *Hub) DeleteRoom(name string) {
	if room, ok := h.GetRoom(name); ok {
		room.clients.Range(func(k, _ any) bool {
			room.Leave(k.(string))
			return true
		})
		h.rooms.Delete(name)
	}
}

// RoomCount returns the number of rooms.
func (h *Hub) RoomCount() int {
	n := 0
	h.rooms.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Join adds a connected client to the room.
func (r *Room) Join(clientID string) error {
	client, ok := r.hub.GetClient(clientID)
	if !ok {
		return fmt.Errorf("client not found: %s", clientID)
	}
	r.clients.Store(clientID, client)
	return nil
}

// Leave removes a client from the room.
func (r *Room) Leave(clientID string) {
	r.clients.Delete(clientID)
}

// Broadcast sends a payload to every member. Members whose queues are
// full miss the message rather than block the room.
func (r *Room) Broadcast(payload []byte) {
	r.clients.Range(func(_, v any) bool {
		v.(*Client).enqueue(payload)
		return true
	})
}

// BroadcastText sends a text message to every member.
func (r *Room) BroadcastText(text string) {
	r.Broadcast([]byte(text))
}

// ClientCount returns the number of members.
func (r *Room) ClientCount() int {
	n := 0
	r.clients.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// ClientIDs returns the member ids in no particular order.
func (r *Room) ClientIDs() []string {
	var ids []string
	r.clients.Range(func(k, _ any) bool {
		ids = append(ids, k.(string))
		return true
	})
	return ids
}
