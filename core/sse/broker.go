package sse

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// Event is one Server-Sent Event.
type Event struct {
	ID    string
	Name  string // the "event:" field; empty means the default type
	Data  string
	Retry int // reconnect hint in milliseconds, 0 to omit
}

// Encode renders the event in text/event-stream wire form. Multi-line
// data becomes one "data:" line per line, per the SSE format.
func (e Event) Encode() []byte {
	var b strings.Builder
	if e.ID != "" {
		fmt.Fprintf(&b, "id: %s\n", e.ID)
	}
	if e.Name != "" {
		fmt.Fprintf(&b, "event: %s\n", e.Name)
	}
	if e.Retry > 0 {
		fmt.Fprintf(&b, "retry: %d\n", e.Retry)
	}
	for _, line := range strings.Split(e.Data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// Subscriber is one open event-stream connection.
type Subscriber struct {
	ID     string
	Events chan Event

	done      chan struct{}
	closeOnce sync.Once
}

// Close ends the subscription. Idempotent.
func (s *Subscriber) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Done reports subscription shutdown.
func (s *Subscriber) Done() <-chan struct{} { return s.done }

// Broker fans events out to subscribers. Slow subscribers whose
// buffers are full drop events rather than stall the broker.
type Broker struct {
	subscribers sync.Map // id -> *Subscriber

	bufferSize int
	nextEvent  atomic.Uint64
	published  atomic.Int64
	dropped    atomic.Int64
}

// NewBroker creates a broker; bufferSize is each subscriber's queue
// depth.
func NewBroker(bufferSize int) *Broker {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &Broker{bufferSize: bufferSize}
}

// Subscribe registers a new subscriber.
func (b *Broker) Subscribe(id string) *Subscriber {
	sub := &Subscriber{
		ID:     id,
		Events: make(chan Event, b.bufferSize),
		done:   make(chan struct{}),
	}
	b.subscribers.Store(id, sub)
	return sub
}

// Unsubscribe removes and closes a subscriber.
func (b *Broker) Unsubscribe(id string) {
	if v, ok := b.subscribers.LoadAndDelete(id); ok {
		v.(*Subscriber).Close()
	}
}

// Publish sends an event to every subscriber, assigning a sequential
// id when the event has none.
func (b *Broker) Publish(event Event) {
	if event.ID == "" {
		event.ID = fmt.Sprintf("%d", b.nextEvent.Add(1))
	}
	b.published.Add(1)

	b.subscribers.Range(func(_, v any) bool {
		sub := v.(*Subscriber)
		select {
		case sub.Events <- event:
		default:
			b.dropped.Add(1)
		}
		return true
	})
}

// SendTo delivers an event to a single subscriber.
func (b *Broker) SendTo(id string, event Event) error {
	v, ok := b.subscribers.Load(id)
	if !ok {
		return fmt.Errorf("subscriber not found: %s", id)
	}
	if event.ID == "" {
		event.ID = fmt.Sprintf("%d", b.nextEvent.Add(1))
	}
	select {
	case v.(*Subscriber).Events <- event:
		return nil
	default:
		b.dropped.Add(1)
		return fmt.Errorf("subscriber %s buffer full", id)
	}
}

// SubscriberCount returns the number of open subscriptions.
func (b *Broker) SubscriberCount() int {
	n := 0
	b.subscribers.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Published returns the number of events published.
func (b *Broker) Published() int64 { return b.published.Load() }

// Dropped returns the number of per-subscriber deliveries dropped to
// full buffers.
func (b *Broker) Dropped() int64 { return b.dropped.Load() }
