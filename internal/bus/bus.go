// Package bus fans mutations out to every open view so each surface
// re-reads and re-renders. Delivery is synchronous and in-process: all
// mutation happens in discrete handler callbacks, so subscribers run to
// completion before the next gesture.
package bus

import "sync"

// Topics published by the core components
const (
	TopicCartUpdated   = "cart.updated"
	TopicAuthChanged   = "auth.changed"
	TopicOrdersUpdated = "orders.updated"
	TopicToast         = "toast"
)

// Event carries a topic and an optional human-readable message
// (the toast text for TopicToast, empty otherwise)
type Event struct {
	Topic   string `json:"topic"`
	Message string `json:"message,omitempty"`
}

type subscriber struct {
	id int
	fn func(Event)
}

// Bus is a minimal in-process publish/subscribe fan-out
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscriber
}

func New() *Bus {
	return &Bus{}
}

// Subscribe registers fn for every published event and returns an
// unsubscribe function. View adapters register on mount and unregister
// when their surface closes.
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers ev to every subscriber in registration order
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(ev)
	}
}
