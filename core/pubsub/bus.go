// Package pubsub is a minimal in-process event bus. It replaces ad hoc
// cross-component signalling (the "somebody changed the avatar" problem) with
// a shared observable injected where needed.
package pubsub

import "sync"

// Topics
const (
	TopicUserUpdated  = "user.updated"
	TopicSessionState = "session.state"
)

type (
	Event struct {
		Topic   string
		Payload interface{}
	}

	Bus struct {
		mu   sync.Mutex
		subs map[string][]chan Event
	}
)

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]chan Event)}
}

// Subscribe registers for a topic and returns the event channel along with an
// unsubscribe func. The channel is buffered; Publish never blocks on it.
func (b *Bus) Subscribe(topic string) (<-chan Event, func()) {
	ch := make(chan Event, 8)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()

	unsub := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[topic]
		for i, c := range subs {
			if c == ch {
				b.subs[topic] = append(subs[:i], subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, unsub
}

// Publish delivers the event to all current subscribers of the topic.
// Subscribers with full buffers miss the event rather than blocking the
// publisher. The sends happen under the lock: they cannot block, and holding
// it keeps a concurrent unsubscribe from closing a channel mid-send.
func (b *Bus) Publish(topic string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	evt := Event{Topic: topic, Payload: payload}
	for _, ch := range b.subs[topic] {
		select {
		case ch <- evt:
		default:
		}
	}
}
