package eventbus

import "sync"

// tapBuffer bounds how far a slow tap may lag before events are dropped
// for it. Publish never blocks the notification path.
const tapBuffer = 8

// Event is one notification flow event. Concrete types live in
// core/events (UpdateEvent, DeliveryEvent, RosterEvent).
type Event interface{}

// EventBus fans notification flow events out to observer taps.
type EventBus interface {
	Publish(Event)
	Subscribe() <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// Bus is the in-process EventBus used by the engine. Taps that fall
// behind lose events rather than slowing down update handling.
type Bus struct {
	mu     sync.RWMutex
	taps   []chan Event
	closed bool
}

// New creates an empty Bus.
func New() *Bus { return &Bus{} }

// Publish offers the event to every tap. A tap with a full buffer is
// skipped.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.taps {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a tap and returns its receive channel. On a
// closed bus the returned channel is already closed.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, tapBuffer)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.taps = append(b.taps, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe detaches the tap and closes its channel. Unknown or
// already detached channels are ignored.
func (b *Bus) Unsubscribe(tap <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.taps {
		if ch == tap {
			b.taps = append(b.taps[:i], b.taps[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Close closes every tap channel and rejects further publishes.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, ch := range b.taps {
		close(ch)
	}
	b.taps = nil
	b.mu.Unlock()
}
