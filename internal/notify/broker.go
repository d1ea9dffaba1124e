// Package notify detects data changes and fans them out to
// subscribers, driving the dashboard's live updates.
package notify

import "sync"

// Event names a part of the tracked state that changed. Subscribers
// re-fetch the named section; events carry no payload.
type Event string

// Events.
const (
	EventReload    Event = "reload" // active task changed, refresh everything
	EventTask      Event = "task"
	EventTodos     Event = "todos"
	EventLinks     Event = "links"
	EventScraps    Event = "scraps"
	EventRepos     Event = "repos"
	EventWorktrees Event = "worktrees"
)

type subscriber struct {
	id int64
	ch chan Event
}

// Broker fans events out to subscribers. A slow subscriber never
// blocks publishing: when its buffer is full the oldest event is
// dropped to make room.
type Broker struct {
	mu          sync.RWMutex
	closed      bool
	nextID      int64
	bufferSize  int
	subscribers map[int64]subscriber
}

// NewBroker creates a broker with the given per-subscriber buffer size.
func NewBroker(bufferSize int) *Broker {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &Broker{
		bufferSize:  bufferSize,
		subscribers: make(map[int64]subscriber),
	}
}

// Subscribe registers a new subscriber and returns its channel and a
// cancel function. The channel is closed on cancel or broker close.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.bufferSize)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	b.nextID++
	sub := subscriber{id: b.nextID, ch: ch}
	b.subscribers[sub.id] = sub
	return ch, func() {
		b.unsubscribe(sub.id)
	}
}

// Publish delivers the event to every subscriber and returns the
// number of deliveries. The read lock is held across the sends: they
// never block, and it keeps a concurrent cancel from closing a
// channel mid-send.
func (b *Broker) Publish(event Event) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0
	}

	delivered := 0
	for _, sub := range b.subscribers {
		if tryPublish(sub.ch, event) {
			delivered++
		}
	}
	return delivered
}

// Close closes all subscriber channels. Further publishes are no-ops.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subscribers {
		close(sub.ch)
		delete(b.subscribers, id)
	}
}

func (b *Broker) unsubscribe(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub, ok := b.subscribers[id]
	if !ok {
		return
	}
	delete(b.subscribers, id)
	close(sub.ch)
}

// tryPublish sends without blocking, dropping the subscriber's oldest
// buffered event if the channel is full.
func tryPublish(ch chan Event, event Event) bool {
	select {
	case ch <- event:
		return true
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- event:
		return true
	default:
		return false
	}
}
