package events

import "sync"

// Publisher accepts events from any goroutine.
type Publisher interface {
	Publish(Event) bool
}

// Bus hands events from transport goroutines to the single event loop. Publish blocks
// while the buffer is full so record batches are never dropped; it returns false once
// the bus is closed.
type Bus struct {
	ch   chan Event
	done chan struct{}
	once sync.Once
}

var _ Publisher = (*Bus)(nil)

// NewBus creates a bus buffering up to size events.
func NewBus(size int) *Bus {
	if size < 1 {
		size = 1
	}
	return &Bus{
		ch:   make(chan Event, size),
		done: make(chan struct{}),
	}
}

// Publish enqueues e unless the bus is closed.
func (b *Bus) Publish(e Event) bool {
	select {
	case <-b.done:
		return false
	default:
	}
	select {
	case b.ch <- e:
		return true
	case <-b.done:
		return false
	}
}

// C is the receive side consumed by the event loop.
func (b *Bus) C() <-chan Event {
	return b.ch
}

// Done is closed when the bus shuts down.
func (b *Bus) Done() <-chan struct{} {
	return b.done
}

// Close stops accepting events. Pending events stay readable from C.
func (b *Bus) Close() {
	b.once.Do(func() { close(b.done) })
}

// Handler reacts to one event on the event loop.
type Handler func(Event)

// Router fans events out to handlers registered per kind. It is not safe for
// concurrent use; dispatch happens on the event loop only.
type Router struct {
	handlers map[Kind][]Handler
	fallback []Handler
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{handlers: make(map[Kind][]Handler)}
}

// On registers fn for kind. Handlers run in registration order.
func (r *Router) On(kind Kind, fn Handler) {
	r.handlers[kind] = append(r.handlers[kind], fn)
}

// OnAny registers fn for every event, after the kind-specific handlers.
func (r *Router) OnAny(fn Handler) {
	r.fallback = append(r.fallback, fn)
}

// Dispatch delivers e and reports whether any kind-specific handler took it.
func (r *Router) Dispatch(e Event) bool {
	hs := r.handlers[e.Kind]
	for _, h := range hs {
		h(e)
	}
	for _, h := range r.fallback {
		h(e)
	}
	return len(hs) > 0
}
