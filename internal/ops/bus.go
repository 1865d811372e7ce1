package ops

import (
	"sync"
	"time"
)

// DefaultSubscriberBuffer is the per-subscriber ring capacity. A stalled
// render loop can fall this far behind before events start being dropped.
const DefaultSubscriberBuffer = 256

// Bus broadcasts events to any number of subscribers. Each subscriber owns
// an independent bounded buffer, so a slow consumer can never block a
// publisher: on overflow the oldest buffered event is discarded and the
// subscriber later reports the gap as a Lagged event.
type Bus struct {
	mu      sync.Mutex
	subs    map[*Subscriber]struct{}
	bufSize int
}

func NewBus() *Bus {
	return NewBusSize(DefaultSubscriberBuffer)
}

func NewBusSize(bufSize int) *Bus {
	if bufSize <= 0 {
		bufSize = DefaultSubscriberBuffer
	}
	return &Bus{
		subs:    make(map[*Subscriber]struct{}),
		bufSize: bufSize,
	}
}

// Subscribe registers a new receiver that sees every event published after
// this call.
func (b *Bus) Subscribe() *Subscriber {
	sub := &Subscriber{buf: make([]Event, b.bufSize)}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Unsubscribe detaches sub; already buffered events stay drainable.
func (b *Bus) Unsubscribe(sub *Subscriber) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
}

// Publish fans ev out to every live subscriber. It completes in bounded time
// regardless of whether any subscriber is draining.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	subs := make([]*Subscriber, 0, len(b.subs))
	for sub := range b.subs {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		sub.push(ev)
	}
}

// Subscriber is one bounded receive end of the bus. All methods are safe for
// concurrent use, but a subscriber is normally drained by a single consumer.
type Subscriber struct {
	mu      sync.Mutex
	buf     []Event
	head    int
	n       int
	dropped int
}

func (s *Subscriber) push(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.n == len(s.buf) {
		// Full: drop the oldest event and remember the gap.
		s.head = (s.head + 1) % len(s.buf)
		s.n--
		s.dropped++
	}
	s.buf[(s.head+s.n)%len(s.buf)] = ev
	s.n++
}

// TryNext returns the next buffered event without blocking. After an
// overflow it first returns a single Lagged event carrying the number of
// discarded events, then the surviving events in publication order.
func (s *Subscriber) TryNext() (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dropped > 0 {
		n := s.dropped
		s.dropped = 0
		return Event{Type: EventLagged, Dropped: n, Time: time.Now()}, true
	}
	if s.n == 0 {
		return Event{}, false
	}
	ev := s.buf[s.head]
	s.buf[s.head] = Event{}
	s.head = (s.head + 1) % len(s.buf)
	s.n--
	return ev, true
}

// Len reports how many events are currently buffered.
func (s *Subscriber) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}
