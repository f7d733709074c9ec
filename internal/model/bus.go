package model

import (
	"sync"
	"sync/atomic"
	"time"
)

const defaultMailbox = 256

// Update is one committed change to a model field.
type Update struct {
	Field Field
	Value Value
	Time  time.Time
}

// Subscription is a per-subscriber mailbox. The subscriber's own
// goroutine drains C; a full mailbox never blocks the writer, the update
// is dropped for that subscriber instead.
type Subscription struct {
	C <-chan Update

	bus     *Bus
	ch      chan Update
	fields  map[Field]struct{} // nil means every field
	dropped atomic.Uint64
	once    sync.Once
}

// Dropped reports how many updates were discarded because the mailbox
// was full.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Close detaches the subscription and closes its channel. Safe to call
// more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.remove(s)
		close(s.ch)
	})
}

func (s *Subscription) wants(f Field) bool {
	if s.fields == nil {
		return true
	}
	_, ok := s.fields[f]

	return ok
}

// Bus delivers updates from whichever goroutine committed them to every
// subscriber mailbox. Updates to a single field are delivered in commit
// order because each field has exactly one writer.
type Bus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a mailbox for the given fields; no fields means
// every field. buffer <= 0 selects the default mailbox size.
func (b *Bus) Subscribe(buffer int, fields ...Field) *Subscription {
	if buffer <= 0 {
		buffer = defaultMailbox
	}

	sub := &Subscription{
		bus: b,
		ch:  make(chan Update, buffer),
	}
	sub.C = sub.ch

	if len(fields) > 0 {
		sub.fields = make(map[Field]struct{}, len(fields))
		for _, f := range fields {
			sub.fields[f] = struct{}{}
		}
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Publish fans the update out without blocking the caller.
func (b *Bus) Publish(u Update) {
	if u.Time.IsZero() {
		u.Time = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		if !sub.wants(u.Field) {
			continue
		}
		select {
		case sub.ch <- u:
		default:
			sub.dropped.Add(1)
		}
	}
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
}
