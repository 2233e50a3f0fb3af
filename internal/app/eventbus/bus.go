/*
Package eventbus relays inbound frames from the connection to any number of consumers.

The Bus owns no domain state, only subscriber registrations. It is a live relay:
nothing is queued or replayed for a subscriber that registers late.
*/
package eventbus

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"chatsync/internal/pkg/logx"
)

// Handler consumes one published value. A returned error is logged by the bus
// and never stops delivery to the other subscribers.
type Handler[T any] func(T) error

// Bus fans each published value out to every current subscriber.
// Publications are serialized, so every subscriber sees values in publish order
// and one value is fully delivered before the next begins.
// Handlers must not call Publish on the bus that is delivering to them.
type Bus[T any] struct {
	// deliverMu serializes Publish calls.
	deliverMu sync.Mutex

	// mu protects subs and nextID.
	mu     sync.RWMutex
	subs   []*Subscription[T]
	nextID uint64

	logger zerolog.Logger
}

// Subscription is the handle returned by Subscribe.
type Subscription[T any] struct {
	id      uint64
	bus     *Bus[T]
	handler Handler[T]
	active  atomic.Bool
}

// New constructs an empty Bus. name tags the bus logger.
func New[T any](name string) *Bus[T] {
	return &Bus[T]{
		logger: logx.Logger().With().
			Str("component", "EventBus").
			Str("bus", name).
			Logger(),
	}
}

// Subscribe registers fn for every value published from now on.
func (b *Bus[T]) Subscribe(fn Handler[T]) *Subscription[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription[T]{id: b.nextID, bus: b, handler: fn}
	sub.active.Store(true)
	b.subs = append(b.subs, sub)

	b.logger.Debug().Uint64("subscription_id", sub.id).Int("subscribers", len(b.subs)).Msg("Subscriber registered.")
	return sub
}

// Publish delivers v to all current subscribers and returns how many handlers ran.
func (b *Bus[T]) Publish(v T) int {
	b.deliverMu.Lock()
	defer b.deliverMu.Unlock()

	b.mu.RLock()
	subs := make([]*Subscription[T], len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	delivered := 0
	for _, sub := range subs {
		// A handle dropped while this value is in flight gets nothing further.
		if !sub.active.Load() {
			continue
		}
		delivered++

		if err := sub.invoke(v); err != nil {
			b.logger.Warn().
				Err(err).
				Uint64("subscription_id", sub.id).
				Msg("Subscriber failed to handle published value. Continuing delivery.")
		}
	}

	return delivered
}

// Len returns the number of registered subscribers.
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus[T]) remove(sub *Subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			break
		}
	}

	b.logger.Debug().Uint64("subscription_id", sub.id).Int("subscribers", len(b.subs)).Msg("Subscriber removed.")
}

// invoke runs the handler, converting a panic into an error.
func (s *Subscription[T]) invoke(v T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panic: %v", r)
		}
	}()

	return s.handler(v)
}

// ID returns the identifier of the subscription, unique within its bus.
func (s *Subscription[T]) ID() uint64 { return s.id }

// Active reports whether the subscription still receives values.
func (s *Subscription[T]) Active() bool { return s.active.Load() }

// Unsubscribe stops delivery to the handler. It is safe to call more than once
// and from inside the handler itself.
func (s *Subscription[T]) Unsubscribe() {
	if !s.active.CompareAndSwap(true, false) {
		return
	}
	s.bus.remove(s)
}
