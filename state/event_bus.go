package state

import (
	"sync"
)

type EventPublisher interface {
	Publish(any)
}

type EventSubscriber interface {
	Subscribe(chan any)
	Unsubscribe(chan any)
}

var _ EventPublisher = (*EventBus)(nil)
var _ EventSubscriber = (*EventBus)(nil)

type nullEventPublisher struct{}

func (_ nullEventPublisher) Publish(any) {}

var NullEventPublisher = nullEventPublisher{}

// EventBus fans events out to subscribed channels. Publish never blocks, a
// subscriber whose channel is full misses the event.
type EventBus struct {
	lock     sync.RWMutex
	channels map[chan any]struct{}
}

func NewEventBus() *EventBus {
	return &EventBus{
		channels: map[chan any]struct{}{},
	}
}

func (b *EventBus) Subscribe(ch chan any) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.channels[ch] = struct{}{}
}

func (b *EventBus) Unsubscribe(ch chan any) {
	b.lock.Lock()
	defer b.lock.Unlock()

	delete(b.channels, ch)
}

func (b *EventBus) Publish(e any) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	for ch := range b.channels {
		select {
		case ch <- e:
		default:
		}
	}
}
