package messaging

import (
	"errors"
	"fmt"
	"sync"
)

var ErrSubscriberFull = errors.New("subscriber channel is full")

// SimpleBroker implements the Broker interface.
// subscribers maps a subscriber name to the channel it reads events from.
type SimpleBroker struct {
	subscribers map[string]chan<- Event
	mu          sync.RWMutex
}

func NewBroker() *SimpleBroker {
	return &SimpleBroker{
		subscribers: make(map[string]chan<- Event),
	}
}

// Publish delivers ev to every subscriber without blocking. Subscribers whose
// channel is full miss the event; they are reported together in the error.
func (b *SimpleBroker) Publish(ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var errs []error
	for name, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			errs = append(errs, fmt.Errorf("%w: %s missed step %d", ErrSubscriberFull, name, ev.Step))
		}
	}
	return errors.Join(errs...)
}

func (b *SimpleBroker) Subscribe(name string, ch chan<- Event) error {
	if ch == nil {
		return fmt.Errorf("subscriber %s has a nil channel", name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[name]; exists {
		return fmt.Errorf("%s is already subscribed", name)
	}
	b.subscribers[name] = ch
	return nil
}

func (b *SimpleBroker) Unsubscribe(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[name]; !exists {
		return fmt.Errorf("%s is not subscribed", name)
	}
	delete(b.subscribers, name)
	return nil
}

func (b *SimpleBroker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = make(map[string]chan<- Event)
}
