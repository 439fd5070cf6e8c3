package messaging

import (
	"errors"
	"testing"
	"time"

	"github.com/boristopalov/keydoor/pkg/core"
)

func TestBroker(t *testing.T) {
	t.Run("test broadcast event", func(t *testing.T) {
		broker := NewBroker()
		t.Cleanup(func() {
			broker.Reset()
		})
		ch1 := make(chan Event, 1)
		ch2 := make(chan Event, 1)

		if err := broker.Subscribe("render", ch1); err != nil {
			t.Fatalf("Failed to subscribe render: %v", err)
		}
		if err := broker.Subscribe("milestones", ch2); err != nil {
			t.Fatalf("Failed to subscribe milestones: %v", err)
		}

		ev := Event{
			EpisodeID: "episode-1",
			Step:      4,
			Action:    core.PickUpKey,
			HasKey:    true,
			Timestamp: time.Now(),
		}
		if err := broker.Publish(ev); err != nil {
			t.Fatalf("Failed to publish event: %v", err)
		}

		for name, ch := range map[string]chan Event{"render": ch1, "milestones": ch2} {
			select {
			case received := <-ch:
				if received.Step != 4 || received.Action != core.PickUpKey || !received.HasKey {
					t.Errorf("%s received unexpected event: %+v", name, received)
				}
			case <-time.After(time.Second):
				t.Errorf("Timeout waiting for event on %s", name)
			}
		}
	})

	t.Run("test full subscriber", func(t *testing.T) {
		broker := NewBroker()
		t.Cleanup(func() {
			broker.Reset()
		})
		full := make(chan Event) // unbuffered and never read
		open := make(chan Event, 1)

		if err := broker.Subscribe("full", full); err != nil {
			t.Fatalf("Failed to subscribe: %v", err)
		}
		if err := broker.Subscribe("open", open); err != nil {
			t.Fatalf("Failed to subscribe: %v", err)
		}

		err := broker.Publish(Event{Step: 1})
		if !errors.Is(err, ErrSubscriberFull) {
			t.Fatalf("Publish() error = %v, want ErrSubscriberFull", err)
		}

		// Other subscribers still get the event.
		select {
		case <-open:
		default:
			t.Error("open subscriber did not receive the event")
		}
	})

	t.Run("test subscription errors", func(t *testing.T) {
		broker := NewBroker()
		t.Cleanup(func() {
			broker.Reset()
		})
		ch := make(chan Event, 1)

		if err := broker.Subscribe("a", ch); err != nil {
			t.Fatalf("First subscription failed: %v", err)
		}
		if err := broker.Subscribe("a", ch); err == nil {
			t.Error("Expected error on duplicate subscription")
		}
		if err := broker.Subscribe("b", nil); err == nil {
			t.Error("Expected error on nil channel")
		}
		if err := broker.Unsubscribe("missing"); err == nil {
			t.Error("Expected error unsubscribing an unknown name")
		}
	})

	t.Run("test unsubscribe", func(t *testing.T) {
		broker := NewBroker()
		ch := make(chan Event, 1)

		if err := broker.Subscribe("a", ch); err != nil {
			t.Fatalf("Failed to subscribe: %v", err)
		}
		if err := broker.Unsubscribe("a"); err != nil {
			t.Fatalf("Failed to unsubscribe: %v", err)
		}
		if err := broker.Subscribe("a", ch); err != nil {
			t.Errorf("Resubscribing after Unsubscribe failed: %v", err)
		}
		if err := broker.Unsubscribe("a"); err != nil {
			t.Fatalf("Failed to unsubscribe: %v", err)
		}

		if err := broker.Publish(Event{Step: 1}); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		select {
		case ev := <-ch:
			t.Errorf("Unsubscribed channel received %+v", ev)
		case <-time.After(100 * time.Millisecond):
			// This is expected
		}
	})

	t.Run("test reset", func(t *testing.T) {
		broker := NewBroker()
		ch := make(chan Event, 1)
		broker.Subscribe("a", ch)
		broker.Reset()

		if err := broker.Publish(Event{Step: 1}); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		select {
		case ev := <-ch:
			t.Errorf("Channel received %+v after Reset()", ev)
		default:
		}
		if err := broker.Unsubscribe("a"); err == nil {
			t.Error("Expected error unsubscribing after Reset()")
		}
	})
}
