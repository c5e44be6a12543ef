package notify

import (
	"testing"

	"github.com/trialmatch/backend/internal/domain"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus()

	var first, second []Event
	bus.Subscribe(func(e Event) { first = append(first, e) })
	bus.Subscribe(func(e Event) { second = append(second, e) })

	bus.Publish(Event{Type: EventAdded, Matches: []domain.Trial{{ID: "NCT001"}}})

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("handlers received %d and %d events, want 1 each", len(first), len(second))
	}
	if first[0].Type != EventAdded || len(first[0].Matches) != 1 {
		t.Errorf("event = %+v", first[0])
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()

	var got []Event
	unsubscribe := bus.Subscribe(func(e Event) { got = append(got, e) })

	bus.Publish(Event{Type: EventAdded})
	unsubscribe()
	bus.Publish(Event{Type: EventCleared})

	if len(got) != 1 || got[0].Type != EventAdded {
		t.Fatalf("got %v, want only the event before unsubscribe", got)
	}

	// A second call is harmless.
	unsubscribe()
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	bus.Publish(Event{Type: EventRefresh})
}
