package events

import (
	"testing"
	"time"
)

func TestHubPublish(t *testing.T) {
	h := NewEventHub()
	ch, unsubscribe := h.Subscribe()
	defer unsubscribe()

	h.Publish(CalibrationRead, CalibrationReadEvent{Path: "metadata", Result: "ok", Ts: 42})

	select {
	case ev := <-ch:
		if ev.Name != CalibrationRead {
			t.Fatalf("unexpected event name %q", ev.Name)
		}
		payload, err := DecodeAs[CalibrationReadEvent](ev)
		if err != nil {
			t.Fatalf("DecodeAs failed: %v", err)
		}
		if payload.Path != "metadata" || payload.Result != "ok" || payload.Ts != 42 {
			t.Fatalf("unexpected payload %+v", payload)
		}
	case <-time.After(time.Second):
		t.Fatalf("no event received")
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := NewEventHub()
	ch, unsubscribe := h.Subscribe()
	if h.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", h.Subscribers())
	}
	unsubscribe()
	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed")
	}
	// Unsubscribing twice is a no-op.
	unsubscribe()
	if h.Subscribers() != 0 {
		t.Fatalf("expected no subscriber, got %d", h.Subscribers())
	}
}

func TestHubDropsForSlowSubscribers(t *testing.T) {
	h := NewEventHub()
	ch, unsubscribe := h.Subscribe()
	defer unsubscribe()

	for i := 0; i < 100; i++ {
		h.Publish(CalibrationRead, CalibrationReadEvent{Ts: int64(i)})
	}
	if len(ch) != cap(ch) {
		t.Fatalf("expected a full buffer, got %d/%d", len(ch), cap(ch))
	}
}

func TestNilHubPublish(t *testing.T) {
	var h *EventHub
	h.Publish(CalibrationRead, nil)
}

func TestDecodeAsEmpty(t *testing.T) {
	payload, err := DecodeAs[CalibrationReadEvent](Event{Name: CalibrationRead})
	if err != nil || payload.Path != "" {
		t.Fatalf("unexpected result %+v, %v", payload, err)
	}
}
