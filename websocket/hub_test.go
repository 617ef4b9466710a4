package websocket

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Hub:    hub,
		UserID: 1,
		Send:   make(chan []byte, 10),
	}

	hub.register <- client

	hub.Notify(Event{
		Type:        "booking_created",
		BookingID:   42,
		BookingCode: "FH-ABC-123456",
		Status:      "waiting_payment",
	})

	select {
	case data := <-client.Send:
		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		if event.Type != "booking_created" || event.BookingID != 42 {
			t.Errorf("unexpected event: %+v", event)
		}
		if event.Timestamp.IsZero() {
			t.Error("timestamp should be filled in by Notify")
		}
	case <-time.After(time.Second):
		t.Fatal("no event received within 1s")
	}

	hub.unregister <- client

	select {
	case _, ok := <-client.Send:
		if ok {
			t.Error("send channel should be closed after unregister")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed within 1s")
	}
}

func TestNotifyDropsWhenSaturated(t *testing.T) {
	// Hub loop intentionally not running; the buffered channel fills up
	hub := NewHub()

	for i := 0; i < 100; i++ {
		hub.Notify(Event{Type: "payment_submitted"})
	}
	// No deadlock means the overflow was dropped
}
