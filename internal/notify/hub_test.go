package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func recvFrame(t *testing.T, ch chan []byte) Envelope {
	t.Helper()
	select {
	case frame := <-ch:
		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("invalid frame: %v", err)
		}
		return env
	case <-time.After(2 * time.Second):
		t.Fatalf("no frame received")
		return Envelope{}
	}
}

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	a := &Client{hub: hub, send: make(chan []byte, 4)}
	b := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.register <- a
	hub.register <- b

	hub.Publish("new_incident_reported", map[string]string{"id": "abc"})

	for _, c := range []*Client{a, b} {
		env := recvFrame(t, c.send)
		if env.Event != "new_incident_reported" {
			t.Fatalf("unexpected event %q", env.Event)
		}
		var data map[string]string
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("invalid data: %v", err)
		}
		if data["id"] != "abc" {
			t.Fatalf("unexpected data %v", data)
		}
	}
}

func TestHub_LateSubscriberMissesEarlierEvents(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	early := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.register <- early

	hub.Publish("incident_deleted", map[string]string{"id": "gone"})
	recvFrame(t, early.send)

	late := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.register <- late

	select {
	case frame := <-late.send:
		t.Fatalf("late subscriber saw replayed frame: %s", frame)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_PayloadIsSnapshot(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	c := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.register <- c

	payload := map[string]string{"status": "pending"}
	hub.Publish("incident_status_updated", payload)
	payload["status"] = "resolved" // mutate after publish

	env := recvFrame(t, c.send)
	var data map[string]string
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("invalid data: %v", err)
	}
	if data["status"] != "pending" {
		t.Fatalf("frame reflects post-publish mutation: %v", data)
	}
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	c := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.register <- c
	hub.unregister <- c

	if _, ok := <-c.send; ok {
		t.Fatalf("expected send channel closed on unregister")
	}
}
