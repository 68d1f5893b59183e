package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_RoutesEventsBySession(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	a := &Client{hub: hub, send: make(chan []byte, 4), session: "a"}
	b := &Client{hub: hub, send: make(chan []byte, 4), session: "b"}
	hub.Register(a)
	hub.Register(b)
	waitFor(t, func() bool { return hub.ClientCount() == 2 })

	hub.Notify("a", "candidates_changed", map[string]string{"deleted": "r1"})

	select {
	case raw := <-a.send:
		var evt Event
		if err := json.Unmarshal(raw, &evt); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if evt.Type != "candidates_changed" || evt.Timestamp == "" {
			t.Fatalf("unexpected event: %+v", evt)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected event for session a")
	}

	select {
	case raw := <-b.send:
		t.Fatalf("session b got %s", raw)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	c := &Client{hub: hub, send: make(chan []byte, 1), session: "a"}
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	hub.Unregister(c)
	waitFor(t, func() bool { return hub.ClientCount() == 0 })

	if _, ok := <-c.send; ok {
		t.Fatalf("expected send channel closed")
	}
}

func TestHub_NilIsSafe(t *testing.T) {
	var hub *Hub
	hub.Notify("a", "x", nil)
	hub.Register(nil)
	if hub.ClientCount() != 0 {
		t.Fatalf("expected zero clients")
	}
}

func TestHub_CallsAfterStopDoNotBlock(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	finished := make(chan struct{})
	late := &Client{hub: hub, send: make(chan []byte, 1), session: "a"}
	go func() {
		for i := 0; i < 300; i++ {
			hub.Unregister(&Client{hub: hub, send: make(chan []byte, 1), session: "a"})
		}
		hub.Register(late)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("register/unregister blocked after hub stopped")
	}
	if _, ok := <-late.send; ok {
		t.Fatalf("expected late client send closed")
	}
}
