package events

import (
	"testing"
	"time"
)

func TestNewEvent(t *testing.T) {
	before := time.Now()
	e := New(NodeCreated, map[string]any{"nodeId": "abc"})

	if e.Type != NodeCreated {
		t.Errorf("Type = %q, want %q", e.Type, NodeCreated)
	}
	if e.Timestamp.Before(before) {
		t.Error("timestamp not set")
	}
	if e.Payload["nodeId"] != "abc" {
		t.Errorf("payload lost: %+v", e.Payload)
	}
}

func TestBusFanOut(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	a := bus.Subscribe()
	b := bus.Subscribe()

	bus.Emit(New(DiscoveryStart, nil))

	for _, ch := range []<-chan Event{a, b} {
		select {
		case e := <-ch:
			if e.Type != DiscoveryStart {
				t.Errorf("got %q, want %q", e.Type, DiscoveryStart)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestBusEmitNeverBlocks(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	bus.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < defaultBuffer*2; i++ {
			bus.Emit(New(Visiting, nil))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked on a slow subscriber")
	}

	if bus.Dropped() == 0 {
		t.Error("expected drops once the buffer filled")
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch := bus.Subscribe()
	bus.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Error("unsubscribed channel must be closed")
	}

	// Emitting after unsubscribe must not panic.
	bus.Emit(New(DiscoveryComplete, nil))
}

func TestBusClose(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe()
	bus.Close()

	if _, ok := <-ch; ok {
		t.Error("close must close subscriber channels")
	}

	// Subscribe after close yields a closed channel, not a leak.
	late := bus.Subscribe()
	if _, ok := <-late; ok {
		t.Error("post-close subscription must be closed")
	}

	bus.Emit(New(DiscoveryError, nil))
	bus.Close()
}

func TestSinkAdapters(t *testing.T) {
	var got Event
	sink := Func(func(e Event) { got = e })
	sink.Emit(New(AppTypeDetected, map[string]any{"appType": "react"}))
	if got.Type != AppTypeDetected {
		t.Errorf("Func sink did not capture event: %+v", got)
	}

	Discard{}.Emit(New(DiscoveryStart, nil))
}
