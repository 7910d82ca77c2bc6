package eventbus

import "testing"

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Publish("started")
	if v := <-ch; v != "started" {
		t.Fatalf("expected started got %v", v)
	}
	bus.Unsubscribe(ch)
}

func TestBusSlowTapDropsInsteadOfBlocking(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	for i := 0; i < tapBuffer+5; i++ {
		bus.Publish(i)
	}
	// The tap keeps the first tapBuffer events, later ones are gone.
	for i := 0; i < tapBuffer; i++ {
		if v := <-ch; v != i {
			t.Fatalf("event %d: got %v", i, v)
		}
	}
	select {
	case v := <-ch:
		t.Fatalf("unexpected buffered event %v", v)
	default:
	}
}

func TestBusClose(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatal("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatal("expected ch2 closed")
	}
	if _, ok := <-bus.Subscribe(); ok {
		t.Fatal("subscribe after close should return a closed channel")
	}
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}
