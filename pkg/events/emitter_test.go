package events_test

import (
	"testing"

	"github.com/loomkit/loom/pkg/events"
)

func TestEmitInSubscriptionOrder(t *testing.T) {
	e := events.New()

	var order []string
	e.On("save", func(any) { order = append(order, "first") })
	e.On("save", func(any) { order = append(order, "second") })
	e.On("save", func(any) { order = append(order, "third") })

	e.Emit("save", nil)

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), order)
	}
	for i, name := range want {
		if order[i] != name {
			t.Errorf("position %d: expected %s, got %s", i, name, order[i])
		}
	}
}

func TestEmitPayload(t *testing.T) {
	e := events.New()

	var got any
	e.On("score", func(payload any) { got = payload })
	e.Emit("score", 42)

	if got != 42 {
		t.Errorf("expected payload 42, got %v", got)
	}
}

func TestOnceSelfRemovesBeforeInvocation(t *testing.T) {
	e := events.New()

	calls := 0
	e.Once("boot", func(any) {
		calls++
		// The subscription is already gone while the listener runs.
		if n := e.ListenerCount("boot"); n != 0 {
			t.Errorf("expected 0 listeners during once invocation, got %d", n)
		}
	})

	e.Emit("boot", nil)
	e.Emit("boot", nil)

	if calls != 1 {
		t.Errorf("expected exactly 1 call, got %d", calls)
	}
}

func TestOffIsIdempotentNoop(t *testing.T) {
	e := events.New()

	calls := 0
	sub := e.On("tick", func(any) { calls++ })
	sub.Remove()
	sub.Remove() // second removal is a silent no-op

	// Removing a foreign emitter's subscription must not disturb ours.
	other := events.New()
	keep := e.On("tick", func(any) { calls++ })
	other.Off(keep)
	other.Off(nil)

	e.Emit("tick", nil)
	if calls != 1 {
		t.Errorf("expected only the live listener to fire, got %d calls", calls)
	}
}

func TestFailFastHaltsRemainingListeners(t *testing.T) {
	e := events.New()

	ran := []string{}
	e.On("ev", func(any) { ran = append(ran, "a") })
	e.On("ev", func(any) { panic("listener b failed") })
	e.On("ev", func(any) { ran = append(ran, "c") })

	defer func() {
		if recover() == nil {
			t.Fatal("expected the listener panic to propagate")
		}
		if len(ran) != 1 || ran[0] != "a" {
			t.Errorf("expected only listener a to have run, got %v", ran)
		}
	}()
	e.Emit("ev", nil)
}

func TestErrorHandlerIsolatesListeners(t *testing.T) {
	var caughtEvent string
	var caught any
	e := events.New(events.WithErrorHandler(func(event string, recovered any) {
		caughtEvent = event
		caught = recovered
	}))

	ran := []string{}
	e.On("ev", func(any) { ran = append(ran, "a") })
	e.On("ev", func(any) { panic("listener b failed") })
	e.On("ev", func(any) { ran = append(ran, "c") })

	e.Emit("ev", nil)

	if len(ran) != 2 || ran[0] != "a" || ran[1] != "c" {
		t.Errorf("expected listeners a and c to run, got %v", ran)
	}
	if caughtEvent != "ev" || caught != "listener b failed" {
		t.Errorf("expected handler to receive the panic, got event=%q value=%v", caughtEvent, caught)
	}
}

func TestReentrantSubscribeDuringEmit(t *testing.T) {
	e := events.New()

	calls := 0
	e.On("ev", func(any) {
		// Subscribing mid-emission must not affect this emission.
		e.On("ev", func(any) { calls += 100 })
	})
	e.On("ev", func(any) { calls++ })

	e.Emit("ev", nil)
	if calls != 1 {
		t.Errorf("listener added during emission must not fire in it, calls=%d", calls)
	}

	e.Emit("ev", nil)
	if calls != 102 {
		t.Errorf("listener added during first emission should fire in the second, calls=%d", calls)
	}
}

func TestIntrospection(t *testing.T) {
	e := events.New()
	e.On("a", func(any) {})
	e.On("a", func(any) {})
	sub := e.On("b", func(any) {})

	if n := e.ListenerCount("a"); n != 2 {
		t.Errorf("ListenerCount(a) = %d, want 2", n)
	}
	if n := e.ListenerCount("missing"); n != 0 {
		t.Errorf("ListenerCount(missing) = %d, want 0", n)
	}

	names := e.EventNames()
	if len(names) != 2 {
		t.Errorf("EventNames = %v, want two entries", names)
	}

	sub.Remove()
	if n := e.ListenerCount("b"); n != 0 {
		t.Errorf("ListenerCount(b) after removal = %d, want 0", n)
	}
}
