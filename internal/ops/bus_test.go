package ops

import (
	"fmt"
	"testing"
	"time"
)

func progressEvent(id OperationID, text string) Event {
	return Event{ID: id, Kind: KindAIAnalysis, Type: EventProgress, Text: text, Time: time.Now()}
}

func TestBusFanout(t *testing.T) {
	bus := NewBus()
	first := bus.Subscribe()
	second := bus.Subscribe()

	bus.Publish(progressEvent("op-1", "working"))

	for name, sub := range map[string]*Subscriber{"first": first, "second": second} {
		ev, ok := sub.TryNext()
		if !ok {
			t.Fatalf("%s subscriber received nothing", name)
		}
		if ev.ID != "op-1" || ev.Text != "working" {
			t.Errorf("%s subscriber got %+v", name, ev)
		}
	}
}

func TestTryNextEmpty(t *testing.T) {
	sub := NewBus().Subscribe()
	if ev, ok := sub.TryNext(); ok {
		t.Fatalf("expected no event, got %+v", ev)
	}
}

func TestBusOverflowEmitsLagged(t *testing.T) {
	bus := NewBusSize(4)
	sub := bus.Subscribe()

	published := 10
	for i := 0; i < published; i++ {
		bus.Publish(progressEvent("op-1", fmt.Sprintf("step %d", i)))
	}

	ev, ok := sub.TryNext()
	if !ok || ev.Type != EventLagged {
		t.Fatalf("expected lagged marker first, got %+v ok=%v", ev, ok)
	}
	if ev.Dropped != published-4 {
		t.Errorf("expected %d dropped, got %d", published-4, ev.Dropped)
	}

	// Survivors are the newest events, still in publication order.
	want := []string{"step 6", "step 7", "step 8", "step 9"}
	for _, text := range want {
		ev, ok := sub.TryNext()
		if !ok {
			t.Fatalf("missing survivor %q", text)
		}
		if ev.Text != text {
			t.Errorf("expected %q, got %q", text, ev.Text)
		}
	}
	if _, ok := sub.TryNext(); ok {
		t.Error("buffer should be drained")
	}
}

func TestBusAccountingUnderStall(t *testing.T) {
	bus := NewBusSize(8)
	sub := bus.Subscribe()

	published := 50
	for i := 0; i < published; i++ {
		bus.Publish(progressEvent("op-1", fmt.Sprintf("step %d", i)))
	}

	delivered := 0
	dropped := 0
	last := -1
	for {
		ev, ok := sub.TryNext()
		if !ok {
			break
		}
		if ev.Type == EventLagged {
			dropped += ev.Dropped
			continue
		}
		var n int
		if _, err := fmt.Sscanf(ev.Text, "step %d", &n); err != nil {
			t.Fatalf("unexpected event text %q", ev.Text)
		}
		if n <= last {
			t.Fatalf("events out of order or duplicated: %d after %d", n, last)
		}
		last = n
		delivered++
	}
	if delivered+dropped != published {
		t.Errorf("delivered %d + dropped %d != published %d", delivered, dropped, published)
	}
}

func TestSubscriberLen(t *testing.T) {
	bus := NewBusSize(4)
	sub := bus.Subscribe()

	if sub.Len() != 0 {
		t.Fatalf("fresh subscriber Len = %d", sub.Len())
	}
	for i := 0; i < 3; i++ {
		bus.Publish(progressEvent("op-1", fmt.Sprintf("step %d", i)))
	}
	if sub.Len() != 3 {
		t.Errorf("Len = %d, want 3", sub.Len())
	}
	sub.TryNext()
	if sub.Len() != 2 {
		t.Errorf("Len after TryNext = %d, want 2", sub.Len())
	}

	// Overflow keeps Len at capacity; the dropped count is separate.
	for i := 0; i < 10; i++ {
		bus.Publish(progressEvent("op-1", "flood"))
	}
	if sub.Len() != 4 {
		t.Errorf("Len after overflow = %d, want 4", sub.Len())
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	bus := NewBusSize(4)
	bus.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			bus.Publish(progressEvent("op-1", "flood"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publish blocked on a stalled subscriber")
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	bus.Unsubscribe(sub)
	bus.Publish(progressEvent("op-1", "after detach"))
	if ev, ok := sub.TryNext(); ok {
		t.Fatalf("detached subscriber received %+v", ev)
	}
}

func TestPerOperationOrderingAcrossInterleaving(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()

	for i := 0; i < 5; i++ {
		bus.Publish(progressEvent("op-a", fmt.Sprintf("a%d", i)))
		bus.Publish(progressEvent("op-b", fmt.Sprintf("b%d", i)))
	}

	var gotA, gotB []string
	for {
		ev, ok := sub.TryNext()
		if !ok {
			break
		}
		switch ev.ID {
		case "op-a":
			gotA = append(gotA, ev.Text)
		case "op-b":
			gotB = append(gotB, ev.Text)
		}
	}
	for i, texts := range [][]string{gotA, gotB} {
		if len(texts) != 5 {
			t.Fatalf("stream %d: expected 5 events, got %v", i, texts)
		}
	}
	for i := 0; i < 5; i++ {
		if gotA[i] != fmt.Sprintf("a%d", i) || gotB[i] != fmt.Sprintf("b%d", i) {
			t.Fatalf("per-operation order violated: %v / %v", gotA, gotB)
		}
	}
}
