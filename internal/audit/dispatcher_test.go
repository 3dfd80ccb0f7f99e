package audit

import (
	"context"
	"testing"
	"time"
)

func TestDispatcherDeliversToSink(t *testing.T) {
	sink := NewChannelSink(8)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 8, DropIfFull: true}, sink)

	d.Emit(context.Background(), Event{EventType: "auth_set", Success: true})

	select {
	case ev := <-sink.Events():
		if ev.EventType != "auth_set" || !ev.Success {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}

	d.Close()
}

func TestDispatcherCloseDrains(t *testing.T) {
	sink := NewChannelSink(16)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 16, DropIfFull: true}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), Event{EventType: "logout"})
	}
	d.Close()

	for i := 0; i < 5; i++ {
		select {
		case <-sink.Events():
		case <-time.After(2 * time.Second):
			t.Fatalf("event %d lost on close", i)
		}
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	// An unread ChannelSink of size 1 stalls the run loop after the first
	// event, so subsequent emits overflow the dispatcher buffer.
	sink := NewChannelSink(1)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	for i := 0; i < 50; i++ {
		d.Emit(context.Background(), Event{EventType: "profile_fetch"})
	}

	if d.Dropped() == 0 {
		t.Fatal("expected dropped events")
	}

	go func() {
		for range sink.Events() {
		}
	}()
	d.Close()
}

func TestDispatcherDisabled(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, NewChannelSink(1))
	if d != nil {
		t.Fatal("disabled config must yield a nil dispatcher")
	}

	// All operations on the nil dispatcher are no-ops.
	d.Emit(context.Background(), Event{EventType: "x"})
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher must report zero drops")
	}
	d.Close()
}

func TestDispatcherCloseIdempotent(t *testing.T) {
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, NoOpSink{})
	d.Close()
	d.Close()

	// Emit after close is dropped silently.
	d.Emit(context.Background(), Event{EventType: "x"})
}
