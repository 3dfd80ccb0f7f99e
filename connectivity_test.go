package goGate

import (
	"sync"
	"testing"
)

// manualSource drives the monitor by hand from tests.
type manualSource struct {
	mu           sync.Mutex
	listener     func(online bool)
	unsubscribed bool
}

func (s *manualSource) Subscribe(onChange func(online bool)) (unsubscribe func()) {
	s.mu.Lock()
	s.listener = onChange
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.unsubscribed = true
		s.listener = nil
		s.mu.Unlock()
	}
}

func (s *manualSource) emit(online bool) {
	s.mu.Lock()
	fn := s.listener
	s.mu.Unlock()
	if fn != nil {
		fn(online)
	}
}

func TestEdgeDetectorFiresOnceFromUnknown(t *testing.T) {
	var d edgeDetector

	samples := []bool{true, true, true}
	fired := 0
	for _, online := range samples {
		if d.Observe(online) {
			fired++
		}
	}
	if fired != 1 {
		t.Fatalf("expected exactly one edge from unknown, got %d", fired)
	}
}

func TestEdgeDetectorFiresPerOfflineOnlineCycle(t *testing.T) {
	var d edgeDetector

	if !d.Observe(true) {
		t.Fatal("first online sample must fire")
	}
	if d.Observe(false) {
		t.Fatal("going offline must not fire")
	}
	if !d.Observe(true) {
		t.Fatal("offline to online must fire")
	}
	if d.Observe(true) {
		t.Fatal("repeated online must not fire")
	}
}

func TestReconnectMonitorCallbackCount(t *testing.T) {
	source := &manualSource{}
	fired := 0
	m := NewReconnectMonitor(source, func() { fired++ })
	defer m.Stop()

	for _, online := range []bool{true, true, false, true, true, false, false, true} {
		source.emit(online)
	}
	if fired != 3 {
		t.Fatalf("expected 3 reconnect edges, got %d", fired)
	}
}

func TestReconnectMonitorStop(t *testing.T) {
	source := &manualSource{}
	fired := 0
	m := NewReconnectMonitor(source, func() { fired++ })

	source.emit(true)
	m.Stop()
	m.Stop()

	source.mu.Lock()
	unsubscribed := source.unsubscribed
	source.mu.Unlock()
	if !unsubscribed {
		t.Fatal("Stop must unsubscribe from the source")
	}

	// A straggler notification after Stop must not fire the callback.
	m.observe(false)
	m.observe(true)
	if fired != 1 {
		t.Fatalf("expected callbacks frozen after Stop, fired=%d", fired)
	}
}
