package goGate

import "sync"

// ConnectivitySource is the platform connectivity signal consumed by the
// reconnect monitor. Subscribe registers a listener for connectivity updates
// and returns an unsubscribe function. Sources may re-emit the same state
// repeatedly; the monitor deduplicates.
type ConnectivitySource interface {
	Subscribe(onChange func(online bool)) (unsubscribe func())
}

// edgeState tracks the one bit of prior-state memory the monitor keeps.
type edgeState uint8

const (
	edgeUnknown edgeState = iota
	edgeOffline
	edgeOnline
)

// edgeDetector is the deterministic transition function behind the monitor:
// it fires only on the unknown/offline -> online edge, never on repeated
// "online" notifications.
type edgeDetector struct {
	state edgeState
}

// Observe feeds one connectivity sample and reports whether the reconnect
// edge fired.
func (d *edgeDetector) Observe(online bool) bool {
	prev := d.state
	if online {
		d.state = edgeOnline
		return prev != edgeOnline
	}
	d.state = edgeOffline
	return false
}

// ReconnectMonitor watches a ConnectivitySource and invokes its callback on
// each offline->online transition. Stop is idempotent; once it returns, no
// callback is running and none will fire again.
type ReconnectMonitor struct {
	mu       sync.Mutex
	detector edgeDetector
	onEdge   func()
	cancel   func()
	stopped  bool
}

// NewReconnectMonitor subscribes to source and fires onReconnect on every
// offline->online edge. The initial state is unknown, so a source that starts
// online fires once immediately on its first notification.
func NewReconnectMonitor(source ConnectivitySource, onReconnect func()) *ReconnectMonitor {
	m := &ReconnectMonitor{onEdge: onReconnect}
	m.cancel = source.Subscribe(m.observe)
	return m
}

// observe runs the callback while holding the lock: Stop acquires the same
// lock, so after Stop returns no in-flight callback can still be running.
func (m *ReconnectMonitor) observe(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return
	}
	if m.detector.Observe(online) && m.onEdge != nil {
		m.onEdge()
	}
}

// Stop unsubscribes from the source and suppresses all future callbacks.
// Safe to call multiple times.
func (m *ReconnectMonitor) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
