package goGate

import (
	"io"

	"github.com/MrEthical07/goGate/profile"
	"github.com/MrEthical07/goGate/vault"

	internalaudit "github.com/MrEthical07/goGate/internal/audit"
)

// TokenPair is the opaque access/refresh credential pair issued by the
// authentication backend. Both fields are mandatory; the pair is persisted and
// loaded as one atomic unit.
type TokenPair = vault.Pair

// UserProfile is the authoritative user record fetched from the remote
// backend. It is never reconstructed from the token itself: verification and
// onboarding state can change server-side without a new token.
type UserProfile = profile.Record

// SessionState is the routing-relevant view of the session, read by [Decide].
type SessionState struct {
	IsLoading       bool
	IsAuthenticated bool
}

// ProfileState is the routing-relevant view of the profile cache, read by
// [Decide]. Present is true only when an authoritative record is cached;
// IsError is true after a failed refresh even if a stale record remains for
// display. IsLoading is true only while a fetch is outstanding with no record
// held; a background refresh over existing data does not report loading.
type ProfileState struct {
	IsLoading           bool
	Present             bool
	IsError             bool
	IsVerified          bool
	OnboardingCompleted bool
}

// GateSnapshot is a read-only, point-in-time view of the engine, returned by
// [Gate.Snapshot].
type GateSnapshot struct {
	Session  SessionState
	Profile  ProfileState
	User     *UserProfile
	Epoch    uint64
	Decision RouteDecision
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
