// Package goGate provides a client-side session and flow-gating engine: durable
// encrypted token storage, an in-memory session state machine, a coalescing
// user-profile cache, an edge-triggered reconnect monitor, and a pure route
// decision function that maps session state to exactly one navigation flow.
//
// The package is designed for app processes that must never show an
// inconsistent or insecure flow: Gate methods are safe to call from multiple
// goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goGate is the public surface. It exposes [Gate], [Builder], [Config],
// [Decide], and value types (RouteDecision, GateSnapshot, etc.). Persistence
// lives in [github.com/MrEthical07/goGate/vault], the remote profile boundary
// in [github.com/MrEthical07/goGate/profile], and async audit dispatch lives
// under internal/ and is never exported directly.
//
// # What this package must NOT do
//
//   - Perform the authentication handshake. It consumes its outcome (a token
//     pair plus a user record) and decides what happens next.
//   - Derive verification or onboarding state from the token itself. Tokens
//     are opaque credentials; the remote profile is the only authority.
//   - Grant access on uncertainty. Missing, loading, or erroring state always
//     resolves to the least-privileged decision (fail-closed).
//
// # Consistency contract
//
// Decide is total and side-effect free. Every authentication transition
// advances a session epoch; profile fetch results carry the epoch that started
// them and are discarded when a logout has superseded it, so a stale profile
// can never reappear after sign-out.
package goGate
