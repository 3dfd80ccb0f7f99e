// Package audit implements asynchronous audit event dispatch for goGate.
//
// A Dispatcher forwards events to a caller-supplied Sink on a dedicated
// goroutine so that session transitions never block on slow sinks.
//
// # What this package must NOT do
//
//   - Export types that appear in the public goGate API under their own name
//     (the root package re-exports them as aliases).
//   - Drop events silently unless the dispatcher was configured with
//     DropIfFull.
package audit
