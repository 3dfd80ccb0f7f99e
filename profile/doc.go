// Package profile defines the remote "current user" boundary.
//
// A Provider fetches the authoritative user record. The HTTP implementation
// validates every payload strictly at this boundary: malformed or partial
// responses surface as ErrInvalid and never propagate undefined fields into
// routing decisions.
package profile
