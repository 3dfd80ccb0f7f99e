package vault

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable is returned when the backing store cannot be read or written.
	ErrUnavailable = errors.New("vault unavailable")
	// ErrCorrupt is returned when a stored record fails to decode or authenticate.
	ErrCorrupt = errors.New("vault record corrupt")
	// ErrIncompletePair is returned by Store when either token is empty.
	ErrIncompletePair = errors.New("vault: token pair incomplete")
)

// Pair is an access credential plus its longer-lived refresh credential.
// Both fields are mandatory; a Pair is never partially stored or loaded.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Valid reports whether both tokens are present.
func (p Pair) Valid() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// Vault persists a token pair as a single atomic unit.
//
// Load reports (zero Pair, false, nil) when nothing has ever been stored;
// absence is not an error. Clear is idempotent.
type Vault interface {
	Store(ctx context.Context, pair Pair) error
	Load(ctx context.Context) (Pair, bool, error)
	Clear(ctx context.Context) error
}
