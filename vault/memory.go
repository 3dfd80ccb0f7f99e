package vault

import (
	"context"
	"sync"
)

// MemoryVault is a volatile Vault for tests and examples. It honors the same
// all-or-nothing contract as the durable implementations.
type MemoryVault struct {
	mu      sync.Mutex
	pair    Pair
	present bool
}

// NewMemoryVault creates an empty MemoryVault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{}
}

func (v *MemoryVault) Store(ctx context.Context, pair Pair) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !pair.Valid() {
		return ErrIncompletePair
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.pair = pair
	v.present = true
	return nil
}

func (v *MemoryVault) Load(ctx context.Context) (Pair, bool, error) {
	if err := ctx.Err(); err != nil {
		return Pair{}, false, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pair, v.present, nil
}

func (v *MemoryVault) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.pair = Pair{}
	v.present = false
	return nil
}
