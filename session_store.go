package goGate

import (
	"fmt"
	"sync"

	"context"

	"github.com/MrEthical07/goGate/vault"
	"go.uber.org/zap"
)

type sessionPhase uint8

const (
	sessionUninitialized sessionPhase = iota
	sessionLoading
	sessionAuthenticated
	sessionUnauthenticated
)

// sessionStore owns the authenticated/unauthenticated transition and
// delegates persistence to the vault. It is the single writer of session
// state; everything else only reads snapshots.
//
// Every transition that changes who is signed in advances the epoch. Async
// results tagged with an older epoch are discarded by their committers, which
// substitutes for a lock across the fetch/logout race.
type sessionStore struct {
	mu     sync.Mutex
	vault  vault.Vault
	logger *zap.Logger

	phase     sessionPhase
	tokens    TokenPair
	hasTokens bool
	user      *UserProfile
	epoch     uint64
}

func newSessionStore(v vault.Vault, logger *zap.Logger) *sessionStore {
	return &sessionStore{
		vault:  v,
		logger: logger,
		phase:  sessionUninitialized,
	}
}

// Init consults the vault exactly once. A present pair is adopted (user still
// unknown; the profile cache fills it); absence or any vault error resolves to
// Unauthenticated. Init always ends the loading phase.
func (s *sessionStore) Init(ctx context.Context) (adopted bool, err error) {
	s.mu.Lock()
	if s.phase != sessionUninitialized {
		s.mu.Unlock()
		return false, ErrAlreadyInitialized
	}
	s.phase = sessionLoading
	s.mu.Unlock()

	pair, present, loadErr := s.vault.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if loadErr != nil || !present || !pair.Valid() {
		// Fail-closed: a corrupt or inaccessible vault never grants access.
		s.phase = sessionUnauthenticated
		s.tokens = TokenPair{}
		s.hasTokens = false
		return false, loadErr
	}

	s.phase = sessionAuthenticated
	s.tokens = pair
	s.hasTokens = true
	s.epoch++
	return true, nil
}

// SetAuth persists the pair before flipping to Authenticated, so a crash
// right after never shows a phantom session on restart. On vault failure the
// store resets to Unauthenticated and the error is surfaced to the caller.
func (s *sessionStore) SetAuth(ctx context.Context, user *UserProfile, pair TokenPair) error {
	if !pair.Valid() {
		return ErrTokenPairIncomplete
	}

	if err := s.vault.Store(ctx, pair); err != nil {
		s.mu.Lock()
		s.phase = sessionUnauthenticated
		s.tokens = TokenPair{}
		s.hasTokens = false
		s.user = nil
		s.epoch++
		s.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrVaultStoreFailed, err)
	}

	s.mu.Lock()
	s.phase = sessionAuthenticated
	s.tokens = pair
	s.hasTokens = true
	s.user = user
	s.epoch++
	s.mu.Unlock()
	return nil
}

// SetUser replaces the held user without changing authentication state.
func (s *sessionStore) SetUser(user *UserProfile) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// Logout clears the vault (best effort) and unconditionally resets in-memory
// state to Unauthenticated. The returned error is the vault's, for logging
// only; the reset happens regardless so the store can never stay
// Authenticated because a vault write failed.
func (s *sessionStore) Logout(ctx context.Context) error {
	clearErr := s.vault.Clear(ctx)
	if clearErr != nil && s.logger != nil {
		s.logger.Warn("vault clear failed during logout", zap.Error(clearErr))
	}

	s.mu.Lock()
	s.phase = sessionUnauthenticated
	s.tokens = TokenPair{}
	s.hasTokens = false
	s.user = nil
	s.epoch++
	s.mu.Unlock()

	return clearErr
}

// Epoch returns the current authentication generation.
func (s *sessionStore) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// State returns the routing-relevant snapshot. The uninitialized phase reads
// as loading so routing can never observe Authenticated before Init resolved.
func (s *sessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionState{
		IsLoading:       s.phase == sessionUninitialized || s.phase == sessionLoading,
		IsAuthenticated: s.phase == sessionAuthenticated,
	}
}

// User returns the currently held user record, if any.
func (s *sessionStore) User() *UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Tokens returns the live token pair for outbound requests.
func (s *sessionStore) Tokens() (TokenPair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != sessionAuthenticated || !s.hasTokens {
		return TokenPair{}, false
	}
	return s.tokens, true
}
