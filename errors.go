package goGate

import "errors"

var (
	// ErrGateNotReady is an exported constant or variable used by the gating engine.
	ErrGateNotReady = errors.New("gate not initialized")
	// ErrAlreadyInitialized is an exported constant or variable used by the gating engine.
	ErrAlreadyInitialized = errors.New("gate already initialized")
	// ErrTokenPairIncomplete is an exported constant or variable used by the gating engine.
	ErrTokenPairIncomplete = errors.New("token pair incomplete")
	// ErrVaultStoreFailed is an exported constant or variable used by the gating engine.
	ErrVaultStoreFailed = errors.New("vault store failed")
	// ErrNotAuthenticated is an exported constant or variable used by the gating engine.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrProfileUnavailable is an exported constant or variable used by the gating engine.
	ErrProfileUnavailable = errors.New("profile backend unavailable")
	// ErrProfileInvalid is an exported constant or variable used by the gating engine.
	ErrProfileInvalid = errors.New("profile payload invalid")
	// ErrAuthRejected is an exported constant or variable used by the gating engine.
	ErrAuthRejected = errors.New("credentials rejected by backend")
	// ErrFetchSuperseded is an exported constant or variable used by the gating engine.
	ErrFetchSuperseded = errors.New("profile fetch superseded by session change")
)
