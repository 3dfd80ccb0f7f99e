package goGate

import (
	"errors"
	"time"
)

// Config defines a public type used by goGate APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Session      SessionConfig
	Profile      ProfileConfig
	Connectivity ConnectivityConfig
	Audit        AuditConfig
	Metrics      MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by goGate APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	// LogoutOnAuthRejected clears the vault and resets to Unauthenticated when
	// the profile endpoint rejects the credential (401/403).
	LogoutOnAuthRejected bool
	// TokenExpiryHint parses the access token's exp claim (unverified, hint
	// only) and emits an audit event when an adopted token is already expired.
	// It never feeds routing decisions.
	TokenExpiryHint bool
	// ExpiryHintSkew widens the "already expired" window to absorb clock drift.
	ExpiryHintSkew time.Duration
}

// ProfileConfig defines a public type used by goGate APIs.
//
// ProfileConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ProfileConfig struct {
	// FetchTimeout bounds one remote fetch. Loading states must be finite.
	FetchTimeout time.Duration
	// SeedFromAuth commits the user record handed to SetAuth into the cache
	// before the confirming refetch lands. The record came from the backend's
	// auth response, so it is authoritative at that instant.
	SeedFromAuth bool
}

// ConnectivityConfig defines a public type used by goGate APIs.
//
// ConnectivityConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ConnectivityConfig struct {
	// RefreshOnReconnect invalidates the profile cache on the offline->online
	// edge. Requires a connectivity source on the builder.
	RefreshOnReconnect bool
}

// AuditConfig defines a public type used by goGate APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by goGate APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration the builder starts from.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			LogoutOnAuthRejected: true,
			TokenExpiryHint:      false,
			ExpiryHintSkew:       30 * time.Second,
		},
		Profile: ProfileConfig{
			FetchTimeout: 15 * time.Second,
			SeedFromAuth: true,
		},
		Connectivity: ConnectivityConfig{
			RefreshOnReconnect: true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when a section carries an impossible value.
func (c *Config) Validate() error {
	if c.Profile.FetchTimeout <= 0 {
		return errors.New("Profile FetchTimeout must be > 0")
	}

	if c.Session.ExpiryHintSkew < 0 {
		return errors.New("Session ExpiryHintSkew must be >= 0")
	}
	if c.Session.TokenExpiryHint && c.Session.ExpiryHintSkew <= 0 {
		return errors.New("Session ExpiryHintSkew must be > 0 when TokenExpiryHint is true")
	}

	if c.Audit.Enabled {
		if c.Audit.BufferSize <= 0 {
			return errors.New("Audit BufferSize must be > 0 when audit is enabled")
		}
	}

	return nil
}
