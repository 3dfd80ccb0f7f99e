package goGate

import (
	"errors"

	internalaudit "github.com/MrEthical07/goGate/internal/audit"
	"github.com/MrEthical07/goGate/profile"
	"github.com/MrEthical07/goGate/vault"
	"go.uber.org/zap"
)

// Builder defines a public type used by goGate APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	vault    vault.Vault
	provider profile.Provider
	source   ConnectivitySource

	auditSink AuditSink
	logger    *zap.Logger

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithVault describes the withvault operation and its observable behavior.
//
// WithVault does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithVault(v vault.Vault) *Builder {
	b.vault = v
	return b
}

// WithProfileProvider describes the withprofileprovider operation and its observable behavior.
//
// WithProfileProvider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithProfileProvider(p profile.Provider) *Builder {
	b.provider = p
	return b
}

// WithConnectivity describes the withconnectivity operation and its observable behavior.
//
// WithConnectivity does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConnectivity(source ConnectivitySource) *Builder {
	b.source = source
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	if sink != nil {
		b.config.Audit.Enabled = true
	}
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
//
// WithLogger does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build allocates only; no I/O happens until [Gate.Init]. Build may return an
// error when input validation fails or a required dependency is missing.
func (b *Builder) Build() (*Gate, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.vault == nil {
		return nil, errors.New("vault required")
	}

	if b.provider == nil {
		return nil, errors.New("profile provider required")
	}

	if cfg.Connectivity.RefreshOnReconnect && b.source == nil {
		// Tolerated: reconnect refresh silently disables without a source so
		// the same config works on platforms without a connectivity signal.
		cfg.Connectivity.RefreshOnReconnect = false
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	gate := &Gate{
		config:  cfg,
		logger:  logger,
		vault:   b.vault,
		source:  b.source,
		metrics: NewMetrics(cfg.Metrics),
	}

	gate.audit = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)

	gate.session = newSessionStore(b.vault, logger)
	gate.cache = newProfileCache(b.provider, gate.session, cfg.Profile.FetchTimeout, gate.observeFetch)

	b.built = true

	return gate, nil
}
