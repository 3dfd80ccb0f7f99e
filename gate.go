package goGate

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	internalaudit "github.com/MrEthical07/goGate/internal/audit"
	"github.com/MrEthical07/goGate/profile"
	"github.com/MrEthical07/goGate/vault"
	"go.uber.org/zap"
)

// Gate is the session and routing engine. It owns the session store, the
// profile cache and the reconnect monitor, and exposes the single decision
// every flow entry point must consume.
//
// Gate instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Gate struct {
	config  Config
	logger  *zap.Logger
	vault   vault.Vault
	session *sessionStore
	cache   *profileCache
	source  ConnectivitySource
	monitor *ReconnectMonitor
	audit   *internalaudit.Dispatcher
	metrics *Metrics

	subMu        sync.Mutex
	subs         map[uint64]func(RouteDecision)
	nextSubID    uint64
	lastDecision RouteDecision

	closeOnce sync.Once
}

/*
====================================
LIFECYCLE
====================================
*/

// Init describes the init operation and its observable behavior.
//
// Init consults the vault exactly once and resolves the initial session: a
// stored pair is adopted and a profile refresh starts in the background;
// absence or any vault error resolves to Unauthenticated. Vault failures are
// absorbed, not returned: a broken vault means "no session", never a crash
// and never access.
//
// Init may return [ErrAlreadyInitialized] when called twice.
func (g *Gate) Init(ctx context.Context) error {
	if g == nil {
		return ErrGateNotReady
	}

	adopted, err := g.session.Init(ctx)
	switch {
	case errors.Is(err, ErrAlreadyInitialized):
		return ErrAlreadyInitialized
	case err != nil:
		g.metrics.Inc(MetricVaultLoadFailure)
		g.logger.Warn("vault load failed, starting unauthenticated", zap.Error(err))
		g.emitAudit(ctx, auditEventSessionInit, false, "", err, nil)
	case adopted:
		g.metrics.Inc(MetricVaultLoadAdopted)
		g.emitAudit(ctx, auditEventSessionInit, true, "", nil, func() map[string]string {
			return map[string]string{"adopted": "true"}
		})
	default:
		g.metrics.Inc(MetricVaultLoadEmpty)
		g.emitAudit(ctx, auditEventSessionInit, true, "", nil, func() map[string]string {
			return map[string]string{"adopted": "false"}
		})
	}

	if adopted {
		if pair, ok := g.session.Tokens(); ok {
			g.maybeEmitExpiryHint(ctx, pair)
		}
		g.cache.MarkLoading()
		go g.refreshAsync()
	}

	if g.source != nil && g.config.Connectivity.RefreshOnReconnect {
		g.monitor = NewReconnectMonitor(g.source, g.onReconnect)
	}

	g.notify()
	return nil
}

// Close stops the reconnect monitor and drains the audit dispatcher. Safe to
// call multiple times. Session state is left as is; Close is a shutdown, not
// a logout.
func (g *Gate) Close() {
	if g == nil {
		return
	}
	g.closeOnce.Do(func() {
		if g.monitor != nil {
			g.monitor.Stop()
		}
		g.audit.Close()
	})
}

/*
====================================
AUTH TRANSITIONS
====================================
*/

// SetAuth describes the setAuth operation and its observable behavior.
//
// The pair is persisted before the in-memory state flips to Authenticated, so
// a crash between the two can only lose a session, never fabricate one. On
// vault failure the gate resets to Unauthenticated and the caller gets
// [ErrVaultStoreFailed]; the backend considers the user signed in, so the
// caller should surface a retry.
//
// SetAuth may return [ErrTokenPairIncomplete] or [ErrVaultStoreFailed].
func (g *Gate) SetAuth(ctx context.Context, user *UserProfile, tokens TokenPair) error {
	if g == nil {
		return ErrGateNotReady
	}

	if err := g.session.SetAuth(ctx, user, tokens); err != nil {
		if errors.Is(err, ErrVaultStoreFailed) {
			g.metrics.Inc(MetricVaultStoreFailure)
		}
		g.metrics.Inc(MetricAuthSetFailure)
		g.logger.Error("auth set failed", zap.Error(err))
		g.emitAudit(ctx, auditEventAuthSetFailure, false, "", err, nil)
		g.cache.Reset()
		g.notify()
		return err
	}

	// New session generation: whatever the cache held belongs to the previous
	// one.
	g.cache.Reset()
	if g.config.Profile.SeedFromAuth && user != nil {
		g.cache.Seed(user)
	} else {
		g.cache.MarkLoading()
	}
	g.cache.Invalidate()

	g.metrics.Inc(MetricAuthSet)
	g.emitAudit(ctx, auditEventAuthSet, true, "", nil, nil)
	g.maybeEmitExpiryHint(ctx, tokens)

	// Notify before the confirming refresh starts so subscribers see the
	// seeded decision, not a transient loading state.
	g.notify()
	go g.refreshAsync()
	return nil
}

// SetUser replaces the held user record without touching tokens or
// authentication state. Use it when another flow (OTP verification,
// onboarding submission) returns an updated record.
func (g *Gate) SetUser(user *UserProfile) {
	if g == nil || user == nil {
		return
	}
	g.session.SetUser(user)
	g.cache.Seed(user)
	g.notify()
}

// Logout describes the logout operation and its observable behavior.
//
// The vault clear is best effort: the returned error is advisory, and the
// in-memory session is reset to Unauthenticated regardless, so the gate can
// never stay signed in because a disk write failed.
func (g *Gate) Logout(ctx context.Context) error {
	if g == nil {
		return ErrGateNotReady
	}
	return g.logout(ctx, auditEventLogout)
}

// ClearAuth is Logout invoked by the engine or an interceptor rather than the
// user, typically after the backend rejected the credential. Same semantics,
// separate audit trail.
func (g *Gate) ClearAuth(ctx context.Context) error {
	if g == nil {
		return ErrGateNotReady
	}
	return g.logout(ctx, auditEventAuthCleared)
}

func (g *Gate) logout(ctx context.Context, eventType string) error {
	clearErr := g.session.Logout(ctx)
	g.cache.Reset()

	g.metrics.Inc(MetricLogout)
	if clearErr != nil {
		g.metrics.Inc(MetricVaultClearFailure)
	}
	g.emitAudit(ctx, eventType, clearErr == nil, "", clearErr, nil)

	g.notify()
	return clearErr
}

/*
====================================
PROFILE
====================================
*/

// RefreshProfile describes the refreshProfile operation and its observable
// behavior.
//
// Concurrent callers coalesce onto a single remote request. A result that
// settles after a logout or re-auth is discarded and reported as
// [ErrFetchSuperseded]. A 401/403 from the backend maps to [ErrAuthRejected]
// and, when [SessionConfig.LogoutOnAuthRejected] is set, clears the session.
//
// RefreshProfile may return [ErrNotAuthenticated], [ErrAuthRejected],
// [ErrProfileInvalid], [ErrProfileUnavailable] or [ErrFetchSuperseded].
func (g *Gate) RefreshProfile(ctx context.Context) (*UserProfile, error) {
	if g == nil {
		return nil, ErrGateNotReady
	}
	if !g.session.State().IsAuthenticated {
		return nil, ErrNotAuthenticated
	}

	rec, err := g.cache.Fetch(ctx)
	switch {
	case err == nil:
		g.notify()
		return rec, nil
	case errors.Is(err, ErrFetchSuperseded):
		return nil, ErrFetchSuperseded
	case errors.Is(err, profile.ErrUnauthorized):
		g.handleAuthRejected(ctx)
		return nil, ErrAuthRejected
	case errors.Is(err, profile.ErrInvalid):
		g.notify()
		return nil, ErrProfileInvalid
	default:
		g.notify()
		return nil, ErrProfileUnavailable
	}
}

// InvalidateProfile marks the cached record stale and schedules a background
// refresh, exactly as a reconnect does.
func (g *Gate) InvalidateProfile() {
	if g == nil {
		return
	}
	g.cache.Invalidate()
	g.metrics.Inc(MetricProfileInvalidated)
	if g.session.State().IsAuthenticated {
		go g.refreshAsync()
	}
}

func (g *Gate) refreshAsync() {
	_, _ = g.RefreshProfile(context.Background())
}

func (g *Gate) handleAuthRejected(ctx context.Context) {
	g.metrics.Inc(MetricAuthRejected)
	g.emitAudit(ctx, auditEventAuthRejected, false, "", ErrAuthRejected, nil)
	g.logger.Warn("credentials rejected by profile backend")

	if !g.config.Session.LogoutOnAuthRejected || !g.session.State().IsAuthenticated {
		g.notify()
		return
	}
	_ = g.logout(ctx, auditEventAuthCleared)
}

// observeFetch receives the outcome of every settled or coalesced fetch from
// the cache and turns it into metrics and audit events.
func (g *Gate) observeFetch(out fetchOutcome) {
	if out.Coalesced {
		g.metrics.Inc(MetricProfileFetchCoalesced)
		return
	}

	switch {
	case out.Discarded:
		g.metrics.Inc(MetricProfileFetchDiscarded)
	case out.Err != nil:
		g.metrics.Inc(MetricProfileFetchFailure)
	default:
		g.metrics.Inc(MetricProfileFetchSuccess)
		g.metrics.Observe(MetricProfileFetchLatency, out.Latency)
	}

	g.emitAudit(context.Background(), auditEventProfileFetch, out.Err == nil, out.RequestID, out.Err, func() map[string]string {
		m := map[string]string{
			"latency_ms": strconv.FormatInt(out.Latency.Milliseconds(), 10),
		}
		if out.Discarded {
			m["discarded"] = "true"
		}
		return m
	})
}

/*
====================================
CONNECTIVITY
====================================
*/

// onReconnect fires on each offline->online edge reported by the monitor.
func (g *Gate) onReconnect() {
	g.metrics.Inc(MetricReconnect)
	g.emitAudit(context.Background(), auditEventReconnect, true, "", nil, nil)

	if !g.session.State().IsAuthenticated {
		return
	}
	g.cache.Invalidate()
	g.metrics.Inc(MetricProfileInvalidated)
	go g.refreshAsync()
}

/*
====================================
READ SIDE
====================================
*/

// Decision computes the current route decision from live state. It is cheap
// and never cached; call it as often as needed.
func (g *Gate) Decision() RouteDecision {
	if g == nil {
		return RoutePending
	}
	return Decide(g.session.State(), g.cache.State())
}

// Snapshot returns a point-in-time view of session, profile and decision.
func (g *Gate) Snapshot() GateSnapshot {
	if g == nil {
		return GateSnapshot{Decision: RoutePending}
	}

	session := g.session.State()
	prof := g.cache.State()
	return GateSnapshot{
		Session:  session,
		Profile:  prof,
		User:     g.currentUser(),
		Epoch:    g.session.Epoch(),
		Decision: Decide(session, prof),
	}
}

// Tokens returns the live token pair for outbound request decoration. The
// second return is false while unauthenticated.
func (g *Gate) Tokens() (TokenPair, bool) {
	if g == nil {
		return TokenPair{}, false
	}
	return g.session.Tokens()
}

// User returns the current user record, preferring the cache's authoritative
// copy over the one handed to SetAuth.
func (g *Gate) User() *UserProfile {
	if g == nil {
		return nil
	}
	return g.currentUser()
}

func (g *Gate) currentUser() *UserProfile {
	if rec, ok := g.cache.Data(); ok {
		return rec
	}
	return g.session.User()
}

// OnDecision registers fn for decision changes and invokes it once
// immediately with the current decision. The returned function unsubscribes.
// Callbacks run synchronously on the goroutine that caused the change and
// must not block.
func (g *Gate) OnDecision(fn func(RouteDecision)) (unsubscribe func()) {
	if g == nil || fn == nil {
		return func() {}
	}

	g.subMu.Lock()
	id := g.nextSubID
	g.nextSubID++
	if g.subs == nil {
		g.subs = make(map[uint64]func(RouteDecision))
	}
	g.subs[id] = fn
	g.subMu.Unlock()

	fn(g.Decision())

	return func() {
		g.subMu.Lock()
		delete(g.subs, id)
		g.subMu.Unlock()
	}
}

// MetricsSnapshot returns a deep copy of all counters and histograms.
func (g *Gate) MetricsSnapshot() MetricsSnapshot {
	if g == nil {
		return MetricsSnapshot{}
	}
	return g.metrics.Snapshot()
}

// AuditDropped reports how many audit events the dispatcher discarded.
func (g *Gate) AuditDropped() uint64 {
	if g == nil {
		return 0
	}
	return g.audit.Dropped()
}

/*
====================================
INTERNAL
====================================
*/

// notify recomputes the decision and fans it out to subscribers if it moved.
// State locks are never held here; subscriber callbacks may call back into
// the gate.
func (g *Gate) notify() {
	decision := Decide(g.session.State(), g.cache.State())

	g.subMu.Lock()
	if decision == g.lastDecision {
		g.subMu.Unlock()
		return
	}
	g.lastDecision = decision
	subs := make([]func(RouteDecision), 0, len(g.subs))
	for _, fn := range g.subs {
		subs = append(subs, fn)
	}
	g.subMu.Unlock()

	g.metrics.Inc(MetricDecisionChanged)
	for _, fn := range subs {
		fn(decision)
	}
}

// maybeEmitExpiryHint parses the access token's exp claim (unverified) and
// records when the token is already expired. Observability only; the token
// stays an opaque credential and routing never reads this.
func (g *Gate) maybeEmitExpiryHint(ctx context.Context, pair TokenPair) {
	if !g.config.Session.TokenExpiryHint {
		return
	}
	exp, ok := accessTokenExpiry(pair.AccessToken)
	if !ok {
		return
	}
	if time.Now().After(exp.Add(-g.config.Session.ExpiryHintSkew)) {
		g.metrics.Inc(MetricTokenExpiredHint)
		g.emitAudit(ctx, auditEventTokenExpiredHint, true, "", nil, func() map[string]string {
			return map[string]string{"expires_at": exp.UTC().Format(time.RFC3339)}
		})
		g.logger.Info("adopted access token at or past expiry", zap.Time("expires_at", exp))
	}
}
