package goGate

import (
	"context"
	"sync"
	"time"

	"github.com/MrEthical07/goGate/profile"
	"github.com/google/uuid"
)

// fetchOutcome is reported to the gate after every settled fetch so it can
// emit audit events and metrics without the cache knowing about either.
type fetchOutcome struct {
	RequestID string
	Latency   time.Duration
	Err       error
	Coalesced bool
	Discarded bool
}

type inflightFetch struct {
	done chan struct{}
	rec  *UserProfile
	err  error
}

// profileCache fetches and caches the authoritative user record.
//
// At most one fetch is in flight; callers that arrive while one is
// outstanding attach to its result instead of issuing a duplicate request.
// Each fetch is tagged with the session epoch that started it and its result
// is discarded if a logout or re-auth has advanced the epoch since.
type profileCache struct {
	mu       sync.Mutex
	provider profile.Provider
	session  *sessionStore
	timeout  time.Duration
	observe  func(fetchOutcome)

	data     *UserProfile
	loading  bool
	stale    bool
	fetchErr error
	inflight *inflightFetch
}

func newProfileCache(p profile.Provider, session *sessionStore, timeout time.Duration, observe func(fetchOutcome)) *profileCache {
	if observe == nil {
		observe = func(fetchOutcome) {}
	}
	return &profileCache{
		provider: p,
		session:  session,
		timeout:  timeout,
		observe:  observe,
	}
}

// Fetch returns the authoritative record, coalescing concurrent callers onto
// a single remote request. The fetch itself runs under its own timeout,
// detached from the first caller's cancellation, so coalesced waiters are not
// poisoned by it; ctx only bounds this caller's wait.
func (c *profileCache) Fetch(ctx context.Context) (*UserProfile, error) {
	c.mu.Lock()
	if f := c.inflight; f != nil {
		c.mu.Unlock()
		c.observe(fetchOutcome{Coalesced: true})
		select {
		case <-f.done:
			return f.rec, f.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f := &inflightFetch{done: make(chan struct{})}
	c.inflight = f
	c.loading = true
	epoch := c.session.Epoch()
	c.mu.Unlock()

	requestID := uuid.NewString()
	start := time.Now()

	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	rec, err := c.provider.FetchCurrent(fctx)
	cancel()

	latency := time.Since(start)

	c.mu.Lock()
	// A Reset may have detached this fetch and a newer one may already be in
	// flight; only clear the slot if it is still ours.
	if c.inflight == f {
		c.inflight = nil
		c.loading = false
	}

	discarded := c.session.Epoch() != epoch
	switch {
	case discarded:
		// The session that started this fetch is gone; committing would let a
		// stale profile reappear after logout.
		f.rec = nil
		f.err = ErrFetchSuperseded
	case err != nil:
		// Previous data stays for display only; routing treats the error as
		// "no authoritative profile".
		c.fetchErr = err
		f.err = err
	default:
		c.data = rec
		c.fetchErr = nil
		c.stale = false
		f.rec = rec
	}
	close(f.done)
	c.mu.Unlock()

	c.observe(fetchOutcome{
		RequestID: requestID,
		Latency:   latency,
		Err:       f.err,
		Discarded: discarded,
	})

	return f.rec, f.err
}

// MarkLoading flips the loading flag before the refetch goroutine has
// actually started, so routing reports Pending instead of flashing a decision
// computed from an absent profile. Fetch takes over the flag when it runs.
func (c *profileCache) MarkLoading() {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()
}

// Invalidate marks the cache stale. The gate schedules the refetch.
func (c *profileCache) Invalidate() {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
}

// Seed commits a record obtained out of band (the auth response) so routing
// has an authoritative profile before the confirming refetch lands.
func (c *profileCache) Seed(rec *UserProfile) {
	if rec == nil {
		return
	}
	c.mu.Lock()
	c.data = rec
	c.fetchErr = nil
	c.mu.Unlock()
}

// Reset discards the cached record entirely. Called on logout; an in-flight
// fetch is detached so the next session starts its own request, and the old
// one settles into its epoch-discard path.
func (c *profileCache) Reset() {
	c.mu.Lock()
	c.data = nil
	c.fetchErr = nil
	c.stale = false
	c.loading = false
	c.inflight = nil
	c.mu.Unlock()
}

// Stale reports whether an invalidation is pending.
func (c *profileCache) Stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale
}

// Err returns the sticky error from the last settled fetch, if any.
func (c *profileCache) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchErr
}

// Data returns the cached record. It may be stale after a failed refresh;
// pair it with Err for anything security-relevant.
func (c *profileCache) Data() (*UserProfile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data, c.data != nil
}

// fetching reports whether a remote request is currently in flight.
func (c *profileCache) fetching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight != nil
}

// State returns the routing-relevant snapshot. Loading is reported only while
// no record is held: a background refresh over existing data keeps routing on
// the current decision instead of bouncing it through pending.
func (c *profileCache) State() ProfileState {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := ProfileState{
		IsLoading: c.loading && c.data == nil,
		Present:   c.data != nil,
		IsError:   c.fetchErr != nil,
	}
	if c.data != nil {
		st.IsVerified = c.data.IsVerified
		st.OnboardingCompleted = c.data.OnboardingCompleted
	}
	return st
}
