package session

import (
	"time"

	"github.com/rs/zerolog"
)

// LoginRoute is where the guard sends an unauthenticated operator.
const LoginRoute = "/login"

// DefaultMaxAge is how long a login stays valid on this machine.
const DefaultMaxAge = 24 * time.Hour

// Decision is the outcome of a guard check.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
)

// Reason explains a RedirectLogin decision. Allowed verdicts carry ReasonNone.
type Reason string

const (
	ReasonNone    Reason = ""
	ReasonAbsent  Reason = "absent"
	ReasonExpired Reason = "expired"
)

// Verdict is returned by Guard.Check.
type Verdict struct {
	Decision Decision
	Reason   Reason
	Route    string
}

// Allowed reports whether the current screen may stay.
func (v Verdict) Allowed() bool {
	return v.Decision == Allow
}

// Guard enforces the local expiry policy. It is consulted when the console
// starts and on every navigation; it never runs on a timer.
type Guard struct {
	store  *Store
	maxAge time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithClock overrides the time source.
func WithClock(now func() time.Time) GuardOption {
	return func(g *Guard) { g.now = now }
}

// WithMaxAge overrides DefaultMaxAge.
func WithMaxAge(d time.Duration) GuardOption {
	return func(g *Guard) {
		if d > 0 {
			g.maxAge = d
		}
	}
}

// NewGuard returns a guard over store.
func NewGuard(store *Store, log zerolog.Logger, opts ...GuardOption) *Guard {
	g := &Guard{store: store, maxAge: DefaultMaxAge, now: time.Now, log: log}
	for _, o := range opts {
		o(g)
	}
	return g
}

// MaxAge returns the configured session lifetime.
func (g *Guard) MaxAge() time.Duration {
	return g.maxAge
}

// Check validates the stored record against the current time. An expired
// record is cleared before redirecting; an absent one is left alone.
// Elapsed time exactly equal to the max age is still valid, and a record
// stamped in the future is accepted as is.
func (g *Guard) Check() Verdict {
	rec, ok := g.store.Read()
	if !ok {
		g.log.Debug().Msg("no session, redirecting to login")
		return Verdict{Decision: RedirectLogin, Reason: ReasonAbsent, Route: LoginRoute}
	}
	elapsed := g.now().UnixMilli() - rec.Timestamp
	if elapsed > g.maxAge.Milliseconds() {
		if err := g.store.Clear(); err != nil {
			g.log.Warn().Err(err).Msg("clear expired session")
		}
		g.log.Info().Int64("elapsed_ms", elapsed).Msg("session expired")
		return Verdict{Decision: RedirectLogin, Reason: ReasonExpired, Route: LoginRoute}
	}
	return Verdict{Decision: Allow, Reason: ReasonNone}
}

// Remaining returns how long the stored session has left, or zero when there
// is no valid session.
func (g *Guard) Remaining() time.Duration {
	rec, ok := g.store.Read()
	if !ok {
		return 0
	}
	left := g.maxAge - g.now().Sub(rec.Time())
	if left < 0 {
		return 0
	}
	return left
}
