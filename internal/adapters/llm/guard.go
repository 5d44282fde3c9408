package llm

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"wanderplan/internal/domain"
)

// Admission guard names and events, as reported to the observer.
const (
	GuardRate     = "rate"
	GuardInflight = "inflight"
	GuardBudget   = "budget"
	GuardAll      = "all"

	EventAdmitted = "admitted"
	EventRejected = "rejected"
	EventError    = "error"
)

var (
	errLocalRate     = errors.New("local rate limit reached")
	errTooManyCalls  = errors.New("too many model calls in flight")
	errBudgetReached = errors.New("shared call budget exhausted")
)

type availability interface{ Available() bool }

// GuardConfig bounds outbound model traffic. Zero values disable the matching guard.
type GuardConfig struct {
	RPS         int
	MaxInflight int64
	Budget      domain.CallBudget
	Observe     func(guard, event string)
}

// Guard admits calls to the wrapped client without ever blocking: a refused call fails
// fast as RateLimited so the caller can fall back instead of queueing.
type Guard struct {
	next    domain.ModelClient
	rl      *rate.Limiter
	sem     *semaphore.Weighted
	budget  domain.CallBudget
	observe func(guard, event string)
}

func NewGuard(next domain.ModelClient, cfg GuardConfig) *Guard {
	g := &Guard{next: next, budget: cfg.Budget, observe: cfg.Observe}
	if cfg.RPS > 0 {
		g.rl = rate.NewLimiter(rate.Limit(cfg.RPS), cfg.RPS)
	}
	if cfg.MaxInflight > 0 {
		g.sem = semaphore.NewWeighted(cfg.MaxInflight)
	}
	if g.observe == nil {
		g.observe = func(string, string) {}
	}
	return g
}

func (g *Guard) Provider() string { return g.next.Provider() }

func (g *Guard) Complete(ctx context.Context, prompt string) (string, error) {
	// no credential: let the client short-circuit without spending any admission
	if a, ok := g.next.(availability); ok && !a.Available() {
		return g.next.Complete(ctx, prompt)
	}

	if g.rl != nil && !g.rl.Allow() {
		g.observe(GuardRate, EventRejected)
		return "", refused(errLocalRate)
	}

	if g.sem != nil {
		if !g.sem.TryAcquire(1) {
			g.observe(GuardInflight, EventRejected)
			return "", refused(errTooManyCalls)
		}
		defer g.sem.Release(1)
	}

	if g.budget != nil {
		ok, err := g.budget.Allow(ctx)
		switch {
		case err != nil:
			// fail open when the budget store is unreachable
			g.observe(GuardBudget, EventError)
			log.Warn().Err(err).Msg("call budget check failed; admitting")
		case !ok:
			g.observe(GuardBudget, EventRejected)
			return "", refused(errBudgetReached)
		}
	}

	g.observe(GuardAll, EventAdmitted)
	return g.next.Complete(ctx, prompt)
}

func refused(err error) error {
	return &domain.ModelError{Kind: domain.FailureRateLimited, Err: err}
}
