package domain

import (
	"context"
	"time"
)

// ModelClient sends one prompt to a completion endpoint and returns the raw reply text.
// Failures are *ModelError values; implementations never retry.
type ModelClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Provider() string
}

// CallBudget is a shared admission check consulted before a model call.
type CallBudget interface {
	Allow(ctx context.Context) (bool, error)
}

// OutcomeRecorder stores one audit row per generation. It never sees itinerary content.
type OutcomeRecorder interface {
	RecordOutcome(ctx context.Context, o Outcome) error
}

// Source tells where the returned itinerary came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceDegraded Source = "degraded"
	SourceFallback Source = "fallback"
)

type Outcome struct {
	ID        string
	Provider  string
	Tier      BudgetTier
	Source    Source
	Failure   FailureKind
	Duration  time.Duration
	CreatedAt time.Time
}
