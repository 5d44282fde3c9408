package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"wanderplan/internal/domain"
)

const recordTimeout = 2 * time.Second

// Result is one completed generation.
type Result struct {
	ID        string
	Itinerary domain.Itinerary
	Source    domain.Source
	Failure   domain.FailureKind
}

// Planner runs validate -> prompt -> model -> interpret, and swaps in the fallback itinerary
// whenever the model call fails. It holds no per-request state and is safe for concurrent use.
type Planner struct {
	model         domain.ModelClient
	recorder      domain.OutcomeRecorder
	fallbackDelay time.Duration
	buildPrompt   func(domain.TripRequest) string
}

// NewPlanner wires the pipeline. recorder may be nil.
func NewPlanner(m domain.ModelClient, rec domain.OutcomeRecorder, fallbackDelay time.Duration) *Planner {
	return &Planner{model: m, recorder: rec, fallbackDelay: fallbackDelay, buildPrompt: BuildPrompt}
}

// Generate returns a validation error for a bad request and otherwise always returns a complete itinerary.
func (p *Planner) Generate(ctx context.Context, req domain.TripRequest) (Result, error) {
	start := time.Now()

	trip, err := Validate(req)
	if err != nil {
		return Result{}, err
	}

	log.Info().
		Str("destination", trip.Destination).
		Str("dates", trip.StartDate+" to "+trip.EndDate).
		Str("budget", string(trip.BudgetTier)).
		Str("interests", strings.Join(trip.Interests, ", ")).
		Msg("generating itinerary")

	res := Result{ID: uuid.NewString()}

	raw, err := p.model.Complete(ctx, p.buildPrompt(trip))
	if err != nil {
		res.Failure = domain.KindOf(err)
		if res.Failure == domain.FailureNone {
			res.Failure = domain.FailureNetworkError
		}
		log.Warn().Err(err).Str("failure", string(res.Failure)).Str("id", res.ID).Msg("model call failed; using fallback generator")
		res.Itinerary = p.fallback(ctx, trip)
		res.Source = domain.SourceFallback
	} else {
		it, parsed := Interpret(raw)
		res.Itinerary, res.Source = it, domain.SourceModel
		if !parsed {
			res.Source = domain.SourceDegraded
			log.Warn().Str("id", res.ID).Int("raw_len", len(raw)).Msg("model response unparseable; returning degraded itinerary")
		} else if it.Destination == "" || it.Destination == unknownField {
			log.Warn().Str("id", res.ID).Msg("generated itinerary may be incomplete")
		}
	}

	p.record(ctx, trip, res, time.Since(start))
	log.Info().Str("id", res.ID).Str("source", string(res.Source)).Dur("took", time.Since(start)).Msg("itinerary ready")
	return res, nil
}

// fallback builds the rule-based itinerary and pads latency to roughly match the model path.
func (p *Planner) fallback(ctx context.Context, trip domain.TripRequest) domain.Itinerary {
	it := Fallback(trip)
	sleepCtx(ctx, p.fallbackDelay)
	return it
}

func (p *Planner) record(ctx context.Context, trip domain.TripRequest, res Result, took time.Duration) {
	if p.recorder == nil {
		return
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	err := p.recorder.RecordOutcome(rctx, domain.Outcome{
		ID:        res.ID,
		Provider:  p.model.Provider(),
		Tier:      trip.BudgetTier,
		Source:    res.Source,
		Failure:   res.Failure,
		Duration:  took,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		log.Warn().Err(err).Str("id", res.ID).Msg("record outcome failed")
	}
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
