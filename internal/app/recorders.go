package app

import (
	"context"
	"errors"

	"wanderplan/internal/domain"
)

// Recorders fans one outcome out to several recorders; nil entries are skipped.
type Recorders []domain.OutcomeRecorder

func (rs Recorders) RecordOutcome(ctx context.Context, o domain.Outcome) error {
	var errs []error
	for _, r := range rs {
		if r == nil {
			continue
		}
		if err := r.RecordOutcome(ctx, o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
