package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/saged-tournament/cricket-league/models"
	"github.com/saged-tournament/cricket-league/repositories"
)

const mutateAttempts = 3

// mutationCoordinator gives every mutating operation the same shape: read
// the full record, apply the change to a private clone, persist with a
// compare-and-swap on the version the read observed. No partially updated
// record is ever visible to the store, and a lost race surfaces as a
// write conflict instead of silently dropping a result.
type mutationCoordinator struct {
	repo repositories.TournamentRepository
}

// Mutate runs apply against the current record and persists the result,
// retrying a bounded number of times when a concurrent writer wins the
// race. apply must not keep references to its argument.
func (c mutationCoordinator) Mutate(ctx context.Context, id string, apply func(*models.Tournament) error) (*models.Tournament, error) {
	var lastErr error
	for attempt := 0; attempt < mutateAttempts; attempt++ {
		current, version, err := c.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return nil, ErrTournamentNotFound
			}
			return nil, fmt.Errorf("failed to load tournament %s: %w", id, err)
		}

		next := current.Clone()
		if err := apply(next); err != nil {
			return nil, err
		}

		err = c.repo.Replace(ctx, id, next, version)
		switch {
		case err == nil:
			return next, nil
		case errors.Is(err, repositories.ErrWriteConflict):
			lastErr = err
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return nil, ErrTournamentNotFound
		default:
			return nil, fmt.Errorf("failed to persist tournament %s: %w", id, err)
		}
	}
	return nil, lastErr
}
