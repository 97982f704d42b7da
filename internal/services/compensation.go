package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"catalog-backend/internal/models"
)

// journal records every row written by a create chain, in write order.
type journal struct {
	steps []models.CompensationStep
}

func (j *journal) record(table models.Table, id uuid.UUID) {
	j.steps = append(j.steps, models.CompensationStep{Table: table, ID: id})
}

// reversed returns the recorded rows newest first, the order they must be
// removed in.
func (j *journal) reversed() []models.CompensationStep {
	out := make([]models.CompensationStep, 0, len(j.steps))
	for i := len(j.steps) - 1; i >= 0; i-- {
		out = append(out, j.steps[i])
	}
	return out
}

// DeleteRow removes the row named by step. Deleting a row that is already
// gone succeeds, so a step can be replayed by the cleanup worker.
func DeleteRow(ctx context.Context, stores CatalogStores, step models.CompensationStep) error {
	switch step.Table {
	case models.TableUploadContent:
		return stores.Pointers.Delete(ctx, step.ID)
	case models.TableMovie:
		return stores.Movies.Delete(ctx, step.ID)
	case models.TableShow:
		return stores.Shows.Delete(ctx, step.ID)
	case models.TableWebSeries:
		return stores.WebSeries.Delete(ctx, step.ID)
	case models.TableSeason:
		return stores.Seasons.Delete(ctx, step.ID)
	case models.TableEpisode:
		return stores.Episodes.Delete(ctx, step.ID)
	default:
		return fmt.Errorf("unknown table %q", step.Table)
	}
}

// stepError tags a failure with the write that produced it.
type stepError struct {
	step string
	err  error
}

func (e *stepError) Error() string { return e.step + ": " + e.err.Error() }

func (e *stepError) Unwrap() error { return e.err }

func atStep(step string, err error) error {
	if err == nil {
		return nil
	}
	return &stepError{step: step, err: err}
}
