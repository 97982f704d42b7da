package services

import (
	"fmt"
	"strings"

	"catalog-backend/internal/models"
)

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type RateLimitError struct{ Message string }

func (e *RateLimitError) Error() string { return e.Message }

// MutationError reports a failed multi-row write. Compensated lists the rows
// removed again; Pending lists rows handed to the cleanup queue.
type MutationError struct {
	Op          string
	Step        string
	Err         error
	Compensated []models.CompensationStep
	Pending     []models.CompensationStep
}

func (e *MutationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed at %s: %v", e.Op, e.Step, e.Err)
	if len(e.Pending) > 0 {
		fmt.Fprintf(&b, " (%d rows queued for cleanup)", len(e.Pending))
	}
	return b.String()
}

func (e *MutationError) Unwrap() error { return e.Err }
