package repository

import "github.com/google/uuid"

// Array columns are NOT NULL; a nil slice would encode as NULL.

func textArray(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func uuidArray(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
