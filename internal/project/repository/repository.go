package repository

import "context"

// Repository exposes the project lookups the engine needs. Project
// administration itself lives outside the engine.
type Repository interface {
	// CurrencyOf returns the project's currency code, or "" when the project
	// is unknown or has no currency configured.
	CurrencyOf(ctx context.Context, projectID string) (string, error)
}
