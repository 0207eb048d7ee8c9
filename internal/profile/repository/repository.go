package repository

import "context"

// Repository exposes the role lookup the engine needs from the user
// directory. Profile administration itself lives outside the engine.
type Repository interface {
	// RoleOf returns the role id of the given user, or "" when the user has
	// no profile row.
	RoleOf(ctx context.Context, userID string) (string, error)
}
