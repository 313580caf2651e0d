package gamedb

import "errors"

// Sentinel errors for the repository layer.
// These are infrastructure-level errors that indicate database state, not business logic failures.
var (
	// ErrNotFound indicates the requested team, player or game does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique constraint rejected the insert, e.g. a team name
	// that is already registered or a player code already used within a team.
	ErrDuplicate = errors.New("already exists")

	// ErrNoRowsAffected indicates an UPDATE matched no rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)
