package gameservice

import "errors"

// Domain errors for the game service.
// Handlers map these to client errors rather than retrying.
var (
	// ErrTeamNotFound indicates a game sheet or command named an unregistered team.
	ErrTeamNotFound = errors.New("team not found")

	// ErrSameTeam indicates both sides of a game sheet resolve to the same team.
	ErrSameTeam = errors.New("a team cannot play itself")

	// ErrTeamExists indicates a team with the same name (ignoring case) is registered.
	ErrTeamExists = errors.New("team already exists")

	// ErrPlayerExists indicates the team already has a player with the same code.
	ErrPlayerExists = errors.New("player code already used in team")

	ErrPlayerNotFound = errors.New("player not found")
	ErrGameNotFound   = errors.New("game not found")

	// ErrInvalidName indicates a blank team or player name.
	ErrInvalidName = errors.New("name must not be blank")
)
