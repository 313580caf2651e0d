package gamedb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for team, player, game and pass persistence.
// Every method accepts a bun.IDB so the caller decides the transaction scope; a
// nil db falls back to the repository's own connection.
//
// Error semantics:
//   - ErrNotFound: Record does not exist
//   - ErrDuplicate: Team name or player code already registered
//   - Other errors: Infrastructure failures (DB connection, query errors)
type Repository interface {
	// CreateTeam registers a team with zeroed standings.
	CreateTeam(ctx context.Context, db bun.IDB, name string) (*Team, error)

	// LookupTeamID resolves a team name, ignoring case.
	LookupTeamID(ctx context.Context, db bun.IDB, name string) (int64, error)

	GetTeam(ctx context.Context, db bun.IDB, teamID int64) (*Team, error)

	// ListTeams returns every team in standings order.
	ListTeams(ctx context.Context, db bun.IDB) ([]Team, error)

	CreatePlayer(ctx context.Context, db bun.IDB, player *Player) error
	GetPlayer(ctx context.Context, db bun.IDB, playerID int64) (*Player, error)

	// GetPlayerByCode returns the first registered player using code.
	GetPlayerByCode(ctx context.Context, db bun.IDB, code string) (*Player, error)

	ListPlayers(ctx context.Context, db bun.IDB, teamID int64) ([]Player, error)
	CountPlayers(ctx context.Context, db bun.IDB, teamID int64) (int, error)

	// IncrementPlayerCredits adds delta to the counters of the team's player with code.
	// Returns ErrNotFound when the team has no such player.
	IncrementPlayerCredits(ctx context.Context, db bun.IDB, teamID int64, code string, delta CreditDelta) error

	// CreateGame stores a game and applies its result to both teams' standings.
	// Both team rows are locked for the rest of the transaction.
	CreateGame(ctx context.Context, db bun.IDB, game *Game) error

	StorePassBlock(ctx context.Context, db bun.IDB, block *PassBlock) error

	// GetPassBlocks returns the pass blocks of a game in insertion order.
	GetPassBlocks(ctx context.Context, db bun.IDB, gameID int64) ([]PassBlock, error)
}
