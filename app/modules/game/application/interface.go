package gameservice

import (
	"context"

	"github.com/Black-And-White-Club/ultistats/app/modules/game/application/notation"
	gamedb "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/repositories"
)

// Service is the game module's application API.
type Service interface {
	// ImportGameSheet parses data and stores the game, its pass blocks and the
	// resulting player credits in a single transaction. source names the sheet in
	// errors and events.
	ImportGameSheet(ctx context.Context, source string, data []byte) (*ImportResult, error)
	ImportGameFile(ctx context.Context, path string) (*ImportResult, error)

	// AnalyzePasses computes credits for pass notation without storing anything.
	AnalyzePasses(ctx context.Context, passText string) *notation.PlayerCredits

	AddTeam(ctx context.Context, name string) (*gamedb.Team, error)
	AddPlayer(ctx context.Context, name, teamName string) (*gamedb.Player, error)

	TeamStats(ctx context.Context, teamName string) (*gamedb.Team, error)
	PlayerStats(ctx context.Context, playerID int64) (*gamedb.Player, error)
	PlayerFullName(ctx context.Context, code string) (string, error)
	PlayerCount(ctx context.Context, teamName string) (int, error)
	TeamPlayers(ctx context.Context, teamName string) ([]gamedb.Player, error)
	GamePasses(ctx context.Context, gameID int64) ([]gamedb.PassBlock, error)

	// Standings returns every team in standings order.
	Standings(ctx context.Context) ([]gamedb.Team, error)

	// RefreshStandings reloads the standings from storage, bypassing and then
	// replacing the cached copy.
	RefreshStandings(ctx context.Context) ([]gamedb.Team, error)
}

// TeamImport is one side of an imported game.
type TeamImport struct {
	TeamID  int64                   `json:"team_id"`
	Name    string                  `json:"name"`
	Points  int                     `json:"points"`
	Credits *notation.PlayerCredits `json:"credits"`

	// UnknownCodes lists codes in the pass block with no registered player.
	// Their credits were not stored.
	UnknownCodes []string `json:"unknown_codes"`
}

// ImportResult describes a committed game sheet.
type ImportResult struct {
	GameID int64      `json:"game_id"`
	Source string     `json:"source,omitempty"`
	Team1  TeamImport `json:"team1"`
	Team2  TeamImport `json:"team2"`
}
