package gamerouter

import (
	"context"

	gamedb "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/repositories"
)

// StandingsService is the part of the game service the event handlers use.
type StandingsService interface {
	RefreshStandings(ctx context.Context) ([]gamedb.Team, error)
}
