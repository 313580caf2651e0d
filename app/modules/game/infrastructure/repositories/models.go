package gamedb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Team holds a team and its accumulated standings.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	Name          string `bun:"name,notnull" json:"name"`
	GamesPlayed   int    `bun:"g_played,notnull,default:0" json:"g_played"`
	GamesWon      int    `bun:"g_won,notnull,default:0" json:"g_won"`
	GamesLost     int    `bun:"g_lost,notnull,default:0" json:"g_lost"`
	GamesDrawn    int    `bun:"g_drawn,notnull,default:0" json:"g_drawn"`
	PointsFor     int    `bun:"p_for,notnull,default:0" json:"p_for"`
	PointsAgainst int    `bun:"p_against,notnull,default:0" json:"p_against"`
}

// PointDifference is points scored minus points conceded.
func (t *Team) PointDifference() int {
	return t.PointsFor - t.PointsAgainst
}

// Player is a registered team member and their lifetime credits.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Name     string `bun:"name,notnull" json:"name"`
	Code     string `bun:"p_code,notnull" json:"p_code"`
	TeamID   int64  `bun:"team_id,notnull" json:"team_id"`
	Throws   int    `bun:"throws,notnull,default:0" json:"throws"`
	Drops    int    `bun:"drops,notnull,default:0" json:"drops"`
	Snatches int    `bun:"snatches,notnull,default:0" json:"snatches"`
	Fouls    int    `bun:"fouls,notnull,default:0" json:"fouls"`
	Catches  int    `bun:"catches,notnull,default:0" json:"catches"`

	Team *Team `bun:"rel:belongs-to,join:team_id=id" json:"-"`
}

// Game is the final score of one match between two teams.
type Game struct {
	bun.BaseModel `bun:"table:games,alias:g"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	Team1ID    int64     `bun:"team1_id,notnull" json:"team1_id"`
	Team2ID    int64     `bun:"team2_id,notnull" json:"team2_id"`
	Point1     int       `bun:"point1,notnull" json:"point1"`
	Point2     int       `bun:"point2,notnull" json:"point2"`
	Source     string    `bun:"source" json:"source,omitempty"`
	ImportedAt time.Time `bun:"imported_at,nullzero,notnull,default:current_timestamp" json:"imported_at"`

	Team1 *Team `bun:"rel:belongs-to,join:team1_id=id" json:"-"`
	Team2 *Team `bun:"rel:belongs-to,join:team2_id=id" json:"-"`
}

var _ bun.BeforeInsertHook = (*Game)(nil)

func (g *Game) BeforeInsert(ctx context.Context, _ *bun.InsertQuery) error {
	if g.ImportedAt.IsZero() {
		g.ImportedAt = time.Now().UTC()
	}
	return nil
}

// PassBlock is the raw pass notation one team recorded for one game.
type PassBlock struct {
	bun.BaseModel `bun:"table:passes,alias:ps"`

	ID         int64  `bun:"id,pk,autoincrement" json:"id"`
	PassString string `bun:"pass_string,notnull" json:"pass_string"`
	GameID     int64  `bun:"game_id,notnull" json:"game_id"`
	TeamID     int64  `bun:"team_id,notnull" json:"team_id"`
}

// CreditDelta is the amount added to a player's counters by one import.
type CreditDelta struct {
	Catches  int
	Drops    int
	Throws   int
	Snatches int
	Fouls    int
}
