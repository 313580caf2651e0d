package gamedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new game repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation
}

// --- Teams ---

func (r *Impl) CreateTeam(ctx context.Context, db bun.IDB, name string) (*Team, error) {
	db = r.resolveDB(db)
	team := &Team{Name: name}
	if _, err := db.NewInsert().Model(team).Returning("*").Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("team %q: %w", name, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (r *Impl) LookupTeamID(ctx context.Context, db bun.IDB, name string) (int64, error) {
	db = r.resolveDB(db)
	team := new(Team)
	err := db.NewSelect().
		Model(team).
		Column("id").
		Where("lower(name) = lower(?)", name).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to look up team %q: %w", name, err)
	}
	return team.ID, nil
}

func (r *Impl) GetTeam(ctx context.Context, db bun.IDB, teamID int64) (*Team, error) {
	db = r.resolveDB(db)
	team := new(Team)
	err := db.NewSelect().
		Model(team).
		Where("id = ?", teamID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	return team, nil
}

func (r *Impl) ListTeams(ctx context.Context, db bun.IDB) ([]Team, error) {
	db = r.resolveDB(db)
	var teams []Team
	err := db.NewSelect().
		Model(&teams).
		Order("g_won DESC", "g_drawn DESC").
		OrderExpr("(p_for - p_against) DESC").
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// --- Players ---

func (r *Impl) CreatePlayer(ctx context.Context, db bun.IDB, player *Player) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(player).Returning("*").Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("player code %q in team %d: %w", player.Code, player.TeamID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *Impl) GetPlayer(ctx context.Context, db bun.IDB, playerID int64) (*Player, error) {
	db = r.resolveDB(db)
	player := new(Player)
	err := db.NewSelect().
		Model(player).
		Where("p.id = ?", playerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", playerID, err)
	}
	return player, nil
}

func (r *Impl) GetPlayerByCode(ctx context.Context, db bun.IDB, code string) (*Player, error) {
	db = r.resolveDB(db)
	player := new(Player)
	err := db.NewSelect().
		Model(player).
		Where("p_code = ?", code).
		Order("id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get player by code %q: %w", code, err)
	}
	return player, nil
}

func (r *Impl) ListPlayers(ctx context.Context, db bun.IDB, teamID int64) ([]Player, error) {
	db = r.resolveDB(db)
	var players []Player
	err := db.NewSelect().
		Model(&players).
		Where("team_id = ?", teamID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for team %d: %w", teamID, err)
	}
	return players, nil
}

func (r *Impl) CountPlayers(ctx context.Context, db bun.IDB, teamID int64) (int, error) {
	db = r.resolveDB(db)
	count, err := db.NewSelect().
		Model((*Player)(nil)).
		Where("team_id = ?", teamID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count players for team %d: %w", teamID, err)
	}
	return count, nil
}

func (r *Impl) IncrementPlayerCredits(ctx context.Context, db bun.IDB, teamID int64, code string, delta CreditDelta) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Player)(nil)).
		Set("catches = catches + ?", delta.Catches).
		Set("drops = drops + ?", delta.Drops).
		Set("throws = throws + ?", delta.Throws).
		Set("snatches = snatches + ?", delta.Snatches).
		Set("fouls = fouls + ?", delta.Fouls).
		Where("team_id = ?", teamID).
		Where("p_code = ?", code).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update credits for %q: %w", code, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Games ---

func (r *Impl) CreateGame(ctx context.Context, db bun.IDB, game *Game) error {
	db = r.resolveDB(db)

	// Lock in id order so concurrent imports touching the same pair cannot deadlock.
	var teams []Team
	err := db.NewSelect().
		Model(&teams).
		Column("id").
		Where("id IN (?)", bun.In([]int64{game.Team1ID, game.Team2ID})).
		Order("id ASC").
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("failed to lock teams: %w", err)
	}
	if len(teams) != 2 {
		return fmt.Errorf("teams %d and %d: %w", game.Team1ID, game.Team2ID, ErrNotFound)
	}

	if _, err := db.NewInsert().Model(game).Returning("*").Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	d1, d2 := gameDeltas(game.Point1, game.Point2)
	if err := applyStandings(ctx, db, game.Team1ID, d1); err != nil {
		return err
	}
	return applyStandings(ctx, db, game.Team2ID, d2)
}

func applyStandings(ctx context.Context, db bun.IDB, teamID int64, d standingsDelta) error {
	res, err := db.NewUpdate().
		Model((*Team)(nil)).
		Set("g_played = g_played + 1").
		Set("g_won = g_won + ?", d.won).
		Set("g_lost = g_lost + ?", d.lost).
		Set("g_drawn = g_drawn + ?", d.drawn).
		Set("p_for = p_for + ?", d.pointsFor).
		Set("p_against = p_against + ?", d.pointsAgainst).
		Where("id = ?", teamID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update standings for team %d: %w", teamID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *Impl) StorePassBlock(ctx context.Context, db bun.IDB, block *PassBlock) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(block).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("failed to store pass block for game %d: %w", block.GameID, err)
	}
	return nil
}

func (r *Impl) GetPassBlocks(ctx context.Context, db bun.IDB, gameID int64) ([]PassBlock, error) {
	db = r.resolveDB(db)
	var blocks []PassBlock
	err := db.NewSelect().
		Model(&blocks).
		Where("game_id = ?", gameID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pass blocks for game %d: %w", gameID, err)
	}
	return blocks, nil
}
