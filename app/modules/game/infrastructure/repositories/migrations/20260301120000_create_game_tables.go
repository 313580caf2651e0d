package gamemigrations

import (
	"context"
	"fmt"

	gamedb "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating game module tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*gamedb.Team)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create teams table: %w", err)
			}
			if _, err := tx.NewCreateTable().
				Model((*gamedb.Player)(nil)).
				IfNotExists().
				ForeignKey(`("team_id") REFERENCES "teams" ("id") ON DELETE CASCADE`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create players table: %w", err)
			}
			if _, err := tx.NewCreateTable().
				Model((*gamedb.Game)(nil)).
				IfNotExists().
				ForeignKey(`("team1_id") REFERENCES "teams" ("id")`).
				ForeignKey(`("team2_id") REFERENCES "teams" ("id")`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create games table: %w", err)
			}
			if _, err := tx.NewCreateTable().
				Model((*gamedb.PassBlock)(nil)).
				IfNotExists().
				ForeignKey(`("game_id") REFERENCES "games" ("id") ON DELETE CASCADE`).
				ForeignKey(`("team_id") REFERENCES "teams" ("id")`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create passes table: %w", err)
			}

			indices := []string{
				`CREATE UNIQUE INDEX IF NOT EXISTS idx_teams_lower_name ON teams (lower(name))`,
				`CREATE UNIQUE INDEX IF NOT EXISTS idx_players_team_code ON players (team_id, p_code)`,
				`CREATE INDEX IF NOT EXISTS idx_players_code ON players (p_code)`,
				`CREATE INDEX IF NOT EXISTS idx_passes_game_id ON passes (game_id)`,
			}
			for _, stmt := range indices {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to create game module index: %w", err)
				}
			}

			fmt.Println("Game module tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping game module tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			models := []interface{}{
				(*gamedb.PassBlock)(nil),
				(*gamedb.Game)(nil),
				(*gamedb.Player)(nil),
				(*gamedb.Team)(nil),
			}
			for _, m := range models {
				if _, err := tx.NewDropTable().Model(m).IfExists().Cascade().Exec(ctx); err != nil {
					return fmt.Errorf("failed to drop table: %w", err)
				}
			}
			return nil
		})
	})
}
