package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	gamedb "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/repositories"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const pingTimeout = 5 * time.Second

// Open connects to Postgres and returns a bun handle with the game models
// registered. The caller owns the handle and must Close it.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	db.RegisterModel((*gamedb.Team)(nil), (*gamedb.Player)(nil), (*gamedb.Game)(nil), (*gamedb.PassBlock)(nil))

	logger.InfoContext(ctx, "Database connection established",
		attr.Int("max_open_conns", sqldb.Stats().MaxOpenConnections),
	)
	return db, nil
}
