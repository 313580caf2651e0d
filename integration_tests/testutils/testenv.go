package testutils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	gamemigrations "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/ultistats/integration_tests/containers"
	"github.com/Black-And-White-Club/ultistats/internal/db/bundb"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// TestEnvironment holds the containers and connections shared by integration tests.
type TestEnvironment struct {
	Ctx            context.Context
	CancelContext  context.CancelFunc
	PgContainer    *postgres.PostgresContainer
	RedisContainer testcontainers.Container
	DB             *bun.DB
	DSN            string
	RedisURL       string
}

// SkipUnlessIntegration skips t in -short mode or when Docker is unavailable.
func SkipUnlessIntegration(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// NewTestEnvironment starts Postgres and Redis and applies the migrations.
func NewTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())
	env := &TestEnvironment{Ctx: ctx, CancelContext: cancel}

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	env.PgContainer = pgContainer
	env.DSN = dsn

	redisContainer, redisURL, err := containers.SetupRedisContainer(ctx)
	if err != nil {
		env.Cleanup()
		return nil, err
	}
	env.RedisContainer = redisContainer
	env.RedisURL = redisURL

	db, err := bundb.Open(ctx, dsn, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		env.Cleanup()
		return nil, err
	}
	env.DB = db

	if err := runMigrations(ctx, db); err != nil {
		env.Cleanup()
		return nil, err
	}
	return env, nil
}

func runMigrations(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, gamemigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run game migrations: %w", err)
	}
	return nil
}

// Reset truncates every game table.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	_, err := env.DB.ExecContext(ctx, "TRUNCATE TABLE passes, games, players, teams RESTART IDENTITY CASCADE")
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

// Cleanup closes connections and terminates the containers.
func (env *TestEnvironment) Cleanup() {
	if env.DB != nil {
		env.DB.Close()
	}
	if env.RedisContainer != nil {
		env.RedisContainer.Terminate(context.Background())
	}
	if env.PgContainer != nil {
		env.PgContainer.Terminate(context.Background())
	}
	env.CancelContext()
}
