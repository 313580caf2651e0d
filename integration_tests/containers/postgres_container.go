package containers

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pgDatabase = "ultistats"
	pgUser     = "testuser"
	pgPassword = "testpass"
	pgImage    = "postgres:16-alpine"
)

// SetupPostgresContainer starts a Postgres testcontainer and returns the container and connection string.
func SetupPostgresContainer(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	pgContainer, err := postgres.Run(ctx,
		pgImage,
		postgres.WithDatabase(pgDatabase),
		postgres.WithUsername(pgUser),
		postgres.WithPassword(pgPassword),
		testcontainers.WithWaitStrategy(
			wait.ForSQL("5432/tcp", "pgx",
				func(host string, port nat.Port) string {
					return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
						pgUser, pgPassword, host, port.Port(), pgDatabase)
				},
			).WithStartupTimeout(45*time.Second),
		),
	)
	if err != nil {
		if pgContainer != nil {
			pgContainer.Terminate(ctx)
		}
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx)
	if err != nil {
		pgContainer.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to get postgres connection string: %w", err)
	}

	parsedURL, err := url.Parse(connStr)
	if err != nil {
		pgContainer.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to parse connection string: %w", err)
	}
	query := parsedURL.Query()
	query.Set("sslmode", "disable")
	parsedURL.RawQuery = query.Encode()

	return pgContainer, parsedURL.String(), nil
}
