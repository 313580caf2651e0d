package main

import (
	"fmt"
	"strings"

	gamemigrations "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/ultistats/config"
	"github.com/Black-And-White-Club/ultistats/internal/db/bundb"
	"github.com/Black-And-White-Club/ultistats/internal/observability"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

// withMigrator connects to Postgres without the rest of the application.
func withMigrator(c *cli.Context, fn func(m *migrate.Migrator) error) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.RequirePostgres(); err != nil {
		return err
	}
	logger := observability.NewLogger(cfg.Observability, c.App.ErrWriter)

	db, err := bundb.Open(c.Context, cfg.Postgres.DSN, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(migrate.NewMigrator(db, gamemigrations.Migrations))
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrate.Migrator) error {
						return m.Init(c.Context)
					})
				},
			},
			{
				Name:  "up",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrate.Migrator) error {
						if err := m.Lock(c.Context); err != nil {
							return err
						}
						defer m.Unlock(c.Context)

						group, err := m.Migrate(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Fprintln(c.App.Writer, "No new migrations to run")
						} else {
							fmt.Fprintf(c.App.Writer, "Migrated to %s\n", group)
						}
						return nil
					})
				},
			},
			{
				Name:  "down",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrate.Migrator) error {
						if err := m.Lock(c.Context); err != nil {
							return err
						}
						defer m.Unlock(c.Context)

						group, err := m.Rollback(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Fprintln(c.App.Writer, "No groups to roll back")
						} else {
							fmt.Fprintf(c.App.Writer, "Rolled back %s\n", group)
						}
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrate.Migrator) error {
						ms, err := m.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "Migrations: %s\n", ms)
						fmt.Fprintf(c.App.Writer, "Applied: %s\n", ms.Applied())
						fmt.Fprintf(c.App.Writer, "Unapplied: %s\n", ms.Unapplied())
						return nil
					})
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrate.Migrator) error {
						name := strings.Join(c.Args().Slice(), "_")
						mf, err := m.CreateGoMigration(c.Context, name)
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "Created migration %s (%s)\n", mf.Name, mf.Path)
						return nil
					})
				},
			},
		},
	}
}
