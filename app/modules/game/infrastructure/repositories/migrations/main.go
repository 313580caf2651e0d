package gamemigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the schema changes of the game module.
var Migrations = migrate.NewMigrations()

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
