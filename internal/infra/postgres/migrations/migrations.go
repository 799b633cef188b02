// Package migrations holds the bun schema migrations.
package migrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
