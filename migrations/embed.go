// Package migrations embeds the sandbox schema into the binary.
//
// Pass FS to database.DB.Migrate.
package migrations

import "embed"

// FS holds the *.sql migration files at its root.
//
//go:embed *.sql
var FS embed.FS
