// Package migrations embeds the journal's SQL migrations into the binary.
package migrations

import "embed"

// FS holds the versioned migration files at its root, ready for
// database.DB.Migrate.
//
//go:embed *.sql
var FS embed.FS
