// Package migrations embeds the SQL migration files so the server binary
// carries its own schema.
package migrations

import "embed"

// FS holds the embedded migration files.
//
//go:embed *.sql
var FS embed.FS
