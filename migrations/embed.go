// Package migrations embeds the SQLite schema migrations.
package migrations

import "embed"

// FS holds the golang-migrate style up/down files.
//
//go:embed *.sql
var FS embed.FS
