// Package migrations embeds the goose SQL migrations.
// They are written in the SQL subset shared by PostgreSQL & SQLite.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
