package migrations

import "embed"

// FS embeds the SQL migration files shared by the SQLite and Postgres
// storage backends.
//
//go:embed *.sql
var FS embed.FS
