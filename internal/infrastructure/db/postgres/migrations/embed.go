package migrations

import "embed"

// FS contains the embedded goose migrations for the Postgres store.
//
//go:embed *.sql
var FS embed.FS
