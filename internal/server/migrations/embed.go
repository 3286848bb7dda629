// Package migrations embeds the goose migrations for the Postgres
// credential store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
