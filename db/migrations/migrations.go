// Package migrations embeds the goose SQL migration files for the road
// network store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
