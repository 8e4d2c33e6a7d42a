// Package migrations holds the RF2 snapshot schema LEVI reads from. LEVI
// never applies it to a production database; it exists for local setups
// (go tool goose) and for the integration tests.
package migrations

import "embed"

// FS contains the goose migration files.
//
//go:embed *.sql
var FS embed.FS
