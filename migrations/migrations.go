// Package migrations embeds the postgres schema migrations so the server and
// the migrate CLI can run them without a migrations directory on disk.
package migrations

import "embed"

// FS holds every *.sql migration in golang-migrate naming
//
//go:embed *.sql
var FS embed.FS
