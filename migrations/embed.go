// Package migrations embeds the SQL schema applied by platform/db.Migrate.
package migrations

import "embed"

// FS holds every *.up.sql file.
//
//go:embed *.up.sql
var FS embed.FS
