// Package migrations embeds the SQL schema files so the binaries can apply
// them regardless of working directory.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
