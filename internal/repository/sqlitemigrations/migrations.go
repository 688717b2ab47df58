// Package sqlitemigrations embeds the SQLite schema of the blob store.
package sqlitemigrations

import "embed"

//go:embed *.sql
var FS embed.FS
