// Package migrations embeds the SQL schema migrations
// (order matters: 001, 002, ...).
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
