// Package assets bundles files the server needs at runtime into the binary.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed sql/*.sql
var sqlFS embed.FS

// Migrations returns the SQL migrations, rooted so that names are "001_init.sql" etc.
func Migrations() fs.FS {
	sub, err := fs.Sub(sqlFS, "sql")
	if err != nil {
		// sql/ is embedded at build time; Sub only fails on a malformed path.
		panic(err)
	}
	return sub
}
