// Package assets embeds the files the server needs at runtime:
// SQL migrations and the default difficulty presets.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed presets.yaml sql/*.sql
var FS embed.FS

// Presets returns the embedded default presets document.
func Presets() ([]byte, error) {
	return FS.ReadFile("presets.yaml")
}

// Migrations returns the migrations directory rooted at "sql".
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// "sql" is part of the embed pattern; Sub only fails on a bad path.
		panic(err)
	}
	return sub
}
