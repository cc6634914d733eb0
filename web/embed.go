// Package web embeds the alert dashboard.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var staticFS embed.FS

// Static returns the dashboard assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory exists
	}
	return sub
}
