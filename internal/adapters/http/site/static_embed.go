package site

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

// FS returns the embedded single-page shell.
func FS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Only possible if the embed directive and the directory disagree.
		return staticFS
	}
	return sub
}
