package web

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static
var content embed.FS

// StaticFS returns the static file system holding the pages and their assets.
func StaticFS() (fs.FS, error) {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		return nil, fmt.Errorf("creating static sub-filesystem: %w", err)
	}
	return sub, nil
}
