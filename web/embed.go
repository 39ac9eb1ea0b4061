package web

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var content embed.FS

// GetStaticFS returns the embedded landing page files
func GetStaticFS() fs.FS {
	staticFS, _ := fs.Sub(content, "static")
	return staticFS
}
