package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/* templates/*
var assets embed.FS

// Assets exposes the embedded tree. Paths are rooted at "static/" and
// "templates/", so a URL path such as /static/site.css maps to
// static/site.css after trimming the leading slash.
func Assets() fs.FS {
	return assets
}

// FS returns an http.FileSystem for the embedded static directory.
func FS() http.FileSystem {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		// Only fails for an invalid path literal.
		return http.FS(assets)
	}
	return http.FS(sub)
}
