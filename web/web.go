// Package web embeds the HTML templates served by the API.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var files embed.FS

// Templates returns the template directory as an http.FileSystem rooted at
// templates/, so views are addressed by bare name ("index").
func Templates() http.FileSystem {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
