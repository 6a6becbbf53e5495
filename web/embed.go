// Package web embeds the triage page served at /.
package web

import (
	"embed"
	"io/fs"
	"sync"
)

//go:embed all:dist
var embedded embed.FS

// Assets returns the page files rooted at dist/, so "index.html" resolves directly.
var Assets = sync.OnceValues(func() (fs.FS, error) {
	return fs.Sub(embedded, "dist")
})

// Index returns the triage page.
func Index() ([]byte, error) {
	assets, err := Assets()
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(assets, "index.html")
}
