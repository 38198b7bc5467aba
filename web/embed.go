// Package web holds the browser client served by the proxy.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// Static returns the client files rooted at the directory holding index.html
func Static() (fs.FS, error) {
	return fs.Sub(static, "static")
}
