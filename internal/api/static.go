package api

import (
	"bytes"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/yegors/flight-tracker/pkg/logger"
	"github.com/yegors/flight-tracker/web"
)

// StaticFileHandler serves the browser client. Existing files are served as
// is; every other path gets the application shell so client-side routes work.
type StaticFileHandler struct {
	fsys    fs.FS
	index   []byte
	modTime time.Time
	logger  *logger.Logger
}

// NewStaticFileHandler serves from dir, or from the embedded client when dir is empty
func NewStaticFileHandler(dir string, logger *logger.Logger) (*StaticFileHandler, error) {
	var fsys fs.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	} else {
		var err error
		fsys, err = web.Static()
		if err != nil {
			return nil, err
		}
	}
	return NewStaticFileHandlerFS(fsys, logger)
}

// NewStaticFileHandlerFS serves from fsys, which must contain index.html
func NewStaticFileHandlerFS(fsys fs.FS, logger *logger.Logger) (*StaticFileHandler, error) {
	index, err := fs.ReadFile(fsys, "index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read application shell: %w", err)
	}

	return &StaticFileHandler{
		fsys:    fsys,
		index:   index,
		modTime: time.Now(),
		logger:  logger.Named("static-files"),
	}, nil
}

// ServeHTTP implements http.Handler
func (h *StaticFileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name != "" && name != "index.html" {
		if info, err := fs.Stat(h.fsys, name); err == nil && !info.IsDir() {
			http.ServeFileFS(w, r, h.fsys, name)
			return
		}
	}

	h.logger.Debug("Serving application shell", logger.String("path", r.URL.Path))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "index.html", h.modTime, bytes.NewReader(h.index))
}
