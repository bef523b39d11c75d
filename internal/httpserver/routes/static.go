package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medleyhq/medley/internal/httpserver/deps"
)

func init() { Register(registerStatic) }

// Uploaded audio is served under /uploads/ so playlist entries can
// reference their filePath directly. The frontend bundle, when
// present, is served from the root.
func registerStatic(r chi.Router, d deps.Deps) {
	uploads := http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.Uploads.Dir())))
	r.Get("/uploads/*", uploads.ServeHTTP)

	if d.PublicDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(d.PublicDir)))
	}
}
