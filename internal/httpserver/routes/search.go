package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/medleyhq/medley/internal/httpserver/deps"
	"github.com/medleyhq/medley/internal/httpserver/handlers"
	"github.com/medleyhq/medley/internal/httpserver/mw"
)

func init() { Register(registerSearch) }

func registerSearch(r chi.Router, d deps.Deps) {
	r.With(mw.RequireUser(d.Tokens, d.Logger)).Get("/api/search", handlers.Search(d))
}
