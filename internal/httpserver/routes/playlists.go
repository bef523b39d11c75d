package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/medleyhq/medley/internal/httpserver/deps"
	"github.com/medleyhq/medley/internal/httpserver/handlers"
	"github.com/medleyhq/medley/internal/httpserver/mw"
)

func init() { Register(registerPlaylists) }

func registerPlaylists(r chi.Router, d deps.Deps) {
	r.Route("/api/playlists/{username}", func(r chi.Router) {
		r.Use(mw.RequireUser(d.Tokens, d.Logger))

		r.Get("/", handlers.GetCollection(d))
		r.Post("/", handlers.CreatePlaylist(d))
		r.Put("/active", handlers.SetActive(d))

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", handlers.RenamePlaylist(d))
			r.Delete("/", handlers.DeletePlaylist(d))
			r.Get("/view", handlers.PlaylistView(d))
			r.Post("/videos", handlers.AddVideo(d))
			r.Delete("/videos/{videoId}", handlers.RemoveVideo(d))
		})
	})
}
