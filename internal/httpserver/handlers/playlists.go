package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medleyhq/medley/internal/domain"
	"github.com/medleyhq/medley/internal/httpserver/deps"
	"github.com/medleyhq/medley/internal/httpserver/mw"
)

type collectionResponse struct {
	Playlists []domain.Playlist `json:"playlists"`
	ActiveID  string            `json:"activeId,omitempty"`
	Source    string            `json:"source"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type activeRequest struct {
	ID string `json:"id"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

// GetCollection returns the user's whole collection with the active
// selection and the storage location it resolved from.
//
// Playlist handlers identify the collection by the authenticated
// token's username, not the raw URL parameter: RequireUser matches
// the two case-insensitively, so the token casing is the canonical
// one and every casing of the path reaches the same collection.
func GetCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		col := d.Playlists.LoadCollection(r.Context(), mw.UserFromContext(r.Context()))
		writeJSON(w, http.StatusOK, collectionResponse{
			Playlists: col.Playlists,
			ActiveID:  col.ActiveID,
			Source:    string(col.Source),
		})
	}
}

func CreatePlaylist(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		pl, err := d.Playlists.CreatePlaylist(r.Context(), mw.UserFromContext(r.Context()), req.Name)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, pl)
	}
}

func RenamePlaylist(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		pl, err := d.Playlists.RenamePlaylist(r.Context(), mw.UserFromContext(r.Context()), chi.URLParam(r, "id"), req.Name)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if pl == nil {
			// Unknown id: absorbed as a harmless no-op.
			writeJSON(w, http.StatusOK, okResponse{OK: true})
			return
		}
		writeJSON(w, http.StatusOK, pl)
	}
}

// DeletePlaylist removes a playlist. The client passes its
// confirmation as ?confirm=true; without it nothing is deleted.
func DeletePlaylist(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		confirmed := r.URL.Query().Get("confirm") == "true"
		err := d.Playlists.DeletePlaylist(r.Context(), mw.UserFromContext(r.Context()), chi.URLParam(r, "id"), confirmed)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	}
}

// AddVideo appends a video record to a playlist. The body is taken as
// a loose record and normalized server-side, so any client build's
// field names are accepted.
func AddVideo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		if err := decodeBody(r, &raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		entry, err := d.Playlists.AddVideo(r.Context(), mw.UserFromContext(r.Context()), chi.URLParam(r, "id"), raw)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if entry == nil {
			// Unknown playlist: absorbed as a harmless no-op.
			writeJSON(w, http.StatusOK, okResponse{OK: true})
			return
		}
		writeJSON(w, http.StatusCreated, entry)
	}
}

func RemoveVideo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.Playlists.RemoveVideo(r.Context(),
			mw.UserFromContext(r.Context()), chi.URLParam(r, "id"), chi.URLParam(r, "videoId"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	}
}

type viewResponse struct {
	Videos []domain.VideoEntry `json:"videos"`
	Total  int                 `json:"total"`
}

// PlaylistView renders the filtered/sorted projection of one
// playlist: ?filter= substring-matches titles, ?sort= is one of az,
// newest, oldest, rating.
func PlaylistView(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := domain.View{
			FilterText: r.URL.Query().Get("filter"),
			Sort:       domain.ParseSortMode(r.URL.Query().Get("sort")),
		}

		videos, err := d.Playlists.RenderView(r.Context(), mw.UserFromContext(r.Context()), chi.URLParam(r, "id"), view)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewResponse{Videos: videos, Total: len(videos)})
	}
}

// SetActive switches the session's active playlist.
func SetActive(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req activeRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		if err := d.Playlists.SetActive(r.Context(), mw.UserFromContext(r.Context()), req.ID); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	}
}
