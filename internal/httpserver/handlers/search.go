package handlers

import (
	"net/http"

	"github.com/medleyhq/medley/internal/httpserver/deps"
	"github.com/medleyhq/medley/internal/search"
)

type searchResponse struct {
	Items []search.Result `json:"items"`
	Total int             `json:"total"`
}

// Search handles GET /api/search?q=. A pasted YouTube URL is resolved
// directly (no API key needed); anything else goes through text
// search.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")

		if search.IsYouTubeURL(q) {
			result, err := d.Search.ResolveLink(r.Context(), q)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, searchResponse{Items: []search.Result{result}, Total: 1})
			return
		}

		items, err := d.Search.Search(r.Context(), q)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, searchResponse{Items: items, Total: len(items)})
	}
}
