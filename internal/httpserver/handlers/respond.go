package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medleyhq/medley/internal/auth"
	"github.com/medleyhq/medley/internal/domain"
	"github.com/medleyhq/medley/internal/search"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps the error taxonomy onto HTTP statuses. The
// message is always safe to show the client.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		vErr   *domain.ValidationError
		nameEr *domain.DuplicateNameError
		vidEr  *domain.DuplicateVideoError
		nfErr  *domain.NotFoundError
	)
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Error())
	case errors.As(err, &nameEr):
		writeError(w, http.StatusConflict, nameEr.Error())
	case errors.As(err, &vidEr):
		writeError(w, http.StatusConflict, "Video already in this playlist.")
	case errors.As(err, &nfErr):
		writeError(w, http.StatusNotFound, nfErr.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username already taken")
	case errors.Is(err, search.ErrNoAPIKey):
		writeError(w, http.StatusServiceUnavailable, "search is not configured, paste a video link instead")
	case errors.Is(err, search.ErrUpstream):
		writeError(w, http.StatusBadGateway, "video service unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
