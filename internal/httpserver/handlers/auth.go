package handlers

import (
	"net/http"

	"github.com/medleyhq/medley/internal/domain"
	"github.com/medleyhq/medley/internal/httpserver/deps"
)

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	ImageURL  string `json:"imageUrl"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

func Register(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		user, token, err := d.Auth.Register(r.Context(), req.Username, req.Password, req.FirstName, req.ImageURL)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sessionResponse{User: user, Token: token})
	}
}

func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		user, token, err := d.Auth.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{User: user, Token: token})
	}
}
