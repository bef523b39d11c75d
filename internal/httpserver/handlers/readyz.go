package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/medleyhq/medley/internal/httpserver/deps"
	"github.com/medleyhq/medley/internal/logger"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Redis string `json:"redis,omitempty"` // "ok" | "down", absent when disabled
}

// Readyz reports readiness. The file locations need no probing; when
// the remote location is enabled a failing Redis ping flips the
// endpoint to 503 so the instance is pulled from rotation.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := readyzResponse{Ready: true}

		if d.RedisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.RedisClient.Ping(ctx).Err(); err != nil {
				d.Logger.Warn("readiness redis ping failed", logger.Error(err))
				resp.Ready = false
				resp.Redis = "down"
				writeJSON(w, http.StatusServiceUnavailable, resp)
				return
			}
			resp.Redis = "ok"
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
