package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/medleyhq/medley/internal/httpserver/deps"
	"github.com/medleyhq/medley/internal/httpserver/handlers"
	"github.com/medleyhq/medley/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

// Register and login sit behind a per-IP rate limit so credential
// stuffing burns out quickly.
func registerAuth(r chi.Router, d deps.Deps) {
	limited := r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.AuthRateBurst,
		RefillPerIPPerMin: d.AuthRatePerMin,
		TrustProxy:        d.TrustProxy,
	}))
	limited.Post("/api/register", handlers.Register(d))
	limited.Post("/api/login", handlers.Login(d))
}
