package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medleyhq/medley/internal/auth"
	"github.com/medleyhq/medley/internal/index"
	"github.com/medleyhq/medley/internal/logger"
	"github.com/medleyhq/medley/internal/playlists"
	"github.com/medleyhq/medley/internal/search"
	"github.com/medleyhq/medley/internal/upload"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	Auth      *auth.Service
	Tokens    *auth.TokenIssuer
	Playlists *playlists.Service
	Search    *search.Client
	Uploads   *upload.Service
	Cache     *index.CollectionCache

	RedisClient *redis.Client // nil when the remote location is disabled

	PublicDir      string   // static frontend assets, empty = not served
	AllowedOrigins []string // CORS origins, "*" = any
	TrustProxy     bool     // true if behind a trusted reverse proxy

	AuthRatePerMin int // per-IP budget on register/login
	AuthRateBurst  int
}
