package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":3000"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	DataDir   string // directory for the JSON data files
	UploadDir string // directory uploaded MP3s land in
	PublicDir string // static frontend assets, empty = not served

	StorageLayoutFile string // optional YAML file overriding the storage layout
	PlaylistsFile     string // standalone mapping document (default: <DataDir>/playlists.json)
	UsersFile         string // user registry document (default: <DataDir>/users.json)
	SaveTimeout       time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	YouTubeAPIKey string // optional, empty = text search disabled (link paste still works)

	CacheTTL   time.Duration // idle collections are evicted after this
	GCInterval time.Duration // how often the evictor runs

	AuthRatePerMin int // per-IP rate limit on register/login
	AuthRateBurst  int

	AllowedOrigins []string // CORS origins, "*" = any
	TrustProxy     bool     // true => trust X-Forwarded-For headers

	// Redis (optional remote location, enabled when Addr is set)
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisWarnThreshold  int           // warn after this many attempts
}

func Load() *Config {
	// A local .env is a dev convenience; absence is not an error.
	_ = godotenv.Load()

	dataDir := getenv("MEDLEY_DATA_DIR", "data")

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("MEDLEY_LISTEN_PORT", ":3000"),
		ShutdownTimeout: mustDuration("MEDLEY_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("MEDLEY_LOG_LEVEL", "info"),
		PrettyLog: mustBool("MEDLEY_PRETTY_LOG", true),

		// Storage
		DataDir:           dataDir,
		UploadDir:         getenv("MEDLEY_UPLOAD_DIR", "uploads"),
		PublicDir:         getenv("MEDLEY_PUBLIC_DIR", "public"),
		StorageLayoutFile: getenv("MEDLEY_STORAGE_LAYOUT_FILE", ""),
		PlaylistsFile:     getenv("MEDLEY_PLAYLISTS_FILE", dataDir+"/playlists.json"),
		UsersFile:         getenv("MEDLEY_USERS_FILE", dataDir+"/users.json"),
		SaveTimeout:       mustDuration("MEDLEY_SAVE_TIMEOUT", 5*time.Second),

		// Auth
		JWTSecret: requireEnv("MEDLEY_JWT_SECRET"),
		TokenTTL:  mustDuration("MEDLEY_TOKEN_TTL", 24*time.Hour),

		// Search
		YouTubeAPIKey: getenv("MEDLEY_YOUTUBE_API_KEY", ""),

		// Cache
		CacheTTL:   mustDuration("MEDLEY_CACHE_TTL", time.Hour),
		GCInterval: mustDuration("MEDLEY_GC_INTERVAL", 15*time.Minute),

		// Rate limiting
		AuthRatePerMin: getenvInt("MEDLEY_AUTH_RATE_PER_MIN", 20),
		AuthRateBurst:  getenvInt("MEDLEY_AUTH_RATE_BURST", 5),

		// Access
		AllowedOrigins: splitAndTrim(getenv("MEDLEY_ALLOWED_ORIGINS", "*")),
		TrustProxy:     mustBool("MEDLEY_TRUST_PROXY", false),

		// Redis settings (optional)
		RedisAddr:           getenv("MEDLEY_REDIS_ADDR", ""),
		RedisUser:           getenv("MEDLEY_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("MEDLEY_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("MEDLEY_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),
	}

	if len(cfg.JWTSecret) < 16 {
		panic("❌ FATAL: MEDLEY_JWT_SECRET must be at least 16 characters")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.JWTSecret = "***REDACTED***"
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// RedisEnabled reports whether the remote location should be wired.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
