package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/medleyhq/medley/internal/auth"
	"github.com/medleyhq/medley/internal/config"
	"github.com/medleyhq/medley/internal/httpserver"
	"github.com/medleyhq/medley/internal/httpserver/deps"
	"github.com/medleyhq/medley/internal/index"
	"github.com/medleyhq/medley/internal/logger"
	"github.com/medleyhq/medley/internal/playlists"
	"github.com/medleyhq/medley/internal/redis"
	"github.com/medleyhq/medley/internal/scheduler"
	"github.com/medleyhq/medley/internal/search"
	"github.com/medleyhq/medley/internal/store"
	"github.com/medleyhq/medley/internal/store/file"
	redisstore "github.com/medleyhq/medley/internal/store/redis"
	"github.com/medleyhq/medley/internal/upload"
	"github.com/medleyhq/medley/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	cache       *index.CollectionCache
	evictor     *scheduler.CacheEvictor
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		loggerClient.Errorf("Failed to create data directory %s: %v", cfg.DataDir, err)
		os.Exit(1)
	}

	// Connect Redis only when the remote location is configured -
	// fail fast if it is configured but unreachable.
	var redisClient *goredis.Client
	if cfg.RedisEnabled() {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		redisClient = client
		loggerClient.Info("Redis initialized successfully")
	}

	// The registry is shared: a playlist location for the resolver
	// and the account store for the auth service.
	registry := file.NewRegistry(cfg.UsersFile)

	layout, err := cfg.Layout()
	if err != nil {
		loggerClient.Errorf("Invalid storage layout: %v", err)
		os.Exit(1)
	}

	locations := make([]store.Location, 0, len(layout.Locations))
	for _, loc := range layout.Locations {
		switch loc.Type {
		case "mapping":
			locations = append(locations, file.NewMapping(loc.Path))
		case "registry":
			if loc.Path == cfg.UsersFile {
				locations = append(locations, registry)
			} else {
				locations = append(locations, file.NewRegistry(loc.Path))
			}
		case "remote":
			locations = append(locations, redisstore.NewLocation(redisClient))
		}
	}
	loggerClient.Info("storage layout resolved",
		logger.Int("locations", len(locations)),
		logger.String("default_write", string(locations[0].Tag())))

	resolver := store.NewResolver(loggerClient, locations...)
	cache := index.NewCollectionCache()
	evictor := scheduler.NewCacheEvictor(cache, loggerClient, cfg.GCInterval, cfg.CacheTTL)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	uploads, err := upload.NewService(cfg.UploadDir, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to prepare upload directory: %v", err)
		os.Exit(1)
	}

	if cfg.YouTubeAPIKey == "" {
		loggerClient.Warn("no YouTube API key configured, text search disabled (link paste still works)")
	}

	d := deps.Deps{
		Logger:    loggerClient,
		StartTime: time.Now(),
		Version:   version.Version,
		Commit:    version.Commit,
		BuildDate: version.BuildDate,
		GoVersion: version.GoVersion,

		Auth:      auth.NewService(registry, tokens, loggerClient),
		Tokens:    tokens,
		Playlists: playlists.NewService(resolver, cache, loggerClient, cfg.SaveTimeout),
		Search:    search.NewClient(search.Config{APIKey: cfg.YouTubeAPIKey}, loggerClient),
		Uploads:   uploads,
		Cache:     cache,

		RedisClient: redisClient,

		PublicDir:      cfg.PublicDir,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustProxy:     cfg.TrustProxy,
		AuthRatePerMin: cfg.AuthRatePerMin,
		AuthRateBurst:  cfg.AuthRateBurst,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		cache:       cache,
		evictor:     evictor,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Medley v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Medley %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start cache evictor
	if err := a.evictor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start cache evictor: %w", err)
	}
	a.logger.Info("cache evictor started",
		logger.Duration("interval", a.cfg.GCInterval),
		logger.Duration("ttl", a.cfg.CacheTTL))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.evictor.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Medley stopped cleanly")
	return nil
}
