package app

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libredis "voltboard/backend/libs/redis"
	"voltboard/backend/services/dashboard-service/internal/cache"
	"voltboard/backend/services/dashboard-service/internal/config"
	"voltboard/backend/services/dashboard-service/internal/db"
	httpserver "voltboard/backend/services/dashboard-service/internal/http"
	"voltboard/backend/services/dashboard-service/internal/http/handlers"
	"voltboard/backend/services/dashboard-service/internal/http/middleware"
	"voltboard/backend/services/dashboard-service/internal/observability/metrics"
	"voltboard/backend/services/dashboard-service/internal/password"
	"voltboard/backend/services/dashboard-service/internal/repository"
	"voltboard/backend/services/dashboard-service/internal/service"
	"voltboard/backend/services/dashboard-service/internal/ws"
)

// App wires dashboard service dependencies.
type App struct {
	server      *httpserver.Server
	session     *db.Session
	redisClient *goredis.Client
	logger      *zap.Logger
}

// New constructs the application graph. The store session is opened here so
// credential problems halt the process before anything is served.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	session := db.NewSession(cfg.Store.DSN)
	sqlDB, err := session.Open()
	if err != nil {
		return nil, err
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Snapshot memoization is optional: without redis the dashboard still
	// works, every load just goes to the store.
	var (
		redisClient   *goredis.Client
		snapshotCache service.SnapshotCache
	)
	if cfg.Redis.Addr != "" {
		redisClient, err = libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			session.Close()
			return nil, err
		}
		snapshotCache = cache.NewSnapshotCache(redisClient, cfg.Snapshot.CacheTTL)
	}

	readingsRepo := repository.NewReadingsRepository(sqlDB)
	feed := service.NewFeedService(readingsRepo, snapshotCache, cfg.Store.Collection, cfg.Snapshot.Limit, m, logger)

	pollerFactory := func(sink service.ChartSink) *service.Poller {
		return service.NewPoller(feed, sink, cfg.Poll.Interval, cfg.Poll.MaxBackoff, m, logger)
	}
	streamServer := ws.NewServer(pollerFactory, m, 10*cfg.Poll.Interval, logger)

	routes := httpserver.Routes{
		Page:       handlers.NewPageHandler(cfg.Store.Collection, cfg.Poll.Interval, cfg.AuthEnabled(), cfg.BackgroundImage, logger),
		Snapshot:   handlers.NewSnapshotHandler(feed, logger),
		Delta:      handlers.NewDeltaHandler(feed, logger),
		Stream:     http.HandlerFunc(streamServer.HandleWS),
		Background: handlers.NewBackgroundHandler(cfg.BackgroundImage),
		Health:     handlers.NewHealthHandler(),
		Metrics:    promhttp.Handler(),
	}

	if cfg.AuthEnabled() {
		tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		authService := service.NewAuthService(password.NewBcryptHasher(0), cfg.Auth.PassphraseHash, tokens, logger)
		routes.Login = handlers.NewLoginHandler(authService)
		routes.Auth = middleware.Auth(tokens)
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		session:     session,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts serving HTTP requests.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.session != nil {
		if err := a.session.Close(); err != nil {
			a.logger.Warn("failed to close store session", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
