package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cacheadapter "github.com/bizdesk/auth-service/internal/adapters/cache"
	geoadapter "github.com/bizdesk/auth-service/internal/adapters/geo"
	httpadapter "github.com/bizdesk/auth-service/internal/adapters/http"
	"github.com/bizdesk/auth-service/internal/adapters/mysql"
	"github.com/bizdesk/auth-service/internal/adapters/security"
	"github.com/bizdesk/auth-service/internal/application"
	"github.com/bizdesk/auth-service/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("bootstrapping auth service", "http_port", cfg.HTTPPort, "environment", cfg.Environment)

	db, err := mysql.Connect(ctx, cfg.DatabaseDSN, cfg.MaxDBConns)
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}

	if err := mysql.RunMigrations(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("init redis client: %w", err)
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	var tokenSigner ports.TokenSigner
	if cfg.JWTSecret != "" {
		signer, signerErr := security.NewJWTSigner(cfg.JWTSecret)
		if signerErr != nil {
			_ = sqlDB.Close()
			_ = redisClient.Close()
			return nil, fmt.Errorf("init jwt signer: %w", signerErr)
		}
		tokenSigner = signer
	} else {
		tokenSigner = security.NewEphemeralJWTSigner()
	}

	var geoLocator ports.GeoLocator
	if cfg.GeoEnabled {
		geoLocator = geoadapter.NewClient(cfg.GeoBaseURL, cfg.GeoTimeout)
	}

	repos := mysql.NewRepositories(db)
	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			TokenTTL:             cfg.TokenTTL,
			FailedLoginThreshold: cfg.FailedThreshold,
			LockoutWindow:        cfg.LockoutWindow,
			SessionIdleTimeout:   cfg.SessionIdleTimeout,
			LoginRateLimit:       cfg.LoginRateLimit,
			LoginRateWindow:      cfg.LoginRateWindow,
			UserLookupRetryPause: cfg.UserLookupRetryPause,
			InternalIPPrefixes:   cfg.InternalIPPrefixes,
		},
		Users:         repos.Users,
		Sessions:      repos.Sessions,
		LoginAttempts: repos.LoginAttempts,
		Activity:      repos.Activity,
		Notifications: repos.Notifications,
		RateLimiter:   cacheadapter.NewRedisRateLimiter(redisClient),
		Geo:           geoLocator,
		Hasher:        security.NewBcryptHasher(cfg.BcryptCost),
		TokenSigner:   tokenSigner,
	})

	handler := httpadapter.NewHandler(svc)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		cleanupFn: func(ctx context.Context) {
			_ = redisClient.Close()
			_ = sqlDB.Close()
		},
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		r.logger.Error("server failure", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.cleanupFn(shutdownCtx)
	return serveErr
}
