package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/comitanigiacomo/kanso-dashboard/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-dashboard/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-dashboard/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-dashboard/internal/config"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/services"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/workers"
	"github.com/comitanigiacomo/kanso-dashboard/pkg/logger"
)

// @title                       Kanso Dashboard API
// @version                     1.0
// @description                 Read-only queries over a daily habit log: persons, calendars, time series, weeks and leaderboards.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Critical: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Critical: cannot build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("kanso dashboard stopped", "error", err)
	}
	log.Info("server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	startTime := time.Now()

	if cfg.LogMode == "prod" || cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	source, closeSource, err := repository.OpenTableRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()
	log.Info("habit source ready", "source", cfg.Data.Source, "path", cfg.Data.Path)

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, continuing with the in-process cache only", "error", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	tables := repository.NewCachedTableRepository(source, rdb, cfg.Redis.TTL, log)
	worker := workers.NewRefreshWorker(tables, cfg.RefreshInterval, log)
	router := newRouter(cfg, tables, worker, rdb, log, startTime)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("kanso dashboard listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		worker.Run(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("stop signal received, shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newRouter(cfg *config.Config, tables domain.TableRepository, worker *workers.RefreshWorker, rdb *redis.Client, log *logger.Logger, startTime time.Time) *gin.Engine {
	deps := adapterHTTP.RouterDependencies{
		DashboardHandler: adapterHTTP.NewDashboardHandler(services.NewDashboardService(tables, cfg.Data.AggregateMarkers)),
		Source:           tables,
		Redis:            rdb,
		RateLimit:        cfg.RateLimit,
		AllowedOrigins:   cfg.AllowedOrigins,
		Log:              log,
		StartTime:        startTime,
	}

	if worker != nil {
		deps.RefreshHandler = adapterHTTP.NewRefreshHandler(worker)
	}

	if cfg.AuthEnabled() {
		tokens := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
		deps.TokenValidator = tokens
		deps.AuthHandler = adapterHTTP.NewAuthHandler(services.NewAuthService(cfg.Auth.ViewerPasswordHash, tokens))
	}

	return adapterHTTP.NewRouter(deps)
}
