package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/designhub/internal/auth"
	"github.com/geocoder89/designhub/internal/cache"
	"github.com/geocoder89/designhub/internal/config"
	"github.com/geocoder89/designhub/internal/db"
	httpx "github.com/geocoder89/designhub/internal/http"
	"github.com/geocoder89/designhub/internal/http/handlers"
	"github.com/geocoder89/designhub/internal/observability"
	"github.com/geocoder89/designhub/internal/repo/postgres"
	"github.com/geocoder89/designhub/internal/repo/sqlite"
	"github.com/geocoder89/designhub/internal/security"
	"github.com/geocoder89/designhub/internal/storage"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("api stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx := context.Background()

	tracing := cfg.OTelEndpoint != ""
	if tracing {
		shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName: cfg.OTelServiceName,
			Env:         cfg.Env,
			Endpoint:    cfg.OTelEndpoint,
			Insecure:    cfg.OTelInsecure,
			SampleRatio: cfg.OTelSampleRatio,
		})
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			sctx, cancel := config.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			_ = shutdownTracer(sctx)
		}()
	}

	prom := observability.NewProm()

	var (
		users   handlers.UserStore
		designs handlers.DesignStore
		ping    func() error
	)

	switch cfg.DBDriver {
	case db.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := db.MigratePostgres(ctx, pool); err != nil {
			return err
		}

		users = postgres.NewUsersRepo(pool, prom)
		designs = postgres.NewDesignsRepo(pool, prom)
		ping = func() error {
			pctx, cancel := config.WithTimeout(ctx, time.Second)
			defer cancel()
			return pool.Ping(pctx)
		}
	default:
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := db.MigrateSQLite(ctx, conn); err != nil {
			return err
		}

		users = sqlite.NewUsersRepo(conn, prom)
		designs = sqlite.NewDesignsRepo(conn, prom)
		ping = func() error {
			pctx, cancel := config.WithTimeout(ctx, time.Second)
			defer cancel()
			return conn.PingContext(pctx)
		}
	}

	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedis(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			// the cache is optional; serve straight from the store
			log.Warn("redis unavailable, designs cache disabled", "err", err)
		} else {
			defer rdb.Close()
			designs = cache.NewDesignsCache(designs, rdb, cfg.DesignsCacheTTL, prom, log)
		}
	}

	var uploads storage.Store
	switch cfg.UploadBackend {
	case "minio":
		store, err := storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return err
		}
		uploads = store
	default:
		store, err := storage.NewDiskStore(cfg.UploadDir)
		if err != nil {
			return err
		}
		uploads = store
	}

	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.JWTAlg)
	if err != nil {
		return err
	}

	// set up routers with the log
	router := httpx.NewRouter(httpx.Deps{
		Log:                log,
		Prom:               prom,
		Env:                cfg.Env,
		ServiceName:        cfg.OTelServiceName,
		Tracing:            tracing,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MaxJSONBytes:       cfg.MaxJSONBytes,
		UploadMaxBytes:     cfg.UploadMaxBytes,
		Ping:               ping,
		Users:              users,
		Designs:            designs,
		Uploads:            uploads,
		Hasher:             security.NewHasher(cfg.BcryptCost),
		Tokens:             tokens,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "db", cfg.DBDriver, "uploads", cfg.UploadBackend)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-stop:
	}

	log.Info("server shutting down")

	sctx, cancel := config.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}
