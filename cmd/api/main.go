package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bryanwahyu/docproc-api/internal/application"
	appdocs "github.com/bryanwahyu/docproc-api/internal/application/documents"
	"github.com/bryanwahyu/docproc-api/internal/config"
	domain "github.com/bryanwahyu/docproc-api/internal/domain/documents"
	mysqlp "github.com/bryanwahyu/docproc-api/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/docproc-api/internal/infra/db/postgres"
	"github.com/bryanwahyu/docproc-api/internal/infra/httpserver"
	archiveStore "github.com/bryanwahyu/docproc-api/internal/infra/storage"
	"github.com/bryanwahyu/docproc-api/internal/logging"
	"github.com/bryanwahyu/docproc-api/internal/middleware"
)

// auditRepository is what main needs from either SQL backend.
type auditRepository interface {
	domain.Repository
	Migrate(ctx context.Context) error
}

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env dulu, baru config.yaml
	if err := config.LoadEnv(".env"); err != nil {
		return err
	}

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config load error: %w", err)
	}

	logger := logging.Init(os.Stdout, cfg.Log.Level, cfg.Log.JSON)
	ctx := context.Background()

	svc := &appdocs.Service{
		Clock:         application.SystemClock{},
		Logger:        logger,
		RecordTimeout: cfg.Audit.RecordTimeout,
	}
	checkers := map[string]middleware.HealthChecker{}

	// audit trail (optional)
	if cfg.Audit.Driver != config.DriverNone {
		db, repo, err := openAudit(ctx, cfg)
		if err != nil {
			return fmt.Errorf("%s connect error: %w", cfg.Audit.Driver, err)
		}
		defer db.Close()

		if cfg.Audit.Migrate {
			if err := repo.Migrate(ctx); err != nil {
				return fmt.Errorf("audit migrate error: %w", err)
			}
		}
		svc.Repo = repo
		checkers["audit_db"] = &middleware.DatabaseHealthChecker{DB: db}
		logger.Info("audit trail enabled", "driver", cfg.Audit.Driver)
	}

	// archive minio (optional)
	if cfg.Archive.Enabled {
		store, err := archiveStore.New(ctx,
			cfg.Archive.Endpoint,
			cfg.Archive.Region,
			cfg.Archive.BucketName,
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			cfg.Archive.UseSSL,
		)
		if err != nil {
			return fmt.Errorf("minio init error: %w", err)
		}
		svc.Archive = store
		checkers["archive"] = store
		logger.Info("document archive enabled", "bucket", cfg.Archive.BucketName)
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Capacity > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSecond)
		defer limiter.Close()
	}

	handler := httpserver.NewRouter(svc, httpserver.Options{
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		APIKeys:        cfg.Auth.APIKeys,
		Limiter:        limiter,
		Checkers:       checkers,
		Logger:         logger,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// run server
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	logger.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	// tunggu audit yang masih jalan
	svc.Wait()
	return nil
}

func openAudit(ctx context.Context, cfg *config.Config) (*sql.DB, auditRepository, error) {
	switch cfg.Audit.Driver {
	case config.DriverMySQL:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		return db, mysqlp.NewRecordRepository(db), nil
	case config.DriverPostgres:
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		return db, postgresp.NewRecordRepository(db), nil
	default:
		return nil, nil, fmt.Errorf("unknown audit driver %q", cfg.Audit.Driver)
	}
}
