package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banddevs/backend/internal/config"
	"github.com/banddevs/backend/internal/handler"
	"github.com/banddevs/backend/internal/logging"
	"github.com/banddevs/backend/internal/metrics"
	"github.com/banddevs/backend/internal/repository"
	"github.com/banddevs/backend/internal/service"
	"github.com/banddevs/backend/pkg/resend"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	ctx := context.Background()

	var (
		db          repository.DB
		contactRepo repository.ContactRepository
	)
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logging.Fatal("failed to connect to database", "driver", cfg.DBDriver, "error", err)
		}
		defer pool.Close()
		db = pool
		contactRepo = repository.NewPgContactRepository(pool)
	case config.DriverSQLite:
		sqlDB, err := repository.OpenSQLite(ctx, cfg.DatabaseURL)
		if err != nil {
			logging.Fatal("failed to open database", "driver", cfg.DBDriver, "error", err)
		}
		defer sqlDB.Close()
		db = repository.SQLPinger{DB: sqlDB}
		contactRepo = repository.NewSQLiteContactRepository(sqlDB)
	default:
		logging.Fatal("unsupported DB_DRIVER", "driver", cfg.DBDriver)
	}

	// A missing key is not fatal at startup; the contact endpoint reports
	// "not configured" on each request instead.
	mailer := resend.NewClient(cfg.ResendAPIKey, cfg.ResendBaseURL)
	if !mailer.Configured() {
		slog.Warn("RESEND_API_KEY not set; contact submissions will fail")
	}

	contactService := service.NewContactService(contactRepo, mailer, service.NotifyConfig{
		From: cfg.ContactFrom,
		To:   cfg.ContactTo,
	})

	var limiter *handler.RateLimiter
	if cfg.ContactRateLimit > 0 {
		limiter = handler.NewRateLimiter(cfg.ContactRateLimit, cfg.TrustedProxies)
		defer limiter.Stop()
	}

	server := &http.Server{
		Addr: cfg.Addr,
		Handler: handler.Routes(handler.RoutesConfig{
			DB:             db,
			ContactService: contactService,
			Metrics:        metrics.New(),
			FrontendURL:    cfg.FrontendURL,
			AdminToken:     cfg.AdminToken,
			RateLimiter:    limiter,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 45 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "driver", cfg.DBDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
