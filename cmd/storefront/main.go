package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/storefront/internal/api"
	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/credentials"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	"github.com/Skotchmaster/storefront/internal/store"
	"github.com/Skotchmaster/storefront/internal/transport"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
	"github.com/Skotchmaster/storefront/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", "storefront")
	slog.SetDefault(logger)
	ctx := logging.IntoContext(context.Background(), logger)

	var closers []func() error

	if cfg.TraceStdout {
		shutdown, err := tracing.Setup("storefront", os.Stdout)
		if err != nil {
			log.Fatalf("tracing: %v", err)
		}
		closers = append(closers, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return shutdown(ctx)
		})
	}

	creds, closeCreds, err := openCredentials(ctx, cfg)
	if err != nil {
		log.Fatalf("credentials: %v", err)
	}
	closers = append(closers, closeCreds)

	var pub events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		pub = kp
		closers = append(closers, kp.Close)
	}

	client := transport.NewClient(cfg.APIBaseURL, creds, transport.WithTimeout(cfg.APITimeout))
	st, err := store.New(ctx, api.New(client), creds, store.Config{
		Strict:    cfg.StrictOrdering,
		Publisher: pub,
	})
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	st.Start(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	csrfCfg := csrf.DefaultConfig()
	httpserver.Register(e, &httpserver.Deps{
		Store: st,
		Ready: func(ctx context.Context) error {
			_, err := creds.Get(ctx)
			return err
		},
		CSRF: &csrfCfg,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_started", "addr", srv.Addr, "api", cfg.APIBaseURL, "credentials", cfg.CredentialsBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}

	st.Close()
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logger.Error("close_failed", "error", err)
		}
	}
	logger.Info("shutdown_complete")
}

func openCredentials(ctx context.Context, cfg *config.Config) (credentials.Store, func() error, error) {
	sealer := credentials.NewSealer(cfg.CredentialsKey)
	noop := func() error { return nil }

	switch cfg.CredentialsBackend {
	case config.BackendMemory:
		return credentials.NewMemoryStore(), noop, nil

	case config.BackendRedis:
		rdb, err := credentials.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return credentials.NewRedisStore(rdb, "storefront", sealer), rdb.Close, nil

	case config.BackendSQL:
		openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		db, err := pkgdb.Open(openCtx, cfg.CredentialsDSN)
		if err != nil {
			return nil, nil, err
		}
		s, err := credentials.NewGormStore(openCtx, db, sealer)
		if err != nil {
			_ = pkgdb.Close(db)
			return nil, nil, err
		}
		return s, func() error { return pkgdb.Close(db) }, nil
	}
	return nil, nil, fmt.Errorf("unknown credentials backend %q", cfg.CredentialsBackend)
}
