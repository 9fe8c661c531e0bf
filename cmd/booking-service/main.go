package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	bookingapp "github.com/dmehra2102/bookit/internal/booking/application"
	bookinghttp "github.com/dmehra2102/bookit/internal/booking/infrastructure/http"
	bookingkafka "github.com/dmehra2102/bookit/internal/booking/infrastructure/kafka"
	bookingpg "github.com/dmehra2102/bookit/internal/booking/infrastructure/postgres"
	catalogapp "github.com/dmehra2102/bookit/internal/catalog/application"
	cataloghttp "github.com/dmehra2102/bookit/internal/catalog/infrastructure/http"
	catalogpg "github.com/dmehra2102/bookit/internal/catalog/infrastructure/postgres"
	catalogredis "github.com/dmehra2102/bookit/internal/catalog/infrastructure/redis"
	inventoryapp "github.com/dmehra2102/bookit/internal/inventory/application"
	inventoryhttp "github.com/dmehra2102/bookit/internal/inventory/infrastructure/http"
	inventorypg "github.com/dmehra2102/bookit/internal/inventory/infrastructure/postgres"
	promoapp "github.com/dmehra2102/bookit/internal/promo/application"
	promohttp "github.com/dmehra2102/bookit/internal/promo/infrastructure/http"
	"github.com/dmehra2102/bookit/internal/seed"
	"github.com/dmehra2102/bookit/migrations"
	"github.com/dmehra2102/bookit/pkg/config"
	"github.com/dmehra2102/bookit/pkg/database"
	"github.com/dmehra2102/bookit/pkg/health"
	"github.com/dmehra2102/bookit/pkg/httpx"
	"github.com/dmehra2102/bookit/pkg/idempotency"
	"github.com/dmehra2102/bookit/pkg/logging"
	"github.com/dmehra2102/bookit/pkg/metrics"
	"github.com/dmehra2102/bookit/pkg/outbox"
	"github.com/dmehra2102/bookit/pkg/shutdown"
	"github.com/dmehra2102/bookit/pkg/tracing"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logging.New(cfg.App.LogLevel).With("service", cfg.App.Name, "env", cfg.App.Environment)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("service stopped with error", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	tp, err := tracing.Init(ctx, cfg.App.Name, cfg.Tracing.Endpoint, log)
	if err != nil {
		return fmt.Errorf("otel init: %w", err)
	}

	pool, err := database.Connect(ctx, cfg.Postgres.URL, cfg.Postgres.MaxConns)
	if err != nil {
		return fmt.Errorf("pg connect: %w", err)
	}
	defer pool.Close()

	if cfg.Postgres.Migrate {
		if err := database.Migrate(log, migrations.FS, cfg.Postgres.URL); err != nil {
			return err
		}
	}
	if cfg.Seed.Enabled {
		if err := seed.New(log, pool, cfg.Seed.Random).Run(ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, catalog cache and idempotency run degraded", "addr", cfg.Redis.Addr, "err", err)
	}

	m := metrics.New()
	outboxStore := outbox.NewPostgresStore(log, pool)

	catalogSvc := catalogapp.NewService(
		catalogredis.NewCache(log, rdb, catalogpg.NewRepository(log, pool), cfg.Redis.CatalogTTL))
	slotRepo := inventorypg.NewRepository(log, pool)
	inventorySvc := inventoryapp.NewService(slotRepo)
	promoSvc := promoapp.NewService()
	bookingSvc := bookingapp.NewService(log, bookingapp.Deps{
		Tx:          bookingpg.NewTransactor(pool, cfg.Booking.LockTimeout),
		Slots:       slotRepo,
		Bookings:    bookingpg.NewRepository(log, pool),
		Outbox:      outboxStore,
		Experiences: catalogSvc,
		Promos:      promoSvc,
		Observer:    m,
	}, cfg.Booking.MaxGuests)
	idem := idempotency.NewStore(rdb, cfg.Redis.IdempotencyTTL)

	check := health.Check(pool.Ping)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, m.Middleware, httpx.RequestLogger(log))
	r.Get("/health", health.Handler(check))
	r.Handle("/metrics", m.Handler())
	r.Route("/api", func(r chi.Router) {
		cataloghttp.NewHandler(log, catalogSvc).Register(r)
		inventoryhttp.NewHandler(log, inventorySvc).Register(r)
		promohttp.NewHandler(log, promoSvc).Register(r)
		bookinghttp.NewHandler(log, bookingSvc).Register(r, idempotency.Middleware(log, idem, "bookings"))
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Info("http listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	gs, err := health.Run(ctx, log, cfg.GRPC.Addr, cfg.App.Name, check, 10*time.Second)
	if err != nil {
		return fmt.Errorf("grpc health: %w", err)
	}

	steps := []shutdown.Step{
		{Name: "http", Stop: srv.Shutdown},
		{Name: "grpc", Stop: func(context.Context) error { gs.GracefulStop(); return nil }},
	}

	if cfg.Kafka.Enabled {
		writer := bookingkafka.NewWriter(log, cfg.Kafka.Brokers)
		relay := outbox.NewRelay(log, outboxStore,
			outbox.NewDispatcher(log, writer, cfg.Kafka.Topic),
			cfg.App.Name+"-"+uuid.NewString()[:8],
			outbox.WithObserver(m))
		relayDone := make(chan struct{})
		go func() {
			defer close(relayDone)
			if err := relay.Run(ctx); err != nil {
				log.Error("relay stopped", "err", err)
			}
		}()
		steps = append(steps, shutdown.Step{Name: "outbox relay", Stop: func(ctx context.Context) error {
			select {
			case <-relayDone:
			case <-ctx.Done():
				return ctx.Err()
			}
			return writer.Close()
		}})
	} else {
		log.Info("kafka disabled, booking events stay in the outbox")
	}
	steps = append(steps,
		shutdown.Step{Name: "redis", Stop: func(context.Context) error { return rdb.Close() }},
		shutdown.Step{Name: "tracer", Stop: tp.Shutdown},
	)

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case runErr = <-serveErr:
		log.Error("http server failed", "err", runErr)
	}
	stop()

	shutdown.Drain(log, 10*time.Second, steps...)
	return runErr
}
