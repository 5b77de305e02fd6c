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

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"advohub/internal/audit"
	"advohub/internal/bootstrap"
	"advohub/internal/directory"
	"advohub/internal/directory/handler"
	"advohub/internal/directory/invalidation"
	dirmetrics "advohub/internal/directory/metrics"
	jwttoken "advohub/internal/jwt_token"
	"advohub/internal/platform/config"
	"advohub/internal/platform/httpserver"
	"advohub/internal/platform/logger"
	httpmetrics "advohub/internal/platform/metrics"
	"advohub/internal/platform/middleware"
	"advohub/internal/platform/postgres"
	"advohub/internal/platform/redis"
	"advohub/pkg/platform/httputil"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/directory.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	dm := dirmetrics.New(reg)
	hm := httpmetrics.New(reg)

	publisher, closeAudit, err := buildAudit(ctx, cfg.Audit, log)
	if err != nil {
		return err
	}
	defer closeAudit()

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}

	sources := bootstrap.Sources(cfg.Origins, log)
	fetcher := directory.NewFetcher(sources,
		directory.WithPageLimit(cfg.Origins.PageLimit),
		directory.WithMaxPages(cfg.Origins.MaxPages),
		directory.WithFetchTimeout(cfg.Origins.Timeout),
		directory.WithFetcherMetrics(dm),
		directory.WithFetcherLogger(log),
	)
	opts := []directory.Option{
		directory.WithLogger(log),
		directory.WithMetrics(dm),
		directory.WithAuditPublisher(publisher),
	}

	var bus *invalidation.Bus
	if redisClient != nil {
		defer redisClient.Close()
		bus = invalidation.New(redisClient.Client,
			invalidation.WithChannel(cfg.Redis.Channel),
			invalidation.WithLogger(log),
		)
		opts = append(opts, directory.WithInvalidator(bus))
	}
	service := directory.NewService(fetcher, directory.NewRouter(sources), opts...)

	if bus != nil {
		stopSub, err := bus.Subscribe(ctx, service.HandleInvalidation)
		if err != nil {
			return err
		}
		defer func() { _ = stopSub() }()
		log.Info("listening for directory invalidations", "channel", cfg.Redis.Channel, "instance", bus.Instance())
	}

	// The snapshot starts empty; a failed first pass is recovered with a
	// manual refresh.
	if snap, err := service.Refresh(ctx); err != nil {
		log.Warn("initial directory refresh failed", "error", err)
	} else {
		log.Info("directory loaded", "records", len(snap.Records), "generation", snap.Generation)
	}

	jwt := jwttoken.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience)
	dirHandler := handler.New(service, publisher, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog(log))
	r.Use(hm.Instrument)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body["redis"] = err.Error()
			}
		}
		httputil.WriteJSON(w, status, body)
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwt, log))
		dirHandler.Register(r)
	})

	srv := httpserver.New(cfg.Addr, r)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting advohub directory", "addr", cfg.Addr, "demo_origins", cfg.Origins.Demo)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildAudit picks the queryable store (Postgres when configured, memory
// otherwise) and attaches the Kafka sink when brokers are set.
func buildAudit(ctx context.Context, cfg config.AuditConfig, log *slog.Logger) (*audit.Publisher, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var store audit.Store = audit.NewMemoryStore(cfg.MemoryCapacity)
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, closeAll, err
	}
	if db != nil {
		closers = append(closers, func() { _ = db.Close() })
		pg := audit.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			closeAll()
			return nil, func() {}, err
		}
		store = pg
		log.Info("audit events persisted to postgres")
	}

	opts := []audit.Option{audit.WithLogger(log)}
	if len(cfg.KafkaBrokers) > 0 {
		sink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		closers = append(closers, sink.Close)
		topicCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := sink.EnsureTopic(topicCtx, 1, 1); err != nil {
			log.Warn("audit topic not ensured", "topic", cfg.KafkaTopic, "error", err)
		}
		cancel()
		opts = append(opts, audit.WithSink(sink))
		log.Info("audit events streamed to kafka", "topic", cfg.KafkaTopic)
	}

	return audit.NewPublisher(store, opts...), closeAll, nil
}
