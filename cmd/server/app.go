package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"stargate/internal/astronaut/handler"
	astronautmetrics "stargate/internal/astronaut/metrics"
	"stargate/internal/astronaut/service"
	"stargate/internal/astronaut/store"
	"stargate/internal/platform/config"
	"stargate/internal/platform/database"
	"stargate/internal/platform/httpserver"
	"stargate/internal/platform/logger"
	"stargate/internal/platform/metrics"
	"stargate/internal/platform/middleware"
	"stargate/internal/platform/redis"
	"stargate/pkg/platform/audit"
	"stargate/pkg/platform/audit/publisher"
	"stargate/pkg/platform/audit/publishers/kafka"
	auditmemory "stargate/pkg/platform/audit/store/memory"
	"stargate/pkg/platform/audit/store/sqlstore"
	"stargate/pkg/platform/middleware/metadata"
	"stargate/pkg/platform/middleware/requesttime"
)

// app holds everything runServe starts and later closes.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	store    store.TxStore
	log      audit.Lister
	activity *publisher.Publisher
	router   http.Handler
	closers  []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func loadConfig(path string) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Log, os.Stdout)
	slog.SetDefault(log)
	return cfg, log, nil
}

func runMigrate(ctx context.Context, configPath string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Database.Driver == config.DriverMemory {
		log.Info("memory driver has no schema to migrate")
		return nil
	}
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	log.Info("migrations applied", "driver", cfg.Database.Driver)
	return nil
}

// runLogs prints the newest activity log entries from the configured database.
func runLogs(ctx context.Context, configPath string, limit int, out io.Writer) error {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Database.Driver == config.DriverMemory {
		return errors.New("the memory driver keeps no activity log between runs")
	}
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	events, err := sqlstore.New(db).ListRecent(ctx, limit)
	if err != nil {
		return fmt.Errorf("read activity log: %w", err)
	}
	return writeEvents(out, events)
}

func writeEvents(out io.Writer, events []audit.Event) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSEVERITY\tREQUEST\tMESSAGE\tDETAILS")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.UTC().Format(time.RFC3339), e.Severity, e.RequestID, e.Message, e.Details)
		if e.Exception != "" {
			fmt.Fprintf(tw, "\t\t\t\texception: %s\n", e.Exception)
		}
	}
	return tw.Flush()
}

func runServe(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := httpserver.New(cfg.Server, a.router)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting stargate", "addr", cfg.Server.Addr, "driver", cfg.Database.Driver, "version", Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// buildApp wires storage, locking, the activity log and the HTTP router.
func buildApp(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: log}

	auditStore, err := a.openStorage(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	var sinks []audit.Store
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := kafka.New(ctx, kafka.Config{
			Brokers:  cfg.Kafka.Brokers,
			Topic:    cfg.Kafka.Topic,
			ClientID: cfg.Kafka.ClientID,
		}, kafka.WithLogger(log), kafka.WithMetrics(kafka.NewMetrics()))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, sink.Close)
		sinks = append(sinks, sink)
		log.Info("activity log mirrored to kafka", "topic", cfg.Kafka.Topic)
	}
	a.activity = publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(cfg.Activity.AsyncBuffer),
		publisher.WithSinks(sinks...),
		publisher.WithLogger(log),
	)
	a.closers = append(a.closers, a.activity.Close)

	opts := []service.Option{
		service.WithLogger(log),
		service.WithActivityPublisher(a.activity),
		service.WithMetrics(astronautmetrics.New()),
	}
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		a.Close()
		return nil, err
	}
	if redisClient != nil {
		a.closers = append(a.closers, func() { _ = redisClient.Close() })
		opts = append(opts, service.WithLocker(redisClient.Locker()))
		log.Info("using redis per-person lock")
	}

	svc := service.New(a.store, opts...)
	a.router = newRouter(cfg, log, handler.New(svc, a.store, log))
	return a, nil
}

// openStorage picks the astronaut and activity stores for the configured driver.
func (a *app) openStorage(ctx context.Context) (audit.Store, error) {
	cfg := a.cfg.Database
	if cfg.Driver == config.DriverMemory {
		a.store = store.NewInMemory()
		activity := auditmemory.NewInMemoryStore()
		a.log = activity
		return activity, nil
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = db.Close() })
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return nil, err
		}
	}
	a.store = store.NewSQL(db, cfg.TxTimeout)
	activity := sqlstore.New(db)
	a.log = activity
	return activity, nil
}

func newRouter(cfg config.Config, log *slog.Logger, h *handler.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(log))
	r.Use(middleware.LatencyMiddleware(metrics.New()))

	r.Handle("/metrics", promhttp.Handler())
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout(cfg.Server)))
		r.Use(middleware.ContentTypeJSON)
		h.Register(r)
	})
	return r
}

func requestTimeout(cfg config.ServerConfig) time.Duration {
	if cfg.RequestTimeout > 0 {
		return cfg.RequestTimeout
	}
	return 30 * time.Second
}
