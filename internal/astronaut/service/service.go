package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"stargate/internal/astronaut/metrics"
	"stargate/internal/astronaut/store"
	"stargate/pkg/platform/audit"
)

const tracerName = "stargate/internal/astronaut/service"

// Store is the transactional persistence the service writes through.
type Store interface {
	store.Store
	RunInTx(ctx context.Context, fn func(ctx context.Context, store store.Store) error) error
}

// Locker serializes duty writes per person. The returned func releases the lock.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// ActivityPublisher records the activity log entries kept alongside the ledger.
type ActivityPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns the people directory, duty ledger and career summary.
type Service struct {
	store    Store
	locker   Locker
	logger   *slog.Logger
	activity ActivityPublisher
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithActivityPublisher(publisher ActivityPublisher) Option {
	return func(s *Service) {
		s.activity = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLocker replaces the in-process per-person lock, e.g. with a Redis lock
// when several instances share one database.
func WithLocker(l Locker) Option {
	return func(s *Service) {
		s.locker = l
	}
}

// New constructs a Service.
func New(st Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		locker: newShardedLocker(),
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
