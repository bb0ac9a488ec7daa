// Package kafka mirrors activity log entries onto a Kafka topic with franz-go.
// The database remains the record of truth; the topic feeds downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "stargate/pkg/platform/audit"
	"stargate/pkg/platform/circuit"
)

// ErrCircuitOpen is returned by Append while the breaker skips publishing.
var ErrCircuitOpen = errors.New("kafka activity sink: circuit open")

// Config selects the cluster and topic.
type Config struct {
	Brokers  []string
	Topic    string
	ClientID string
}

type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Sink implements audit.Store by producing one record per entry.
type Sink struct {
	producer producer
	topic    string
	breaker  *circuit.Breaker
	metrics  *Metrics
	logger   *slog.Logger
	timeout  time.Duration
	close    func()
}

type Option func(*Sink)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sink) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Sink) {
		s.metrics = m
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(s *Sink) {
		if b != nil {
			s.breaker = b
		}
	}
}

// WithPublishTimeout bounds each synchronous produce call.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *Sink) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New connects to the brokers and ensures the topic exists.
func New(ctx context.Context, cfg Config, opts ...Option) (*Sink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka activity sink: no brokers configured")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping kafka: %w", err)
	}
	if err := EnsureTopic(ctx, kadm.NewClient(client), cfg.Topic); err != nil {
		client.Close()
		return nil, err
	}

	s := newSink(client, cfg.Topic, opts...)
	s.close = client.Close
	return s, nil
}

func newSink(p producer, topic string, opts ...Option) *Sink {
	s := &Sink{
		producer: p,
		topic:    topic,
		breaker:  circuit.New("kafka-activity"),
		logger:   slog.New(slog.DiscardHandler),
		timeout:  2 * time.Second,
		close:    func() {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureTopic creates topic with one partition when it is missing.
func EnsureTopic(ctx context.Context, adm *kadm.Client, topic string) error {
	resp, err := adm.CreateTopics(ctx, 1, -1, nil, topic)
	if err != nil {
		return fmt.Errorf("create kafka topic %s: %w", topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create kafka topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

type recordPayload struct {
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Exception string `json:"exception,omitempty"`
	RequestID string `json:"requestId,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Append publishes event unless the breaker is open.
func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	if !s.breaker.Allow() {
		s.metrics.IncCircuitDropped()
		return ErrCircuitOpen
	}

	value, err := json.Marshal(recordPayload{
		Severity:  string(event.Severity),
		Message:   event.Message,
		Details:   event.Details,
		Exception: event.Exception,
		RequestID: event.RequestID,
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal activity record: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(uuid.NewString()),
		Value: value,
	}
	if event.RequestID != "" {
		record.Headers = append(record.Headers, kgo.RecordHeader{Key: "request_id", Value: []byte(event.RequestID)})
	}

	produceCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.producer.ProduceSync(produceCtx, record).FirstErr(); err != nil {
		s.metrics.IncPublishFailures()
		if _, change := s.breaker.RecordFailure(); change.Opened {
			s.metrics.SetCircuitBreakerState(true)
			s.logger.Warn("kafka activity sink circuit opened", "topic", s.topic, "error", err)
		}
		return fmt.Errorf("produce activity record: %w", err)
	}

	s.metrics.IncPublished()
	if _, change := s.breaker.RecordSuccess(); change.Closed {
		s.metrics.SetCircuitBreakerState(false)
		s.logger.Info("kafka activity sink circuit closed", "topic", s.topic)
	}
	return nil
}

// Close releases the Kafka client.
func (s *Sink) Close() {
	s.close()
}
