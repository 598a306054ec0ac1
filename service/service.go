package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/viant/vecnode/logging"
	"github.com/viant/vecnode/metrics"
	"github.com/viant/vecnode/replica"
	"github.com/viant/vecnode/vector"
)

// TimestampLayout is the ISO-8601 form of the ts column, with microseconds
// and an explicit UTC offset.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// Health is the body returned by the health operation.
type Health struct {
	Node    string `json:"node"`
	Role    string `json:"role"`
	LagMS   int64  `json:"lag_ms"`
	Vectors int64  `json:"vectors"`
	OK      bool   `json:"ok"`
}

// UpsertRequest is a single vector submitted for storage.
type UpsertRequest struct {
	ID       string
	Vector   []float32
	Metadata map[string]any

	// Cascade is accepted for compatibility with upstream nodes and ignored.
	Cascade bool
}

// UpsertResult confirms a stored vector.
type UpsertResult struct {
	OK   bool   `json:"ok"`
	ID   string `json:"id"`
	Node string `json:"node"`
}

// CountResult reports the number of stored vectors.
type CountResult struct {
	Count int64  `json:"count"`
	Node  string `json:"node"`
}

// Service implements the vector store operations on top of a Backend.
type Service struct {
	backend *Backend
	node    replica.Node
	logger  *logging.Logger
	metrics metrics.Collector
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics collector. Defaults to metrics.Noop.
func WithMetrics(c metrics.Collector) Option {
	return func(s *Service) {
		if c != nil {
			s.metrics = c
		}
	}
}

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Service advertising node.
func New(backend *Backend, node replica.Node, opts ...Option) *Service {
	s := &Service{
		backend: backend,
		node:    node,
		logger:  logging.NoopLogger(),
		metrics: metrics.Noop{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithNode(node.ID)
	s.metrics.SetDegraded(backend.Mode() == ModeDegraded)
	return s
}

// Node returns the advertised node.
func (s *Service) Node() replica.Node { return s.node }

// Backend returns the storage backend.
func (s *Service) Backend() *Backend { return s.backend }

// Health reports the node status. Vectors is zero when the backend is
// degraded or the table no longer exists.
func (s *Service) Health(ctx context.Context) (Health, error) {
	h := Health{
		Node:  s.node.ID,
		Role:  string(s.node.Role),
		LagMS: s.node.LagMillis(),
		OK:    true,
	}
	store, ok := s.backend.Store()
	if !ok {
		return h, nil
	}
	exists, err := store.TableExists(ctx)
	if err != nil {
		return Health{}, err
	}
	if !exists {
		return h, nil
	}
	if h.Vectors, err = s.count(ctx, store); err != nil {
		return Health{}, err
	}
	return h, nil
}

// Upsert appends one record. Despite the name it never replaces an existing
// row: submitting the same ID twice stores two rows.
func (s *Service) Upsert(ctx context.Context, req UpsertRequest) (UpsertResult, error) {
	store, ok := s.backend.Store()
	if !ok {
		return UpsertResult{}, ErrUnavailable
	}
	if len(req.Vector) != vector.Dimension {
		return UpsertResult{}, &InvalidArgumentError{
			Field:  "vector",
			Reason: fmt.Sprintf("need %d dimensions, got %d", vector.Dimension, len(req.Vector)),
		}
	}
	meta := req.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	encoded, err := json.Marshal(meta)
	if err != nil {
		return UpsertResult{}, &InvalidArgumentError{Field: "metadata", Reason: err.Error()}
	}
	if req.Cascade {
		s.logger.DebugContext(ctx, "cascade requested, end of chain", "id", req.ID)
	}

	rec := vector.Record{
		ID:        req.ID,
		Vector:    req.Vector,
		Meta:      string(encoded),
		Timestamp: s.now().UTC().Format(TimestampLayout),
	}
	start := time.Now()
	err = store.Append(ctx, rec)
	d := time.Since(start)
	s.metrics.RecordAppend(d, err)
	s.logger.LogAppend(ctx, req.ID, len(req.Vector), d, err)
	if err != nil {
		return UpsertResult{}, err
	}
	return UpsertResult{OK: true, ID: req.ID, Node: s.node.ID}, nil
}

// Count returns the number of stored vectors, or zero when degraded.
func (s *Service) Count(ctx context.Context) (CountResult, error) {
	res := CountResult{Node: s.node.ID}
	store, ok := s.backend.Store()
	if !ok {
		return res, nil
	}
	n, err := s.count(ctx, store)
	if err != nil {
		return CountResult{}, err
	}
	res.Count = n
	return res, nil
}

func (s *Service) count(ctx context.Context, store Store) (int64, error) {
	start := time.Now()
	n, err := store.Count(ctx)
	s.metrics.RecordCount(time.Since(start), err)
	s.logger.LogCount(ctx, n, err)
	return n, err
}
