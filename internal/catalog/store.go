package catalog

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"roadmap-workers/internal/common/config"
	"roadmap-workers/internal/common/errors"
	"roadmap-workers/internal/common/logger"
	"roadmap-workers/internal/common/metrics"
	"roadmap-workers/internal/common/observability"
)

const (
	DefaultTTL          = 60 * time.Second
	DefaultFetchTimeout = 10 * time.Second
)

type Options struct {
	Columns      config.ColumnConfig
	TTL          time.Duration
	FetchTimeout time.Duration
	// Cache is optional.
	Cache *RedisCache
}

// Store hands out catalog snapshots. A primary failure is logged and
// replaced by the embedded catalog; only a broken embedded catalog is an error.
type Store struct {
	primary Source
	opts    Options
	logger  logger.Logger
	now     func() time.Time

	// embedded parses the fallback; replaced in tests.
	embedded func() (*Snapshot, error)

	mu      sync.Mutex
	current *Snapshot
	expires time.Time
}

// NewStore builds a store over primary. A nil primary serves the embedded catalog only.
func NewStore(primary Source, opts Options, log logger.Logger) *Store {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	return &Store{
		primary:  primary,
		opts:     opts,
		logger:   log.WithFields(map[string]interface{}{"component": "catalog"}),
		now:      time.Now,
		embedded: LoadEmbedded,
	}
}

// Load returns the cached snapshot while it is fresh, otherwise reloads.
// Concurrent callers share one reload.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.now().Before(s.expires) {
		metrics.CatalogLoads.WithLabelValues("memory").Inc()
		return s.current, nil
	}

	snap, err := s.reload(ctx)
	if err != nil {
		return nil, err
	}
	s.current = snap
	s.expires = s.now().Add(s.opts.TTL)
	return snap, nil
}

// Invalidate forces the next Load to reload.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

func (s *Store) reload(ctx context.Context) (*Snapshot, error) {
	if s.primary == nil {
		return s.fallback(nil)
	}

	if s.opts.Cache != nil {
		snap, err := s.opts.Cache.Get(ctx, s.primary.Name())
		if err != nil {
			s.logger.Warn("catalog cache read failed", map[string]interface{}{"error": err.Error()})
		} else if snap != nil {
			metrics.CatalogLoads.WithLabelValues("redis").Inc()
			return snap, nil
		}
	}

	snap, err := s.fetch(ctx)
	if err != nil {
		return s.fallback(errors.NewDataUnavailableError(s.primary.Name(), err))
	}

	metrics.CatalogLoads.WithLabelValues(s.primary.Name()).Inc()
	for _, w := range snap.Warnings {
		metrics.CatalogSchemaWarnings.WithLabelValues(w.Table).Inc()
		s.logger.Warn("catalog schema warning", map[string]interface{}{
			"code":    w.Code,
			"table":   w.Table,
			"message": w.Message,
		})
	}
	s.logger.Info("catalog loaded", map[string]interface{}{
		"source":   snap.Source,
		"careers":  len(snap.Careers),
		"majors":   len(snap.Majors),
		"subjects": len(snap.Subjects),
		"warnings": len(snap.Warnings),
	})

	if s.opts.Cache != nil {
		if err := s.opts.Cache.Set(ctx, snap); err != nil {
			s.logger.Warn("catalog cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return snap, nil
}

func (s *Store) fetch(ctx context.Context) (*Snapshot, error) {
	ctx, span := observability.StartSpan(ctx, "catalog.fetch", attribute.String("catalog.source", s.primary.Name()))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	start := s.now()
	tables, err := s.primary.Fetch(ctx)
	if err == nil {
		var snap *Snapshot
		snap, err = Resolve(tables, s.opts.Columns)
		if err == nil {
			snap.Source = s.primary.Name()
			snap.LoadedAt = s.now().UTC()
			span.SetAttributes(
				attribute.Int("catalog.careers", len(snap.Careers)),
				attribute.Int("catalog.warnings", len(snap.Warnings)),
				attribute.Int64("catalog.fetch_ms", s.now().Sub(start).Milliseconds()),
			)
			return snap, nil
		}
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return nil, err
}

// fallback serves the embedded catalog, recording why when cause is set.
func (s *Store) fallback(cause *errors.StandardError) (*Snapshot, error) {
	base, err := s.embedded()
	if err != nil {
		s.logger.Error("embedded catalog unusable", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	snap := *base
	snap.LoadedAt = s.now().UTC()
	snap.Warnings = append([]Warning(nil), base.Warnings...)

	if cause != nil {
		metrics.CatalogFallbacks.WithLabelValues(s.primary.Name()).Inc()
		s.logger.Warn("primary catalog unavailable, using embedded catalog", map[string]interface{}{
			"code":    string(cause.Code),
			"source":  s.primary.Name(),
			"details": cause.Details,
		})
		snap.Warnings = append(snap.Warnings, Warning{
			Code:    string(cause.Code),
			Table:   "",
			Message: cause.Details,
		})
	}
	metrics.CatalogLoads.WithLabelValues(config.SourceEmbedded).Inc()
	return &snap, nil
}
