package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"voltboard/backend/services/dashboard-service/internal/models"
	"voltboard/backend/services/dashboard-service/internal/observability/metrics"
)

// ReadingsSource is the store-side query contract. Both methods report how
// many malformed rows were dropped alongside the surviving table.
type ReadingsSource interface {
	Snapshot(ctx context.Context, collection string, limit int) (models.Table, int, error)
	Since(ctx context.Context, collection string, watermark time.Time) (models.Table, int, error)
}

// SnapshotCache memoizes snapshot results for a short window.
type SnapshotCache interface {
	Get(ctx context.Context, collection string) (models.Table, bool, error)
	Save(ctx context.Context, collection string, table models.Table) error
}

// FeedService produces the two tables the dashboard consumes: the bounded
// initial snapshot and the per-cycle delta above a watermark.
type FeedService struct {
	source     ReadingsSource
	cache      SnapshotCache // nil disables memoization
	collection string
	limit      int
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewFeedService returns service bound to one collection.
func NewFeedService(source ReadingsSource, cache SnapshotCache, collection string, limit int, m *metrics.Metrics, logger *zap.Logger) *FeedService {
	return &FeedService{
		source:     source,
		cache:      cache,
		collection: collection,
		limit:      limit,
		metrics:    m,
		logger:     logger,
	}
}

// Snapshot returns the most recent readings in chronological order, at most
// the configured limit. An empty table means the collection has no data yet.
// Results are memoized when a cache is configured; cache failures fall through
// to the store rather than failing the request.
func (s *FeedService) Snapshot(ctx context.Context) (models.Table, error) {
	if s.cache != nil {
		table, ok, err := s.cache.Get(ctx, s.collection)
		if err != nil {
			s.logger.Warn("snapshot cache read failed", zap.Error(err))
		} else if ok {
			s.metrics.SnapshotHits.Inc()
			return table, nil
		}
	}
	s.metrics.SnapshotMisses.Inc()

	table, dropped, err := s.source.Snapshot(ctx, s.collection, s.limit)
	if err != nil {
		return nil, err
	}
	s.recordDropped(dropped)

	if s.cache != nil {
		if err := s.cache.Save(ctx, s.collection, table); err != nil {
			s.logger.Warn("snapshot cache write failed", zap.Error(err))
		}
	}
	return table, nil
}

// Delta returns readings strictly newer than the watermark, ascending. A nil
// watermark yields an empty table without touching the store: re-delivering
// the whole history on a lost watermark is worse than delivering nothing.
// Deltas are never cached.
func (s *FeedService) Delta(ctx context.Context, watermark *time.Time) (models.Table, error) {
	if watermark == nil {
		return models.Table{}, nil
	}

	table, dropped, err := s.source.Since(ctx, s.collection, *watermark)
	if err != nil {
		return nil, err
	}
	s.recordDropped(dropped)
	return table, nil
}

func (s *FeedService) recordDropped(n int) {
	if n == 0 {
		return
	}
	s.metrics.DroppedReadings.Add(float64(n))
	s.logger.Debug("dropped malformed readings",
		zap.String("collection", s.collection),
		zap.Int("count", n),
	)
}
