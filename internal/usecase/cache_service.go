package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-insights/internal/domain/player"
	"github.com/riskibarqy/fantasy-insights/internal/platform/cache"
	"github.com/riskibarqy/fantasy-insights/internal/platform/logging"
)

type CacheStatus struct {
	Snapshot        player.SnapshotStatus `json:"snapshot"`
	Query           cache.Stats           `json:"query"`
	QueryTTLSeconds int64                 `json:"queryTtlSeconds"`
}

type CacheService struct {
	snapshots player.SnapshotStore
	query     *cache.Store
	logger    *logging.Logger
}

func NewCacheService(snapshots player.SnapshotStore, query *cache.Store, logger *logging.Logger) *CacheService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CacheService{snapshots: snapshots, query: query, logger: logger.Named("cache")}
}

func (s *CacheService) Status(ctx context.Context) (CacheStatus, error) {
	ctx, span := traceOp(ctx, "cache.status")
	defer span.End()

	snapStatus, err := s.snapshots.Status(ctx)
	if err != nil {
		return CacheStatus{}, fmt.Errorf("player snapshot status: %w", err)
	}

	return CacheStatus{
		Snapshot:        snapStatus,
		Query:           s.query.Stats(),
		QueryTTLSeconds: int64(s.query.TTL().Seconds()),
	}, nil
}

// Refresh invalidates both tiers. The player catalog is refetched on next use.
func (s *CacheService) Refresh(ctx context.Context) (CacheStatus, error) {
	ctx, span := traceOp(ctx, "cache.refresh")
	defer span.End()

	if err := s.snapshots.Refresh(ctx); err != nil {
		return CacheStatus{}, fmt.Errorf("refresh player snapshot: %w", err)
	}
	s.query.Clear()
	s.logger.InfoContext(ctx, "caches refreshed")

	return s.Status(ctx)
}

// Clear empties the query cache and leaves the player snapshot alone.
func (s *CacheService) Clear(ctx context.Context) (CacheStatus, error) {
	ctx, span := traceOp(ctx, "cache.clear")
	defer span.End()

	s.query.Clear()
	s.logger.InfoContext(ctx, "query cache cleared")

	return s.Status(ctx)
}
