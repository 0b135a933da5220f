package usecase

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/riskibarqy/fantasy-insights/internal/domain/player"
	"github.com/riskibarqy/fantasy-insights/internal/platform/logging"
	"github.com/riskibarqy/fantasy-insights/internal/platform/resilience"
)

// SnapshotProvider hands out the current player catalog.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (player.Snapshot, error)
}

// PlayerCatalogService reads the catalog from the disk snapshot and repopulates it
// from upstream on a miss.
type PlayerCatalogService struct {
	store  player.SnapshotStore
	source player.Source
	clock  clockwork.Clock
	logger *logging.Logger
	flight resilience.SingleFlight[player.Snapshot]
}

var _ SnapshotProvider = (*PlayerCatalogService)(nil)

func NewPlayerCatalogService(store player.SnapshotStore, source player.Source, clock clockwork.Clock, logger *logging.Logger) *PlayerCatalogService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerCatalogService{
		store:  store,
		source: source,
		clock:  clock,
		logger: logger.Named("player_catalog"),
	}
}

func (s *PlayerCatalogService) Snapshot(ctx context.Context) (player.Snapshot, error) {
	ctx, span := traceOp(ctx, "catalog.snapshot")
	defer span.End()

	if snap, ok := s.load(ctx); ok {
		return snap, nil
	}

	snap, err, shared := s.flight.Do("players", func() (player.Snapshot, error) {
		loadCtx := context.WithoutCancel(ctx)
		if snap, ok := s.load(loadCtx); ok {
			return snap, nil
		}
		return s.fetchAndSave(loadCtx)
	})
	if err != nil {
		return player.Snapshot{}, err
	}
	if shared {
		s.logger.DebugContext(ctx, "player catalog fetch shared with concurrent caller")
	}

	return snap, nil
}

// Warm forces an upstream fetch and replaces the stored snapshot.
func (s *PlayerCatalogService) Warm(ctx context.Context) (player.Snapshot, error) {
	ctx, span := traceOp(ctx, "catalog.warm")
	defer span.End()

	players, err := s.source.FetchPlayers(ctx)
	if err != nil {
		err = fmt.Errorf("%w: fetch players: %w", ErrReferenceDataUnavailable, err)
		failSpan(ctx, err)
		return player.Snapshot{}, err
	}
	annotate(ctx, attrPlayerRecords.Int(len(players)))

	snap, err := s.store.Save(ctx, players)
	if err != nil {
		return player.Snapshot{}, fmt.Errorf("save player snapshot: %w", err)
	}
	return snap, nil
}

func (s *PlayerCatalogService) load(ctx context.Context) (player.Snapshot, bool) {
	snap, ok, err := s.store.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "load player snapshot failed, refetching", "error", err)
		return player.Snapshot{}, false
	}
	return snap, ok
}

func (s *PlayerCatalogService) fetchAndSave(ctx context.Context) (player.Snapshot, error) {
	players, err := s.source.FetchPlayers(ctx)
	if err != nil {
		err = fmt.Errorf("%w: fetch players: %w", ErrReferenceDataUnavailable, err)
		failSpan(ctx, err)
		return player.Snapshot{}, err
	}
	annotate(ctx, attrPlayerRecords.Int(len(players)))
	if len(players) == 0 {
		return player.Snapshot{}, fmt.Errorf("%w: upstream returned an empty player catalog", ErrReferenceDataUnavailable)
	}

	snap, err := s.store.Save(ctx, players)
	if err != nil {
		// Serve what we fetched; the next miss will try to persist again.
		s.logger.WarnContext(ctx, "save player snapshot failed, serving in-memory catalog", "error", err, "records", len(players))
		return player.NewSnapshot(players, s.clock.Now()), nil
	}

	s.logger.InfoContext(ctx, "player catalog refreshed from upstream", "records", snap.Len())
	return snap, nil
}
