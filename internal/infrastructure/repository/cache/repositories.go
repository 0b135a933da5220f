package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/fantasy-insights/internal/domain/league"
	"github.com/riskibarqy/fantasy-insights/internal/domain/player"
	basecache "github.com/riskibarqy/fantasy-insights/internal/platform/cache"
)

// LeagueRepository routes league reads through the query cache.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

var _ league.Repository = (*LeagueRepository)(nil)

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) ListByUser(ctx context.Context, userID, season string) ([]league.League, error) {
	key := basecache.Key("league:list", userID, season)
	items, err := basecache.GetOrFetch(ctx, r.cache, key, func(ctx context.Context) ([]league.League, error) {
		return r.next.ListByUser(ctx, userID, season)
	})
	if err != nil {
		return nil, err
	}
	return append([]league.League(nil), items...), nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, error) {
	key := basecache.Key("league:id", leagueID)
	return basecache.GetOrFetch(ctx, r.cache, key, func(ctx context.Context) (league.League, error) {
		return r.next.GetByID(ctx, leagueID)
	})
}

func (r *LeagueRepository) ListRosters(ctx context.Context, leagueID string) ([]league.Roster, error) {
	key := basecache.Key("league:rosters", leagueID)
	items, err := basecache.GetOrFetch(ctx, r.cache, key, func(ctx context.Context) ([]league.Roster, error) {
		return r.next.ListRosters(ctx, leagueID)
	})
	if err != nil {
		return nil, err
	}
	return append([]league.Roster(nil), items...), nil
}

func (r *LeagueRepository) ListMatchups(ctx context.Context, leagueID string, week int) ([]league.Matchup, error) {
	key := basecache.Key("league:matchups", leagueID, strconv.Itoa(week))
	items, err := basecache.GetOrFetch(ctx, r.cache, key, func(ctx context.Context) ([]league.Matchup, error) {
		return r.next.ListMatchups(ctx, leagueID, week)
	})
	if err != nil {
		return nil, err
	}
	return append([]league.Matchup(nil), items...), nil
}

func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID string) ([]league.Member, error) {
	key := basecache.Key("league:members", leagueID)
	items, err := basecache.GetOrFetch(ctx, r.cache, key, func(ctx context.Context) ([]league.Member, error) {
		return r.next.ListMembers(ctx, leagueID)
	})
	if err != nil {
		return nil, err
	}
	return append([]league.Member(nil), items...), nil
}

// TrendingRepository caches trending lists per kind, window, and limit.
type TrendingRepository struct {
	next  player.TrendingSource
	cache *basecache.Store
}

var _ player.TrendingSource = (*TrendingRepository)(nil)

func NewTrendingRepository(next player.TrendingSource, cache *basecache.Store) *TrendingRepository {
	return &TrendingRepository{next: next, cache: cache}
}

func (r *TrendingRepository) ListTrending(ctx context.Context, kind player.TrendKind, lookbackHours, limit int) ([]player.Trend, error) {
	key := basecache.Key("player:trending", string(kind), strconv.Itoa(lookbackHours), strconv.Itoa(limit))
	items, err := basecache.GetOrFetch(ctx, r.cache, key, func(ctx context.Context) ([]player.Trend, error) {
		return r.next.ListTrending(ctx, kind, lookbackHours, limit)
	})
	if err != nil {
		return nil, err
	}
	return append([]player.Trend(nil), items...), nil
}
