package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/fantasy-insights/internal/domain/league"
	"github.com/riskibarqy/fantasy-insights/internal/domain/player"
	leaguemock "github.com/riskibarqy/fantasy-insights/internal/mocks/domain/league"
	playermock "github.com/riskibarqy/fantasy-insights/internal/mocks/domain/player"
	basecache "github.com/riskibarqy/fantasy-insights/internal/platform/cache"
)

func TestLeagueRepository_ListRostersReadsThroughOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := leaguemock.NewRepository(t)
	store := basecache.NewStore(time.Minute)
	repo := NewLeagueRepository(next, store)

	next.On("ListRosters", mock.Anything, "L1").
		Return([]league.Roster{{RosterID: 1, OwnerID: "u-1"}}, nil).
		Once()

	for i := 0; i < 3; i++ {
		rosters, err := repo.ListRosters(ctx, "L1")
		if err != nil {
			t.Fatalf("ListRosters error: %v", err)
		}
		if len(rosters) != 1 || rosters[0].OwnerID != "u-1" {
			t.Fatalf("unexpected rosters: %+v", rosters)
		}
		rosters[0].OwnerID = "mutated"
	}

	if stats := store.Stats(); stats.Loads != 1 || stats.Hits != 2 {
		t.Fatalf("unexpected cache stats: %+v", stats)
	}
}

func TestLeagueRepository_MatchupsKeyedByWeek(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := leaguemock.NewRepository(t)
	repo := NewLeagueRepository(next, basecache.NewStore(time.Minute))

	next.On("ListMatchups", mock.Anything, "L1", 3).Return([]league.Matchup{{RosterID: 1, Week: 3}}, nil).Once()
	next.On("ListMatchups", mock.Anything, "L1", 4).Return([]league.Matchup{{RosterID: 1, Week: 4}}, nil).Once()

	for _, week := range []int{3, 4, 3, 4} {
		items, err := repo.ListMatchups(ctx, "L1", week)
		if err != nil {
			t.Fatalf("ListMatchups error: %v", err)
		}
		if items[0].Week != week {
			t.Fatalf("expected week %d, got %d", week, items[0].Week)
		}
	}
}

func TestLeagueRepository_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := leaguemock.NewRepository(t)
	repo := NewLeagueRepository(next, basecache.NewStore(time.Minute))

	boom := errors.New("boom")
	next.On("GetByID", mock.Anything, "L1").Return(league.League{}, boom).Once()
	next.On("GetByID", mock.Anything, "L1").Return(league.League{ID: "L1", Name: "Home"}, nil).Once()

	if _, err := repo.GetByID(ctx, "L1"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, err := repo.GetByID(ctx, "L1")
	if err != nil || got.Name != "Home" {
		t.Fatalf("expected refetch after error, got %+v err=%v", got, err)
	}
}

func TestTrendingRepository_ExpiresWithStoreTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	next := playermock.NewTrendingSource(t)
	repo := NewTrendingRepository(next, basecache.NewStore(5*time.Minute, basecache.WithClock(clock)))

	next.On("ListTrending", mock.Anything, player.TrendAdd, 24, 200).
		Return([]player.Trend{{PlayerID: "111", Count: 60}}, nil).
		Twice()

	for i := 0; i < 2; i++ {
		if _, err := repo.ListTrending(ctx, player.TrendAdd, 24, 200); err != nil {
			t.Fatalf("ListTrending error: %v", err)
		}
	}
	clock.Advance(5 * time.Minute)
	if _, err := repo.ListTrending(ctx, player.TrendAdd, 24, 200); err != nil {
		t.Fatalf("ListTrending error: %v", err)
	}
}
