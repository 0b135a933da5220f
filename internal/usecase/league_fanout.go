package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	concpool "github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/fantasy-insights/internal/domain/league"
)

const DefaultMaxWorkers = 16

type fetchPlan struct {
	metadata bool
	rosters  bool
	members  bool
	week     int
}

// leagueFetch is one league's slot in a fan-out. Only its own task writes it.
type leagueFetch struct {
	league   league.League
	rosters  []league.Roster
	members  []league.Member
	matchups []league.Matchup
	err      error
}

func newLeaguePool(size int) (*ants.Pool, error) {
	return ants.NewPool(size)
}

// fetchLeagues runs one task per league on a bounded pool. Per-league failures
// are recorded in the slot and never abort siblings. Results keep input order.
func (s *InsightService) fetchLeagues(ctx context.Context, leagues []league.League, plan fetchPlan) ([]leagueFetch, error) {
	results := make([]leagueFetch, len(leagues))
	if len(leagues) == 0 {
		return results, nil
	}

	workerCount := s.maxWorkers
	if workerCount > len(leagues) {
		workerCount = len(leagues)
	}

	pool, err := s.newPool(workerCount)
	if err != nil {
		err = fmt.Errorf("%w: create worker pool: %w", ErrDependencyUnavailable, err)
		failSpan(ctx, err)
		return nil, err
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i := range leagues {
		i := i
		results[i].league = leagues[i]
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i].err = fmt.Errorf("league %s: panic: %v", leagues[i].ID, r)
				}
			}()

			s.fetchLeague(ctx, &results[i], plan)
		}); err != nil {
			workers.Done()
			results[i].err = fmt.Errorf("%w: submit league %s to worker pool: %w", ErrDependencyUnavailable, leagues[i].ID, err)
		}
	}
	workers.Wait()

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
		}
	}
	annotate(ctx, attrLeaguesUnavailable.Int(failed))

	return results, nil
}

// fetchLeague issues one call per fetch kind and joins them.
func (s *InsightService) fetchLeague(ctx context.Context, slot *leagueFetch, plan fetchPlan) {
	leagueID := slot.league.ID
	p := concpool.New().WithErrors().WithContext(ctx)

	var meta league.League
	if plan.metadata {
		p.Go(func(ctx context.Context) error {
			item, err := s.leagues.GetByID(ctx, leagueID)
			if err != nil {
				return fmt.Errorf("league metadata: %w", err)
			}
			meta = item
			return nil
		})
	}
	if plan.rosters {
		p.Go(func(ctx context.Context) error {
			items, err := s.leagues.ListRosters(ctx, leagueID)
			if err != nil {
				return fmt.Errorf("league rosters: %w", err)
			}
			slot.rosters = items
			return nil
		})
	}
	if plan.members {
		p.Go(func(ctx context.Context) error {
			items, err := s.leagues.ListMembers(ctx, leagueID)
			if err != nil {
				return fmt.Errorf("league members: %w", err)
			}
			slot.members = items
			return nil
		})
	}
	if plan.week > 0 {
		p.Go(func(ctx context.Context) error {
			items, err := s.leagues.ListMatchups(ctx, leagueID, plan.week)
			if err != nil {
				return fmt.Errorf("league matchups week %d: %w", plan.week, err)
			}
			slot.matchups = items
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		slot.err = err
		return
	}
	if plan.metadata && meta.ID != "" {
		slot.league = mergeLeague(slot.league, meta)
	}
}

// mergeLeague prefers fresh metadata but keeps discovery values the detail call omits.
func mergeLeague(discovered, detail league.League) league.League {
	out := detail
	if out.Name == "" {
		out.Name = discovered.Name
	}
	if out.Season == "" {
		out.Season = discovered.Season
	}
	if out.Status == "" {
		out.Status = discovered.Status
	}
	if out.TotalRosters == 0 {
		out.TotalRosters = discovered.TotalRosters
	}
	return out
}
