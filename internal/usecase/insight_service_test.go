package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/fantasy-insights/internal/domain/insight"
	"github.com/riskibarqy/fantasy-insights/internal/domain/league"
	"github.com/riskibarqy/fantasy-insights/internal/domain/player"
	leaguemock "github.com/riskibarqy/fantasy-insights/internal/mocks/domain/league"
	playermock "github.com/riskibarqy/fantasy-insights/internal/mocks/domain/player"
	"github.com/riskibarqy/fantasy-insights/internal/platform/logging"
)

type stubSnapshots struct {
	snap player.Snapshot
	err  error
}

func (s stubSnapshots) Snapshot(context.Context) (player.Snapshot, error) {
	return s.snap, s.err
}

func testCatalog() player.Snapshot {
	active := player.StatusActive
	return player.NewSnapshot([]player.Player{
		{ID: "qb1", FullName: "Quarter One", Position: player.PositionQuarterback, Team: "KC", Status: active},
		{ID: "rb1", FullName: "Runner One", Position: player.PositionRunningBack, Team: "DET", Status: active},
		{ID: "rb2", FullName: "Runner Two", Position: player.PositionRunningBack, Team: "NYJ", Status: active},
		{ID: "rb3", FullName: "Runner Three", Position: player.PositionRunningBack, Team: "BUF", Status: active},
		{ID: "rb4", FullName: "Runner Four", Position: player.PositionRunningBack, Team: "MIA", Status: active},
		{ID: "wr1", FullName: "Wide One", Position: player.PositionWideReceiver, Team: "MIN", Status: active},
		{ID: "hot", FullName: "Hot Back", Position: player.PositionRunningBack, Team: "SF", Status: active},
		{ID: "cold", FullName: "Cold Back", Position: player.PositionRunningBack, Team: "LV", Status: active},
	}, time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC))
}

func newTestInsightService(t *testing.T, defaultUser string) (*InsightService, *leaguemock.Repository, *playermock.TrendingSource) {
	t.Helper()

	repo := leaguemock.NewRepository(t)
	trending := playermock.NewTrendingSource(t)
	service := NewInsightService(repo, stubSnapshots{snap: testCatalog()}, trending, InsightServiceConfig{
		DefaultUserID: defaultUser,
		DefaultSeason: "2024",
		MaxWorkers:    4,
		Logger:        logging.NewNop(),
	})
	return service, repo, trending
}

func TestInsightService_AnalyzeRosters_OneLeagueFailsOthersSucceed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, repo, _ := newTestInsightService(t, "u-1")

	leagues := []league.League{
		{ID: "A", Name: "Alpha", Season: "2024", Status: league.StatusInSeason},
		{ID: "B", Name: "Bravo", Season: "2024", Status: league.StatusComplete},
		{ID: "C", Name: "Charlie", Season: "2024", Status: league.StatusInSeason},
	}
	repo.On("ListByUser", mock.Anything, "u-1", "2024").Return(leagues, nil).Once()
	for _, l := range leagues {
		repo.On("GetByID", mock.Anything, l.ID).Return(l, nil).Once()
		repo.On("ListMembers", mock.Anything, l.ID).Return([]league.Member{{UserID: "u-1", DisplayName: "me", TeamName: "Team " + l.Name}}, nil).Once()
	}

	repo.On("ListRosters", mock.Anything, "A").
		Return(nil, errors.Join(ErrUpstreamUnreachable, errors.New("dial tcp: i/o timeout"))).
		Once()
	repo.On("ListRosters", mock.Anything, "B").Return([]league.Roster{
		{RosterID: 1, OwnerID: "u-1", Players: []string{"qb1", "rb1", "9999"}, Starters: []string{"qb1"}},
		{RosterID: 2, OwnerID: "u-2", Players: []string{"rb2"}},
	}, nil).Once()
	repo.On("ListRosters", mock.Anything, "C").Return([]league.Roster{
		{RosterID: 4, OwnerID: "u-1", Players: []string{"rb2", "wr1"}, Starters: []string{"rb2", "wr1"}, Record: league.Record{Wins: 3, Losses: 1}},
	}, nil).Once()

	got, err := service.AnalyzeRosters(ctx, AnalyzeRostersInput{UserID: "u-1", Season: "2024"})
	if err != nil {
		t.Fatalf("AnalyzeRosters error: %v", err)
	}

	if len(got.Analyses) != 2 {
		t.Fatalf("expected analyses for B and C, got %d", len(got.Analyses))
	}
	if got.Analyses[0].LeagueID != "C" || got.Analyses[1].LeagueID != "B" {
		t.Fatalf("expected in-season league first, got %s,%s", got.Analyses[0].LeagueID, got.Analyses[1].LeagueID)
	}
	for _, a := range got.Analyses {
		if a.LeagueID == "A" {
			t.Fatalf("failed league must not be analyzed")
		}
	}
	if len(got.Unavailable) != 1 || got.Unavailable[0].LeagueID != "A" {
		t.Fatalf("expected A unavailable, got %+v", got.Unavailable)
	}
	if !strings.Contains(got.Unavailable[0].Reason, "upstream unreachable") {
		t.Fatalf("unexpected reason: %q", got.Unavailable[0].Reason)
	}

	bravo := got.Analyses[1]
	if bravo.RosterSize != 3 || bravo.Placeholders != 1 {
		t.Fatalf("placeholders must keep roster size, got size=%d placeholders=%d", bravo.RosterSize, bravo.Placeholders)
	}
	if bravo.Players[2].Name != "Unknown Player (9999)" || !bravo.Players[2].Placeholder {
		t.Fatalf("unexpected placeholder entry: %+v", bravo.Players[2])
	}
	if bravo.Record.WinPct != 0 {
		t.Fatalf("expected 0 win pct without decisions, got %v", bravo.Record.WinPct)
	}
	if bravo.TeamName != "Team Bravo" {
		t.Fatalf("unexpected team name %q", bravo.TeamName)
	}

	if got.Analyses[0].Record.WinPct != 75 {
		t.Fatalf("expected 75 win pct for C, got %v", got.Analyses[0].Record.WinPct)
	}
	if len(got.Comparison) != len(player.Positions) || len(got.Strength) != 2 {
		t.Fatalf("unexpected cross-league output: comparison=%d strength=%d", len(got.Comparison), len(got.Strength))
	}
}

func TestInsightService_AnalyzeRosters_ExcludesLeaguesWithoutUserRoster(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, repo, _ := newTestInsightService(t, "u-1")

	l := league.League{ID: "X", Name: "Guest", Status: league.StatusInSeason}
	repo.On("ListByUser", mock.Anything, "u-1", "2024").Return([]league.League{l}, nil).Once()
	repo.On("GetByID", mock.Anything, "X").Return(l, nil).Once()
	repo.On("ListMembers", mock.Anything, "X").Return([]league.Member{}, nil).Once()
	repo.On("ListRosters", mock.Anything, "X").Return([]league.Roster{{RosterID: 1, OwnerID: "someone"}}, nil).Once()

	got, err := service.AnalyzeRosters(ctx, AnalyzeRostersInput{UserID: "me"})
	if err != nil {
		t.Fatalf("AnalyzeRosters error: %v", err)
	}
	if len(got.Analyses) != 0 || len(got.Excluded) != 1 || got.Excluded[0].Reason != reasonNotMember {
		t.Fatalf("expected league excluded, got %+v", got)
	}
	if got.Comparison != nil {
		t.Fatalf("expected no comparison without analyses")
	}
}

func TestInsightService_AnalyzeRosters_FatalErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("discovery failure keeps cause", func(t *testing.T) {
		service, repo, _ := newTestInsightService(t, "u-1")
		cause := &UpstreamError{Status: 500, Message: "boom"}
		repo.On("ListByUser", mock.Anything, "u-1", "2024").Return(nil, cause).Once()

		_, err := service.AnalyzeRosters(ctx, AnalyzeRostersInput{UserID: "u-1", Season: "2024"})
		var upstreamErr *UpstreamError
		if !errors.As(err, &upstreamErr) || upstreamErr.Status != 500 {
			t.Fatalf("expected upstream cause, got %v", err)
		}
	})

	t.Run("reference data failure", func(t *testing.T) {
		repo := leaguemock.NewRepository(t)
		catalogErr := errors.Join(ErrReferenceDataUnavailable, errors.New("players endpoint down"))
		service := NewInsightService(repo, stubSnapshots{err: catalogErr}, playermock.NewTrendingSource(t), InsightServiceConfig{Logger: logging.NewNop()})
		repo.On("ListByUser", mock.Anything, "u-1", "2024").Return([]league.League{{ID: "A"}}, nil).Once()

		_, err := service.AnalyzeRosters(ctx, AnalyzeRostersInput{UserID: "u-1", Season: "2024"})
		if !errors.Is(err, ErrReferenceDataUnavailable) || !strings.Contains(err.Error(), "players endpoint down") {
			t.Fatalf("expected reference data error with cause, got %v", err)
		}
	})

	t.Run("worker pool failure", func(t *testing.T) {
		service, repo, _ := newTestInsightService(t, "u-1")
		service.newPool = func(int) (*ants.Pool, error) {
			return nil, ants.ErrInvalidPoolExpiry
		}
		repo.On("ListByUser", mock.Anything, "u-1", "2024").Return([]league.League{{ID: "A"}}, nil).Once()

		_, err := service.AnalyzeRosters(ctx, AnalyzeRostersInput{UserID: "u-1", Season: "2024"})
		if !errors.Is(err, ErrDependencyUnavailable) || !errors.Is(err, ants.ErrInvalidPoolExpiry) {
			t.Fatalf("expected dependency error with pool cause, got %v", err)
		}
	})

	t.Run("missing user without default", func(t *testing.T) {
		service, _, _ := newTestInsightService(t, "")
		_, err := service.AnalyzeRosters(ctx, AnalyzeRostersInput{Season: "2024"})
		if !errors.Is(err, ErrConfiguration) {
			t.Fatalf("expected ErrConfiguration, got %v", err)
		}
	})

	t.Run("malformed season", func(t *testing.T) {
		service, _, _ := newTestInsightService(t, "u-1")
		_, err := service.AnalyzeRosters(ctx, AnalyzeRostersInput{Season: "24"})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestInsightService_DiscoverLeagues_InSeasonFirst(t *testing.T) {
	t.Parallel()

	service, repo, _ := newTestInsightService(t, "u-1")
	repo.On("ListByUser", mock.Anything, "u-1", "2023").Return([]league.League{
		{ID: "X", Status: league.StatusComplete},
		{ID: "Y", Status: league.StatusInSeason},
		{ID: "Z", Status: league.StatusPreDraft},
		{ID: "W", Status: league.StatusInSeason},
	}, nil).Once()

	got, err := service.DiscoverLeagues(context.Background(), DiscoverLeaguesInput{Season: "2023"})
	if err != nil {
		t.Fatalf("DiscoverLeagues error: %v", err)
	}
	order := []string{"Y", "W", "X", "Z"}
	for i, id := range order {
		if got.Leagues[i].LeagueID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got.Leagues[i].LeagueID)
		}
	}
	if !got.Leagues[0].Active || got.Leagues[2].Active {
		t.Fatalf("active flag mismatch: %+v", got.Leagues)
	}
}

func TestInsightService_MatchupPriorities(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, repo, _ := newTestInsightService(t, "u-1")

	leagues := []league.League{
		{ID: "M1", Name: "Blowout", Status: league.StatusInSeason},
		{ID: "M2", Name: "Nailbiter", Status: league.StatusInSeason},
		{ID: "M3", Name: "Bye Week", Status: league.StatusInSeason},
	}
	repo.On("ListByUser", mock.Anything, "u-1", "2024").Return(leagues, nil).Once()

	repo.On("ListRosters", mock.Anything, "M1").Return([]league.Roster{{RosterID: 1, OwnerID: "u-1"}, {RosterID: 2, OwnerID: "u-2"}}, nil).Once()
	repo.On("ListMembers", mock.Anything, "M1").Return([]league.Member{{UserID: "u-2", DisplayName: "bob"}}, nil).Once()
	repo.On("ListMatchups", mock.Anything, "M1", 5).Return([]league.Matchup{
		{RosterID: 1, MatchupID: 1, Points: 100},
		{RosterID: 2, MatchupID: 1, Points: 130},
	}, nil).Once()

	repo.On("ListRosters", mock.Anything, "M2").Return([]league.Roster{{RosterID: 3, OwnerID: "u-1"}, {RosterID: 4, OwnerID: "u-4"}}, nil).Once()
	repo.On("ListMembers", mock.Anything, "M2").Return([]league.Member{{UserID: "u-4", DisplayName: "eve", TeamName: "Rivals"}}, nil).Once()
	repo.On("ListMatchups", mock.Anything, "M2", 5).Return([]league.Matchup{
		{RosterID: 3, MatchupID: 2, Points: 88},
		{RosterID: 4, MatchupID: 2, Points: 93},
	}, nil).Once()

	repo.On("ListRosters", mock.Anything, "M3").Return([]league.Roster{{RosterID: 1, OwnerID: "u-1"}}, nil).Once()
	repo.On("ListMembers", mock.Anything, "M3").Return([]league.Member{}, nil).Once()
	repo.On("ListMatchups", mock.Anything, "M3", 5).Return([]league.Matchup{{RosterID: 1}}, nil).Once()

	got, err := service.MatchupPriorities(ctx, MatchupPrioritiesInput{UserID: "u-1", Season: "2024", Week: 5})
	if err != nil {
		t.Fatalf("MatchupPriorities error: %v", err)
	}
	if len(got.Matchups) != 2 {
		t.Fatalf("expected two paired matchups, got %d", len(got.Matchups))
	}
	first, second := got.Matchups[0], got.Matchups[1]
	if first.LeagueID != "M2" || first.Priority != insight.PriorityHigh || first.OpponentName != "Rivals" {
		t.Fatalf("unexpected first matchup: %+v", first)
	}
	if second.LeagueID != "M1" || second.Priority != insight.PriorityLow || second.OpponentName != "bob" {
		t.Fatalf("unexpected second matchup: %+v", second)
	}
	if first.Week != 5 {
		t.Fatalf("expected week 5, got %d", first.Week)
	}
	if len(got.Byes) != 1 || got.Byes[0].LeagueID != "M3" {
		t.Fatalf("expected M3 bye, got %+v", got.Byes)
	}
}

func TestInsightService_MatchupPriorities_RejectsWeekOutOfRange(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestInsightService(t, "u-1")
	for _, week := range []int{0, 19} {
		_, err := service.MatchupPriorities(context.Background(), MatchupPrioritiesInput{Week: week})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("week %d: expected ErrInvalidInput, got %v", week, err)
		}
	}
}

func waiverLeagues(repo *leaguemock.Repository) {
	leagues := []league.League{
		{ID: "L1", Status: league.StatusInSeason},
		{ID: "L2", Status: league.StatusInSeason},
		{ID: "L3", Status: league.StatusInSeason},
	}
	repo.On("ListByUser", mock.Anything, "u-1", "2024").Return(leagues, nil).Once()
	repo.On("ListRosters", mock.Anything, "L1").Return([]league.Roster{
		{RosterID: 1, OwnerID: "u-1", Players: []string{"rb1", "rb2", "rb3", "rb4"}},
		{RosterID: 2, OwnerID: "u-2", Players: []string{"hot", "cold"}},
	}, nil).Once()
	repo.On("ListRosters", mock.Anything, "L2").Return([]league.Roster{
		{RosterID: 1, OwnerID: "u-1", Players: []string{"rb1", "rb2", "rb3"}},
		{RosterID: 2, OwnerID: "u-2", Players: []string{"cold"}},
	}, nil).Once()
	repo.On("ListRosters", mock.Anything, "L3").Return([]league.Roster{
		{RosterID: 1, OwnerID: "u-1", Players: []string{"rb1", "rb2"}},
	}, nil).Once()
}

func TestInsightService_WaiverTargets_TrendingCandidateRanksFirst(t *testing.T) {
	t.Parallel()

	service, repo, trending := newTestInsightService(t, "u-1")
	waiverLeagues(repo)
	trending.On("ListTrending", mock.Anything, player.TrendAdd, 24, 200).
		Return([]player.Trend{{PlayerID: "hot", Count: 60}}, nil).
		Once()

	got, err := service.WaiverTargets(context.Background(), WaiverTargetsInput{UserID: "u-1", Position: "rb", Limit: 10})
	if err != nil {
		t.Fatalf("WaiverTargets error: %v", err)
	}
	if !got.TrendingAvailable || got.LeaguesConsidered != 3 {
		t.Fatalf("unexpected result header: %+v", got)
	}
	if len(got.Groups) != 1 || got.Groups[0].Position != player.PositionRunningBack {
		t.Fatalf("expected a single RB group, got %+v", got.Groups)
	}

	targets := got.Groups[0].Targets
	if targets[0].PlayerID != "hot" || targets[0].Score != 600+20+15+5+3 {
		t.Fatalf("unexpected top target: %+v", targets[0])
	}

	var cold *insight.WaiverCandidate
	for i := range targets {
		if targets[i].PlayerID == "cold" {
			cold = &targets[i]
		}
		if targets[i].PlayerID == "rb1" || targets[i].PlayerID == "rb2" {
			t.Fatalf("players rostered in every league must be excluded: %s", targets[i].PlayerID)
		}
	}
	if cold == nil || cold.Score != 10+15+5+3 {
		t.Fatalf("unexpected cold candidate: %+v", cold)
	}
}

func TestInsightService_WaiverTargets_TrendingFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	service, repo, trending := newTestInsightService(t, "u-1")
	waiverLeagues(repo)
	trending.On("ListTrending", mock.Anything, player.TrendAdd, 24, 200).
		Return(nil, ErrUpstreamUnreachable).
		Once()

	got, err := service.WaiverTargets(context.Background(), WaiverTargetsInput{})
	if err != nil {
		t.Fatalf("WaiverTargets error: %v", err)
	}
	if got.TrendingAvailable {
		t.Fatalf("expected trending to be flagged unavailable")
	}
	if got.Limit != insight.DefaultWaiverLimit || len(got.Groups) != len(player.Positions) {
		t.Fatalf("expected default limit and all positions, got limit=%d groups=%d", got.Limit, len(got.Groups))
	}
	for _, g := range got.Groups {
		if len(g.Targets) > insight.DefaultWaiverLimit {
			t.Fatalf("group %s exceeds limit: %d", g.Position, len(g.Targets))
		}
	}
}

func TestInsightService_WaiverTargets_RejectsUnknownPosition(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestInsightService(t, "u-1")
	_, err := service.WaiverTargets(context.Background(), WaiverTargetsInput{Position: "LB"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
