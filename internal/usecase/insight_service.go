package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/fantasy-insights/internal/domain/insight"
	"github.com/riskibarqy/fantasy-insights/internal/domain/league"
	"github.com/riskibarqy/fantasy-insights/internal/domain/player"
	"github.com/riskibarqy/fantasy-insights/internal/platform/logging"
)

const (
	trendingLookbackHours = 24
	trendingLimit         = 200

	reasonNotMember = "not a member"
)

type InsightServiceConfig struct {
	DefaultUserID string
	DefaultSeason string
	MaxWorkers    int
	Logger        *logging.Logger
}

// InsightService aggregates a user's leagues and ranks the results.
type InsightService struct {
	leagues    league.Repository
	catalog    SnapshotProvider
	trending   player.TrendingSource
	defaults   inputDefaults
	maxWorkers int
	newPool    func(size int) (*ants.Pool, error)
	validator  *validator.Validate
	logger     *logging.Logger
}

func NewInsightService(leagues league.Repository, catalog SnapshotProvider, trending player.TrendingSource, cfg InsightServiceConfig) *InsightService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}

	return &InsightService{
		leagues:    leagues,
		catalog:    catalog,
		trending:   trending,
		defaults:   inputDefaults{userID: cfg.DefaultUserID, season: cfg.DefaultSeason},
		maxWorkers: maxWorkers,
		newPool:    newLeaguePool,
		validator:  validator.New(),
		logger:     logger.Named("insight"),
	}
}

type LeagueSummary struct {
	LeagueID     string        `json:"leagueId"`
	Name         string        `json:"name"`
	Season       string        `json:"season"`
	Status       league.Status `json:"status"`
	Active       bool          `json:"active"`
	TotalRosters int           `json:"totalRosters"`
}

type DiscoverLeaguesResult struct {
	UserID  string          `json:"userId"`
	Season  string          `json:"season"`
	Leagues []LeagueSummary `json:"leagues"`
}

// LeagueIssue explains why a league is missing from a result.
type LeagueIssue struct {
	LeagueID string `json:"leagueId"`
	Name     string `json:"name"`
	Reason   string `json:"reason"`
}

type RecordSummary struct {
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	PointsFor     float64 `json:"pointsFor"`
	PointsAgainst float64 `json:"pointsAgainst"`
	WinPct        float64 `json:"winPct"`
}

type RosterPlayer struct {
	PlayerID    string          `json:"playerId"`
	Name        string          `json:"name"`
	Position    player.Position `json:"position"`
	Team        string          `json:"team,omitempty"`
	Status      player.Status   `json:"status"`
	Starter     bool            `json:"starter"`
	Placeholder bool            `json:"placeholder,omitempty"`
}

type RosterAnalysis struct {
	LeagueID     string              `json:"leagueId"`
	LeagueName   string              `json:"leagueName"`
	Status       league.Status       `json:"status"`
	RosterID     int                 `json:"rosterId"`
	TeamName     string              `json:"teamName"`
	Record       RecordSummary       `json:"record"`
	RosterSize   int                 `json:"rosterSize"`
	Placeholders int                 `json:"placeholders"`
	Players      []RosterPlayer      `json:"players"`
	Depth        insight.RosterDepth `json:"depth"`
}

type AnalyzeRostersResult struct {
	UserID            string                       `json:"userId"`
	Season            string                       `json:"season"`
	SnapshotUpdatedAt time.Time                    `json:"snapshotUpdatedAt"`
	Analyses          []RosterAnalysis             `json:"analyses"`
	Comparison        []insight.PositionComparison `json:"comparison"`
	Strength          []insight.StrengthEntry      `json:"strength"`
	Unavailable       []LeagueIssue                `json:"unavailable"`
	Excluded          []LeagueIssue                `json:"excluded"`
}

type MatchupPrioritiesResult struct {
	UserID      string                   `json:"userId"`
	Season      string                   `json:"season"`
	Week        int                      `json:"week"`
	Matchups    []insight.MatchupInsight `json:"matchups"`
	Byes        []LeagueIssue            `json:"byes"`
	Unavailable []LeagueIssue            `json:"unavailable"`
	Excluded    []LeagueIssue            `json:"excluded"`
}

type WaiverTargetsResult struct {
	UserID            string                `json:"userId"`
	Season            string                `json:"season"`
	Limit             int                   `json:"limit"`
	LeaguesConsidered int                   `json:"leaguesConsidered"`
	TrendingAvailable bool                  `json:"trendingAvailable"`
	Groups            []insight.WaiverGroup `json:"groups"`
	Unavailable       []LeagueIssue         `json:"unavailable"`
	Excluded          []LeagueIssue         `json:"excluded"`
}

func (s *InsightService) DiscoverLeagues(ctx context.Context, in DiscoverLeaguesInput) (DiscoverLeaguesResult, error) {
	ctx, span := traceOp(ctx, "insights.discover_leagues")
	defer span.End()

	in, err := s.defaults.normalizeDiscover(in)
	if err != nil {
		return DiscoverLeaguesResult{}, err
	}
	if err := validateInput(s.validator, in); err != nil {
		return DiscoverLeaguesResult{}, err
	}

	leagues, err := s.discover(ctx, in.UserID, in.Season)
	if err != nil {
		return DiscoverLeaguesResult{}, err
	}

	out := DiscoverLeaguesResult{UserID: in.UserID, Season: in.Season, Leagues: make([]LeagueSummary, 0, len(leagues))}
	for _, l := range leagues {
		out.Leagues = append(out.Leagues, LeagueSummary{
			LeagueID:     l.ID,
			Name:         l.Name,
			Season:       l.Season,
			Status:       l.Status,
			Active:       l.Status.IsActive(),
			TotalRosters: l.TotalRosters,
		})
	}
	return out, nil
}

func (s *InsightService) AnalyzeRosters(ctx context.Context, in AnalyzeRostersInput) (AnalyzeRostersResult, error) {
	ctx, span := traceOp(ctx, "insights.analyze_rosters")
	defer span.End()

	in, err := s.defaults.normalizeAnalyze(in)
	if err != nil {
		return AnalyzeRostersResult{}, err
	}
	if err := validateInput(s.validator, in); err != nil {
		return AnalyzeRostersResult{}, err
	}

	leagues, err := s.discover(ctx, in.UserID, in.Season)
	if err != nil {
		return AnalyzeRostersResult{}, err
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return AnalyzeRostersResult{}, err
	}

	fetches, err := s.fetchLeagues(ctx, leagues, fetchPlan{metadata: true, rosters: true, members: true})
	if err != nil {
		return AnalyzeRostersResult{}, err
	}

	out := AnalyzeRostersResult{
		UserID:            in.UserID,
		Season:            in.Season,
		SnapshotUpdatedAt: snap.UpdatedAt,
		Analyses:          []RosterAnalysis{},
		Unavailable:       []LeagueIssue{},
		Excluded:          []LeagueIssue{},
	}
	for _, f := range fetches {
		if f.err != nil {
			out.Unavailable = append(out.Unavailable, s.unavailable(ctx, f))
			continue
		}
		roster, ok := league.FindByOwner(f.rosters, in.UserID)
		if !ok {
			out.Excluded = append(out.Excluded, LeagueIssue{LeagueID: f.league.ID, Name: f.league.Name, Reason: reasonNotMember})
			continue
		}
		out.Analyses = append(out.Analyses, analyzeRoster(f.league, roster, f.members, snap))
	}

	sort.SliceStable(out.Analyses, func(i, j int) bool {
		return out.Analyses[i].Status.IsActive() && !out.Analyses[j].Status.IsActive()
	})

	depths := make([]insight.LeagueDepth, 0, len(out.Analyses))
	for _, a := range out.Analyses {
		depths = append(depths, insight.LeagueDepth{
			LeagueID:   a.LeagueID,
			LeagueName: a.LeagueName,
			Depth:      a.Depth,
			WinPct:     a.Record.WinPct,
		})
	}
	out.Comparison = insight.CompareDepth(depths)
	out.Strength = insight.StrengthRanking(depths)

	s.logger.InfoContext(ctx, "roster analysis complete",
		"user_id", in.UserID,
		"season", in.Season,
		"leagues", len(leagues),
		"analyzed", len(out.Analyses),
		"unavailable", len(out.Unavailable),
		"excluded", len(out.Excluded),
	)
	return out, nil
}

func (s *InsightService) MatchupPriorities(ctx context.Context, in MatchupPrioritiesInput) (MatchupPrioritiesResult, error) {
	ctx, span := traceOp(ctx, "insights.matchup_priorities", attrWeek.Int(in.Week))
	defer span.End()

	in, err := s.defaults.normalizeMatchups(in)
	if err != nil {
		return MatchupPrioritiesResult{}, err
	}
	if err := validateInput(s.validator, in); err != nil {
		return MatchupPrioritiesResult{}, err
	}

	leagues, err := s.discover(ctx, in.UserID, in.Season)
	if err != nil {
		return MatchupPrioritiesResult{}, err
	}
	fetches, err := s.fetchLeagues(ctx, leagues, fetchPlan{rosters: true, members: true, week: in.Week})
	if err != nil {
		return MatchupPrioritiesResult{}, err
	}

	out := MatchupPrioritiesResult{
		UserID:      in.UserID,
		Season:      in.Season,
		Week:        in.Week,
		Byes:        []LeagueIssue{},
		Unavailable: []LeagueIssue{},
		Excluded:    []LeagueIssue{},
	}
	items := make([]insight.MatchupInsight, 0, len(fetches))
	for _, f := range fetches {
		if f.err != nil {
			out.Unavailable = append(out.Unavailable, s.unavailable(ctx, f))
			continue
		}
		roster, ok := league.FindByOwner(f.rosters, in.UserID)
		if !ok {
			out.Excluded = append(out.Excluded, LeagueIssue{LeagueID: f.league.ID, Name: f.league.Name, Reason: reasonNotMember})
			continue
		}
		mine, opponent, ok := insight.PairMatchup(f.matchups, roster.RosterID)
		if !ok {
			out.Byes = append(out.Byes, LeagueIssue{LeagueID: f.league.ID, Name: f.league.Name, Reason: "no opponent this week"})
			continue
		}
		mine.Week = in.Week
		items = append(items, insight.NewMatchupInsight(f.league, mine, opponent, opponentName(f.rosters, f.members, opponent.RosterID)))
	}
	out.Matchups = insight.RankMatchups(items)

	return out, nil
}

func (s *InsightService) WaiverTargets(ctx context.Context, in WaiverTargetsInput) (WaiverTargetsResult, error) {
	ctx, span := traceOp(ctx, "insights.waiver_targets")
	defer span.End()

	in, err := s.defaults.normalizeWaivers(in)
	if err != nil {
		return WaiverTargetsResult{}, err
	}
	if err := validateInput(s.validator, in); err != nil {
		return WaiverTargetsResult{}, err
	}

	leagues, err := s.discover(ctx, in.UserID, in.Season)
	if err != nil {
		return WaiverTargetsResult{}, err
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return WaiverTargetsResult{}, err
	}

	out := WaiverTargetsResult{
		UserID:            in.UserID,
		Season:            in.Season,
		Limit:             in.Limit,
		TrendingAvailable: true,
		Unavailable:       []LeagueIssue{},
		Excluded:          []LeagueIssue{},
	}

	trending := map[string]int{}
	if trends, err := s.trending.ListTrending(ctx, player.TrendAdd, trendingLookbackHours, trendingLimit); err != nil {
		s.logger.WarnContext(ctx, "trending players unavailable, scoring without them", "error", err)
		out.TrendingAvailable = false
	} else {
		for _, t := range trends {
			trending[t.PlayerID] += t.Count
		}
	}

	fetches, err := s.fetchLeagues(ctx, leagues, fetchPlan{rosters: true})
	if err != nil {
		return WaiverTargetsResult{}, err
	}

	waiverLeagues := make([]insight.WaiverLeague, 0, len(fetches))
	for _, f := range fetches {
		if f.err != nil {
			out.Unavailable = append(out.Unavailable, s.unavailable(ctx, f))
			continue
		}
		roster, ok := league.FindByOwner(f.rosters, in.UserID)
		if !ok {
			out.Excluded = append(out.Excluded, LeagueIssue{LeagueID: f.league.ID, Name: f.league.Name, Reason: reasonNotMember})
			continue
		}
		waiverLeagues = append(waiverLeagues, buildWaiverLeague(f.league, f.rosters, roster, snap))
	}
	out.LeaguesConsidered = len(waiverLeagues)

	var positions []player.Position
	if in.Position != "" {
		positions = []player.Position{player.ParsePosition(in.Position)}
	}
	out.Groups = insight.RankWaiverTargets(snap.List(), waiverLeagues, trending, positions, in.Limit)

	return out, nil
}

func (s *InsightService) discover(ctx context.Context, userID, season string) ([]league.League, error) {
	annotate(ctx, attrUserID.String(userID), attrSeason.String(season))
	leagues, err := s.leagues.ListByUser(ctx, userID, season)
	if err != nil {
		err = fmt.Errorf("discover leagues for user %s season %s: %w", userID, season, err)
		failSpan(ctx, err)
		return nil, err
	}
	annotate(ctx, attrLeagueCount.Int(len(leagues)))

	out := append([]league.League(nil), leagues...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Status.IsActive() && !out[j].Status.IsActive()
	})
	return out, nil
}

func (s *InsightService) unavailable(ctx context.Context, f leagueFetch) LeagueIssue {
	s.logger.WarnContext(ctx, "league unavailable", "league_id", f.league.ID, "error", f.err)
	return LeagueIssue{LeagueID: f.league.ID, Name: f.league.Name, Reason: f.err.Error()}
}

func analyzeRoster(l league.League, roster league.Roster, members []league.Member, snap player.Snapshot) RosterAnalysis {
	resolved := snap.ResolveAll(roster.Players)
	players := make([]RosterPlayer, 0, len(resolved))
	placeholders := 0
	for _, p := range resolved {
		if p.Placeholder {
			placeholders++
		}
		players = append(players, RosterPlayer{
			PlayerID:    p.ID,
			Name:        p.FullName,
			Position:    p.Position,
			Team:        p.Team,
			Status:      p.Status,
			Starter:     roster.IsStarter(p.ID),
			Placeholder: p.Placeholder,
		})
	}

	rec := roster.Record
	return RosterAnalysis{
		LeagueID:   l.ID,
		LeagueName: l.Name,
		Status:     l.Status,
		RosterID:   roster.RosterID,
		TeamName:   teamName(members, roster),
		Record: RecordSummary{
			Wins:          rec.Wins,
			Losses:        rec.Losses,
			Ties:          rec.Ties,
			PointsFor:     rec.PointsFor,
			PointsAgainst: rec.PointsAgainst,
			WinPct:        insight.WinPercentage(rec.Wins, rec.Losses, rec.Ties),
		},
		RosterSize:   len(players),
		Placeholders: placeholders,
		Players:      players,
		Depth:        insight.AnalyzeDepth(roster, resolved),
	}
}

func buildWaiverLeague(l league.League, rosters []league.Roster, mine league.Roster, snap player.Snapshot) insight.WaiverLeague {
	rostered := make(map[string]struct{}, len(rosters)*16)
	for _, r := range rosters {
		for _, id := range r.Players {
			rostered[id] = struct{}{}
		}
	}

	counts := make(map[player.Position]int, len(player.Positions))
	for _, p := range snap.ResolveAll(mine.Players) {
		if p.Position.Valid() {
			counts[p.Position]++
		}
	}

	return insight.WaiverLeague{
		LeagueID:   l.ID,
		LeagueName: l.Name,
		Rostered:   rostered,
		UserCounts: counts,
	}
}

func teamName(members []league.Member, roster league.Roster) string {
	for _, m := range members {
		if m.UserID != roster.OwnerID {
			continue
		}
		if m.TeamName != "" {
			return m.TeamName
		}
		if m.DisplayName != "" {
			return m.DisplayName
		}
	}
	return "Roster " + strconv.Itoa(roster.RosterID)
}

func opponentName(rosters []league.Roster, members []league.Member, rosterID int) string {
	for _, r := range rosters {
		if r.RosterID == rosterID {
			return teamName(members, r)
		}
	}
	return "Roster " + strconv.Itoa(rosterID)
}
