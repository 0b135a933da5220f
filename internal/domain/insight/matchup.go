package insight

import (
	"math"
	"sort"

	"github.com/riskibarqy/fantasy-insights/internal/domain/league"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

const (
	highThreshold   = 10.0
	mediumThreshold = 20.0
)

// ClassifyMatchup maps an absolute score difference to a priority and rank.
func ClassifyMatchup(diff float64) (Priority, int) {
	diff = math.Abs(diff)
	switch {
	case diff < highThreshold:
		return PriorityHigh, 1
	case diff < mediumThreshold:
		return PriorityMedium, 2
	default:
		return PriorityLow, 3
	}
}

// PairMatchup finds the roster's entry and the opponent sharing its matchup id.
// ok is false for byes and for rosters missing from the week.
func PairMatchup(matchups []league.Matchup, rosterID int) (mine, opponent league.Matchup, ok bool) {
	found := false
	for _, m := range matchups {
		if m.RosterID == rosterID {
			mine = m
			found = true
			break
		}
	}
	if !found || mine.MatchupID == 0 {
		return league.Matchup{}, league.Matchup{}, false
	}

	for _, m := range matchups {
		if m.MatchupID == mine.MatchupID && m.RosterID != rosterID {
			return mine, m, true
		}
	}
	return league.Matchup{}, league.Matchup{}, false
}

type MatchupInsight struct {
	LeagueID         string   `json:"leagueId"`
	LeagueName       string   `json:"leagueName"`
	Week             int      `json:"week"`
	RosterID         int      `json:"rosterId"`
	OpponentRosterID int      `json:"opponentRosterId"`
	OpponentName     string   `json:"opponentName"`
	Points           float64  `json:"points"`
	OpponentPoints   float64  `json:"opponentPoints"`
	Difference       float64  `json:"difference"`
	Priority         Priority `json:"priority"`
	Rank             int      `json:"rank"`
}

// NewMatchupInsight classifies one paired matchup.
func NewMatchupInsight(l league.League, mine, opponent league.Matchup, opponentName string) MatchupInsight {
	diff := math.Abs(mine.Points - opponent.Points)
	priority, rank := ClassifyMatchup(diff)
	return MatchupInsight{
		LeagueID:         l.ID,
		LeagueName:       l.Name,
		Week:             mine.Week,
		RosterID:         mine.RosterID,
		OpponentRosterID: opponent.RosterID,
		OpponentName:     opponentName,
		Points:           mine.Points,
		OpponentPoints:   opponent.Points,
		Difference:       math.Round(diff*100) / 100,
		Priority:         priority,
		Rank:             rank,
	}
}

// RankMatchups sorts by rank ascending; equal ranks keep input order.
func RankMatchups(items []MatchupInsight) []MatchupInsight {
	out := append([]MatchupInsight(nil), items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}
