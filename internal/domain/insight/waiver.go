package insight

import (
	"sort"
	"strings"

	"github.com/riskibarqy/fantasy-insights/internal/domain/player"
)

const (
	DefaultWaiverLimit = 5
	// NeedThreshold is the rostered count below which a position is a need.
	NeedThreshold = 3
)

func ScarcityBonus(pos player.Position) int {
	switch pos {
	case player.PositionRunningBack, player.PositionWideReceiver:
		return 3
	case player.PositionTightEnd:
		return 5
	default:
		return 0
	}
}

// WaiverLeague is what the scorer needs to know about one league.
type WaiverLeague struct {
	LeagueID   string
	LeagueName string
	Rostered   map[string]struct{}
	UserCounts map[player.Position]int
}

func (l WaiverLeague) available(playerID string) bool {
	_, taken := l.Rostered[playerID]
	return !taken
}

type WaiverCandidate struct {
	PlayerID     string          `json:"playerId"`
	Name         string          `json:"name"`
	Position     player.Position `json:"position"`
	Team         string          `json:"team"`
	Status       player.Status   `json:"status"`
	TrendingAdds int             `json:"trendingAdds"`
	AvailableIn  []string        `json:"availableIn"`
	NeededIn     []string        `json:"neededIn"`
	Score        int             `json:"score"`
}

// WaiverScore applies the weighted waiver formula.
func WaiverScore(trendingAdds, availableIn, neededIn int, p player.Player) int {
	score := trendingAdds*10 + availableIn*10 + neededIn*15
	if p.Status == player.StatusActive {
		score += 5
	}
	return score + ScarcityBonus(p.Position)
}

// Eligible filters the catalog to rostered-team, playable players at pos.
func Eligible(p player.Player, pos player.Position) bool {
	return !p.Placeholder && !p.FreeAgent() && p.Playable() && p.Position == pos
}

type WaiverGroup struct {
	Position player.Position   `json:"position"`
	Targets  []WaiverCandidate `json:"targets"`
}

// RankWaiverTargets scores every eligible catalog player against the user's leagues.
// Players rostered everywhere are dropped.
func RankWaiverTargets(catalog []player.Player, leagues []WaiverLeague, trending map[string]int, positions []player.Position, limit int) []WaiverGroup {
	if limit <= 0 {
		limit = DefaultWaiverLimit
	}
	if len(positions) == 0 {
		positions = player.Positions
	}

	out := make([]WaiverGroup, 0, len(positions))
	for _, pos := range positions {
		group := WaiverGroup{Position: pos, Targets: []WaiverCandidate{}}
		for _, p := range catalog {
			if !Eligible(p, pos) {
				continue
			}
			candidate, ok := scoreCandidate(p, leagues, trending[p.ID])
			if !ok {
				continue
			}
			group.Targets = append(group.Targets, candidate)
		}

		sort.Slice(group.Targets, func(i, j int) bool {
			a, b := group.Targets[i], group.Targets[j]
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			if a.TrendingAdds != b.TrendingAdds {
				return a.TrendingAdds > b.TrendingAdds
			}
			if an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name); an != bn {
				return an < bn
			}
			return a.PlayerID < b.PlayerID
		})
		if len(group.Targets) > limit {
			group.Targets = group.Targets[:limit]
		}
		out = append(out, group)
	}

	return out
}

func scoreCandidate(p player.Player, leagues []WaiverLeague, trendingAdds int) (WaiverCandidate, bool) {
	var available, needed []string
	for _, l := range leagues {
		if !l.available(p.ID) {
			continue
		}
		available = append(available, l.LeagueID)
		if l.UserCounts[p.Position] < NeedThreshold {
			needed = append(needed, l.LeagueID)
		}
	}
	if len(available) == 0 {
		return WaiverCandidate{}, false
	}

	return WaiverCandidate{
		PlayerID:     p.ID,
		Name:         p.FullName,
		Position:     p.Position,
		Team:         p.Team,
		Status:       p.Status,
		TrendingAdds: trendingAdds,
		AvailableIn:  available,
		NeededIn:     needed,
		Score:        WaiverScore(trendingAdds, len(available), len(needed), p),
	}, true
}
