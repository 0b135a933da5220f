package insight

import (
	"math"
	"sort"

	"github.com/riskibarqy/fantasy-insights/internal/domain/player"
)

// LeagueDepth is one analyzed roster used for cross-league views.
type LeagueDepth struct {
	LeagueID   string
	LeagueName string
	Depth      RosterDepth
	WinPct     float64
}

type LeagueScore struct {
	LeagueID   string `json:"leagueId"`
	LeagueName string `json:"leagueName"`
	Score      int    `json:"depthScore"`
}

type PositionComparison struct {
	Position     player.Position `json:"position"`
	Strongest    LeagueScore     `json:"strongest"`
	Weakest      LeagueScore     `json:"weakest"`
	AverageDepth int             `json:"averageDepth"`
	WeakLeagues  int             `json:"weakLeagues"`
	Weakness     bool            `json:"weakness"`
}

const weaknessLeagueThreshold = 2

// CompareDepth ranks leagues per position. Ties resolve to the earlier league.
func CompareDepth(items []LeagueDepth) []PositionComparison {
	if len(items) == 0 {
		return nil
	}

	out := make([]PositionComparison, 0, len(player.Positions))
	for _, pos := range player.Positions {
		cmp := PositionComparison{Position: pos}
		total := 0
		for i, item := range items {
			depth, _ := item.Depth.Position(pos)
			score := LeagueScore{LeagueID: item.LeagueID, LeagueName: item.LeagueName, Score: depth.Score}
			if i == 0 || score.Score > cmp.Strongest.Score {
				cmp.Strongest = score
			}
			if i == 0 || score.Score < cmp.Weakest.Score {
				cmp.Weakest = score
			}
			if depth.Tier == TierWeak {
				cmp.WeakLeagues++
			}
			total += depth.Score
		}
		cmp.AverageDepth = int(math.Round(float64(total) / float64(len(items))))
		cmp.Weakness = cmp.WeakLeagues >= weaknessLeagueThreshold
		out = append(out, cmp)
	}

	return out
}

type StrengthEntry struct {
	Rank       int     `json:"rank"`
	LeagueID   string  `json:"leagueId"`
	LeagueName string  `json:"leagueName"`
	Overall    Tier    `json:"overall"`
	TotalDepth int     `json:"totalDepth"`
	WinPct     float64 `json:"winPct"`
}

// StrengthRanking orders the user's teams by tier, total depth, then win percentage.
func StrengthRanking(items []LeagueDepth) []StrengthEntry {
	out := make([]StrengthEntry, 0, len(items))
	for _, item := range items {
		out = append(out, StrengthEntry{
			LeagueID:   item.LeagueID,
			LeagueName: item.LeagueName,
			Overall:    item.Depth.Overall,
			TotalDepth: item.Depth.TotalScore,
			WinPct:     item.WinPct,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Overall.order() != out[j].Overall.order() {
			return out[i].Overall.order() < out[j].Overall.order()
		}
		if out[i].TotalDepth != out[j].TotalDepth {
			return out[i].TotalDepth > out[j].TotalDepth
		}
		return out[i].WinPct > out[j].WinPct
	})
	for i := range out {
		out[i].Rank = i + 1
	}

	return out
}
