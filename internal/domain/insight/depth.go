package insight

import (
	"math"

	"github.com/riskibarqy/fantasy-insights/internal/domain/league"
	"github.com/riskibarqy/fantasy-insights/internal/domain/player"
)

// Tier is a coarse strength rating.
type Tier string

const (
	TierStrong  Tier = "Strong"
	TierAverage Tier = "Average"
	TierWeak    Tier = "Weak"
)

func (t Tier) order() int {
	switch t {
	case TierStrong:
		return 0
	case TierAverage:
		return 1
	default:
		return 2
	}
}

// Multiplier scales raw depth per position.
func Multiplier(pos player.Position) float64 {
	switch pos {
	case player.PositionQuarterback:
		return 0.8
	case player.PositionRunningBack, player.PositionWideReceiver:
		return 1.2
	default:
		return 1.0
	}
}

// DepthScore weighs starters three times a bench player.
func DepthScore(starters, bench int, pos player.Position) int {
	raw := float64(starters*3+bench) * Multiplier(pos)
	return int(math.Round(raw))
}

func PositionTier(pos player.Position, count int) Tier {
	strong, average := 2, 1
	switch pos {
	case player.PositionRunningBack, player.PositionWideReceiver, player.PositionTightEnd:
		strong, average = 4, 2
	}

	switch {
	case count >= strong:
		return TierStrong
	case count >= average:
		return TierAverage
	default:
		return TierWeak
	}
}

// OverallStrength folds per-position tiers into one rating.
func OverallStrength(tiers []Tier) Tier {
	var strong, weak int
	for _, t := range tiers {
		switch t {
		case TierStrong:
			strong++
		case TierWeak:
			weak++
		}
	}

	switch {
	case strong >= 4 && weak <= 1:
		return TierStrong
	case weak >= 3:
		return TierWeak
	default:
		return TierAverage
	}
}

type PositionDepth struct {
	Position player.Position `json:"position"`
	Starters int             `json:"starters"`
	Bench    int             `json:"bench"`
	Count    int             `json:"count"`
	Score    int             `json:"depthScore"`
	Tier     Tier            `json:"tier"`
}

type RosterDepth struct {
	Positions  []PositionDepth `json:"positions"`
	Overall    Tier            `json:"overall"`
	TotalScore int             `json:"totalDepth"`
}

func (d RosterDepth) Position(pos player.Position) (PositionDepth, bool) {
	for _, item := range d.Positions {
		if item.Position == pos {
			return item, true
		}
	}
	return PositionDepth{}, false
}

// Counts returns rostered players per position.
func (d RosterDepth) Counts() map[player.Position]int {
	out := make(map[player.Position]int, len(d.Positions))
	for _, item := range d.Positions {
		out[item.Position] = item.Count
	}
	return out
}

// AnalyzeDepth groups an enriched roster by position. Players outside the six
// positions, placeholders included, stay on the roster but carry no depth.
func AnalyzeDepth(roster league.Roster, players []player.Player) RosterDepth {
	starters := make(map[player.Position]int, len(player.Positions))
	bench := make(map[player.Position]int, len(player.Positions))
	for _, p := range players {
		if !p.Position.Valid() {
			continue
		}
		if roster.IsStarter(p.ID) {
			starters[p.Position]++
		} else {
			bench[p.Position]++
		}
	}

	out := RosterDepth{Positions: make([]PositionDepth, 0, len(player.Positions))}
	tiers := make([]Tier, 0, len(player.Positions))
	for _, pos := range player.Positions {
		count := starters[pos] + bench[pos]
		item := PositionDepth{
			Position: pos,
			Starters: starters[pos],
			Bench:    bench[pos],
			Count:    count,
			Score:    DepthScore(starters[pos], bench[pos], pos),
			Tier:     PositionTier(pos, count),
		}
		out.Positions = append(out.Positions, item)
		out.TotalScore += item.Score
		tiers = append(tiers, item.Tier)
	}
	out.Overall = OverallStrength(tiers)

	return out
}

// WinPercentage counts ties as half a win. No decisions yields 0.
func WinPercentage(wins, losses, ties int) float64 {
	decisions := wins + losses + ties
	if decisions <= 0 {
		return 0
	}
	pct := (float64(wins) + float64(ties)/2) / float64(decisions) * 100
	return math.Round(pct*10) / 10
}
