package insight

import (
	"testing"

	"github.com/riskibarqy/fantasy-insights/internal/domain/player"
)

func set(ids ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func TestRankWaiverTargetsTrendingScenario(t *testing.T) {
	catalog := []player.Player{
		{ID: "hot", FullName: "Hot Back", Position: player.PositionRunningBack, Team: "DET", Status: player.StatusActive},
		{ID: "cold", FullName: "Cold Back", Position: player.PositionRunningBack, Team: "NYJ", Status: player.StatusActive},
		{ID: "gone", FullName: "Everywhere Back", Position: player.PositionRunningBack, Team: "SF", Status: player.StatusActive},
		{ID: "fa", FullName: "Free Agent", Position: player.PositionRunningBack, Status: player.StatusActive},
		{ID: "out", FullName: "Hurt Back", Position: player.PositionRunningBack, Team: "LV", Status: player.StatusOut},
	}
	leagues := []WaiverLeague{
		{LeagueID: "L1", Rostered: set("hot", "cold", "gone"), UserCounts: map[player.Position]int{player.PositionRunningBack: 4}},
		{LeagueID: "L2", Rostered: set("cold", "gone"), UserCounts: map[player.Position]int{player.PositionRunningBack: 3}},
		{LeagueID: "L3", Rostered: set("gone"), UserCounts: map[player.Position]int{player.PositionRunningBack: 2}},
	}
	trending := map[string]int{"hot": 60}

	groups := RankWaiverTargets(catalog, leagues, trending, []player.Position{player.PositionRunningBack}, 0)
	if len(groups) != 1 {
		t.Fatalf("expected one group, got %d", len(groups))
	}
	targets := groups[0].Targets
	if len(targets) != 2 {
		t.Fatalf("expected two eligible targets, got %+v", targets)
	}

	hot := targets[0]
	if hot.PlayerID != "hot" {
		t.Fatalf("expected trending player first, got %s", hot.PlayerID)
	}
	wantHot := 600 + 20 + 15 + 5 + ScarcityBonus(player.PositionRunningBack)
	if hot.Score != wantHot {
		t.Fatalf("expected score %d, got %d", wantHot, hot.Score)
	}
	if len(hot.AvailableIn) != 2 || len(hot.NeededIn) != 1 || hot.NeededIn[0] != "L3" {
		t.Fatalf("unexpected availability: %+v", hot)
	}

	cold := targets[1]
	if cold.PlayerID != "cold" || cold.Score != 10+15+5+3 {
		t.Fatalf("unexpected second target: %+v", cold)
	}
}

func TestRankWaiverTargetsTieBreakAndLimit(t *testing.T) {
	catalog := []player.Player{
		{ID: "3", FullName: "Bravo", Position: player.PositionTightEnd, Team: "A", Status: player.StatusQuestionable},
		{ID: "2", FullName: "alpha", Position: player.PositionTightEnd, Team: "A", Status: player.StatusQuestionable},
		{ID: "1", FullName: "Alpha", Position: player.PositionTightEnd, Team: "A", Status: player.StatusQuestionable},
		{ID: "9", FullName: "Kicker", Position: player.PositionKicker, Team: "A", Status: player.StatusActive},
	}
	leagues := []WaiverLeague{{LeagueID: "L1", Rostered: set(), UserCounts: map[player.Position]int{player.PositionTightEnd: 5}}}

	groups := RankWaiverTargets(catalog, leagues, nil, []player.Position{player.PositionTightEnd}, 2)
	targets := groups[0].Targets
	if len(targets) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(targets))
	}
	if targets[0].PlayerID != "1" || targets[1].PlayerID != "2" {
		t.Fatalf("expected name then id tie-break, got %s,%s", targets[0].PlayerID, targets[1].PlayerID)
	}
	if targets[0].Score != 10+5 {
		t.Fatalf("questionable TE should score 15, got %d", targets[0].Score)
	}
}

func TestRankWaiverTargetsAllPositions(t *testing.T) {
	groups := RankWaiverTargets(nil, nil, nil, nil, 5)
	if len(groups) != len(player.Positions) {
		t.Fatalf("expected every position group, got %d", len(groups))
	}
	for _, g := range groups {
		if g.Targets == nil {
			t.Fatalf("targets should be empty, not nil, for %s", g.Position)
		}
	}
}
