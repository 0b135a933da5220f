package league

import "testing"

func TestRosterBench(t *testing.T) {
	r := Roster{
		Players:  []string{"a", "b", "c", "d"},
		Starters: []string{"c", "a"},
	}
	bench := r.Bench()
	if len(bench) != 2 || bench[0] != "b" || bench[1] != "d" {
		t.Fatalf("unexpected bench: %v", bench)
	}
	if !r.IsStarter("c") || r.IsStarter("d") {
		t.Fatalf("starter lookup mismatch")
	}
}

func TestFindByOwnerSkipsUnownedSlots(t *testing.T) {
	rosters := []Roster{
		{RosterID: 1, OwnerID: ""},
		{RosterID: 2, OwnerID: "u-2"},
		{RosterID: 3, OwnerID: "u-1"},
	}
	got, ok := FindByOwner(rosters, "u-1")
	if !ok || got.RosterID != 3 {
		t.Fatalf("expected roster 3, got %+v ok=%v", got, ok)
	}
	if _, ok := FindByOwner(rosters, ""); ok {
		t.Fatalf("empty owner must never match an unowned slot")
	}
}

func TestStatusIsActive(t *testing.T) {
	if !StatusInSeason.IsActive() {
		t.Fatalf("in_season should be active")
	}
	for _, s := range []Status{StatusPreDraft, StatusDrafting, StatusComplete} {
		if s.IsActive() {
			t.Fatalf("%s should not be active", s)
		}
	}
}
