package league

import "fmt"

// Status is the league lifecycle as reported upstream. It only moves forward.
type Status string

const (
	StatusPreDraft Status = "pre_draft"
	StatusDrafting Status = "drafting"
	StatusInSeason Status = "in_season"
	StatusComplete Status = "complete"
)

// IsActive reports whether games are being played.
func (s Status) IsActive() bool {
	return s == StatusInSeason
}

// League is one fantasy league the user belongs to.
type League struct {
	ID              string
	Name            string
	Season          string
	Status          Status
	TotalRosters    int
	ScoringSettings map[string]float64
	RosterPositions []string
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Season == "" {
		return fmt.Errorf("league season is required")
	}

	return nil
}

type Record struct {
	Wins          int
	Losses        int
	Ties          int
	PointsFor     float64
	PointsAgainst float64
}

func (r Record) Decisions() int {
	return r.Wins + r.Losses + r.Ties
}

// Roster is a team slot inside a league. OwnerID is empty for unowned slots.
type Roster struct {
	RosterID int
	OwnerID  string
	Players  []string
	Starters []string
	Record   Record
}

func (r Roster) IsStarter(playerID string) bool {
	for _, id := range r.Starters {
		if id == playerID {
			return true
		}
	}
	return false
}

// Bench returns rostered ids that are not starters, preserving roster order.
func (r Roster) Bench() []string {
	starters := make(map[string]struct{}, len(r.Starters))
	for _, id := range r.Starters {
		starters[id] = struct{}{}
	}
	out := make([]string, 0, len(r.Players))
	for _, id := range r.Players {
		if _, ok := starters[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}

// FindByOwner returns the roster owned by userID.
func FindByOwner(rosters []Roster, userID string) (Roster, bool) {
	for _, r := range rosters {
		if r.OwnerID != "" && r.OwnerID == userID {
			return r, true
		}
	}
	return Roster{}, false
}

// Matchup is one roster's side of a weekly pairing. MatchupID 0 means bye.
type Matchup struct {
	RosterID  int
	MatchupID int
	Points    float64
	Week      int
}

type Member struct {
	UserID      string
	DisplayName string
	TeamName    string
}
