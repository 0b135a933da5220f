package player

import (
	"fmt"
	"strings"
)

// Position is a fantasy football roster category.
type Position string

const (
	PositionQuarterback  Position = "QB"
	PositionRunningBack  Position = "RB"
	PositionWideReceiver Position = "WR"
	PositionTightEnd     Position = "TE"
	PositionKicker       Position = "K"
	PositionDefense      Position = "DEF"
	PositionUnknown      Position = "UNK"
)

// Positions lists the scored categories in display order.
var Positions = []Position{
	PositionQuarterback,
	PositionRunningBack,
	PositionWideReceiver,
	PositionTightEnd,
	PositionKicker,
	PositionDefense,
}

var AllPositions = map[Position]struct{}{
	PositionQuarterback:  {},
	PositionRunningBack:  {},
	PositionWideReceiver: {},
	PositionTightEnd:     {},
	PositionKicker:       {},
	PositionDefense:      {},
}

// ParsePosition normalizes upstream position tags. Team defenses show up as DST or D/ST in some feeds.
func ParsePosition(raw string) Position {
	v := strings.ToUpper(strings.TrimSpace(raw))
	switch v {
	case "DST", "D/ST":
		return PositionDefense
	case "PK":
		return PositionKicker
	}
	if _, ok := AllPositions[Position(v)]; ok {
		return Position(v)
	}
	return PositionUnknown
}

func (p Position) Valid() bool {
	_, ok := AllPositions[p]
	return ok
}

// Status is the availability of a player for the upcoming week.
type Status string

const (
	StatusActive       Status = "active"
	StatusQuestionable Status = "questionable"
	StatusDoubtful     Status = "doubtful"
	StatusOut          Status = "out"
	StatusInactive     Status = "inactive"
	StatusUnavailable  Status = "unavailable"
)

// Player is one record of the reference catalog.
type Player struct {
	ID               string
	FullName         string
	Position         Position
	Team             string
	Status           Status
	FantasyPositions []Position
	Placeholder      bool
}

// Placeholder stands in for a roster id that the current snapshot does not know.
func Placeholder(id string) Player {
	return Player{
		ID:          id,
		FullName:    fmt.Sprintf("Unknown Player (%s)", id),
		Position:    PositionUnknown,
		Status:      StatusUnavailable,
		Placeholder: true,
	}
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("player id is required")
	}
	return nil
}

func (p Player) FreeAgent() bool {
	return strings.TrimSpace(p.Team) == ""
}

// Playable reports whether the player can be started this week.
func (p Player) Playable() bool {
	return p.Status == StatusActive || p.Status == StatusQuestionable
}
