package sleeper

import (
	"strings"

	"github.com/riskibarqy/fantasy-insights/internal/domain/league"
	"github.com/riskibarqy/fantasy-insights/internal/domain/player"
)

type leagueDTO struct {
	LeagueID        string             `json:"league_id"`
	Name            string             `json:"name"`
	Season          string             `json:"season"`
	Status          string             `json:"status"`
	TotalRosters    int                `json:"total_rosters"`
	ScoringSettings map[string]float64 `json:"scoring_settings"`
	RosterPositions []string           `json:"roster_positions"`
}

type rosterSettingsDTO struct {
	Wins               int `json:"wins"`
	Losses             int `json:"losses"`
	Ties               int `json:"ties"`
	Fpts               int `json:"fpts"`
	FptsDecimal        int `json:"fpts_decimal"`
	FptsAgainst        int `json:"fpts_against"`
	FptsAgainstDecimal int `json:"fpts_against_decimal"`
}

type rosterDTO struct {
	RosterID int               `json:"roster_id"`
	OwnerID  *string           `json:"owner_id"`
	Players  []string          `json:"players"`
	Starters []string          `json:"starters"`
	Settings rosterSettingsDTO `json:"settings"`
}

type matchupDTO struct {
	RosterID  int     `json:"roster_id"`
	MatchupID *int    `json:"matchup_id"`
	Points    float64 `json:"points"`
}

type userDTO struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Metadata    struct {
		TeamName string `json:"team_name"`
	} `json:"metadata"`
}

type playerDTO struct {
	PlayerID         string   `json:"player_id"`
	FullName         string   `json:"full_name"`
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	Position         string   `json:"position"`
	Team             string   `json:"team"`
	Status           string   `json:"status"`
	InjuryStatus     string   `json:"injury_status"`
	FantasyPositions []string `json:"fantasy_positions"`
	Active           bool     `json:"active"`
}

type trendingDTO struct {
	PlayerID string `json:"player_id"`
	Count    int    `json:"count"`
}

func mapLeague(in leagueDTO) league.League {
	return league.League{
		ID:              in.LeagueID,
		Name:            in.Name,
		Season:          in.Season,
		Status:          league.Status(strings.ToLower(strings.TrimSpace(in.Status))),
		TotalRosters:    in.TotalRosters,
		ScoringSettings: in.ScoringSettings,
		RosterPositions: in.RosterPositions,
	}
}

func mapRoster(in rosterDTO) league.Roster {
	owner := ""
	if in.OwnerID != nil {
		owner = strings.TrimSpace(*in.OwnerID)
	}
	return league.Roster{
		RosterID: in.RosterID,
		OwnerID:  owner,
		Players:  compactIDs(in.Players),
		Starters: compactIDs(in.Starters),
		Record: league.Record{
			Wins:          in.Settings.Wins,
			Losses:        in.Settings.Losses,
			Ties:          in.Settings.Ties,
			PointsFor:     decimalPoints(in.Settings.Fpts, in.Settings.FptsDecimal),
			PointsAgainst: decimalPoints(in.Settings.FptsAgainst, in.Settings.FptsAgainstDecimal),
		},
	}
}

func mapMatchup(in matchupDTO, week int) league.Matchup {
	matchupID := 0
	if in.MatchupID != nil {
		matchupID = *in.MatchupID
	}
	return league.Matchup{
		RosterID:  in.RosterID,
		MatchupID: matchupID,
		Points:    in.Points,
		Week:      week,
	}
}

func mapMember(in userDTO) league.Member {
	return league.Member{
		UserID:      in.UserID,
		DisplayName: in.DisplayName,
		TeamName:    strings.TrimSpace(in.Metadata.TeamName),
	}
}

func mapPlayer(id string, in playerDTO) player.Player {
	if in.PlayerID != "" {
		id = in.PlayerID
	}

	name := strings.TrimSpace(in.FullName)
	if name == "" {
		name = strings.TrimSpace(in.FirstName + " " + in.LastName)
	}
	if name == "" {
		name = id
	}

	tags := make([]player.Position, 0, len(in.FantasyPositions))
	for _, raw := range in.FantasyPositions {
		if pos := player.ParsePosition(raw); pos.Valid() {
			tags = append(tags, pos)
		}
	}

	return player.Player{
		ID:               id,
		FullName:         name,
		Position:         player.ParsePosition(in.Position),
		Team:             strings.TrimSpace(in.Team),
		Status:           mapPlayerStatus(in),
		FantasyPositions: tags,
	}
}

func mapPlayerStatus(in playerDTO) player.Status {
	if !in.Active {
		return player.StatusInactive
	}
	switch strings.ToLower(strings.TrimSpace(in.InjuryStatus)) {
	case "questionable":
		return player.StatusQuestionable
	case "doubtful":
		return player.StatusDoubtful
	case "out", "ir", "pup", "sus", "na", "cov", "dnr":
		return player.StatusOut
	}
	switch strings.ToLower(strings.TrimSpace(in.Status)) {
	case "inactive", "injured reserve", "physically unable to perform", "non football injury", "suspended":
		return player.StatusInactive
	}
	return player.StatusActive
}

// compactIDs drops the "0" markers used for empty starter slots.
func compactIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || id == "0" {
			continue
		}
		out = append(out, id)
	}
	return out
}

func decimalPoints(whole, decimal int) float64 {
	return float64(whole*100+decimal) / 100
}
