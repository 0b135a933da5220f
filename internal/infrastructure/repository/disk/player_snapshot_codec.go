package disk

import (
	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/fantasy-insights/internal/domain/player"
)

type playerRecord struct {
	ID               string   `json:"id"`
	FullName         string   `json:"full_name"`
	Position         string   `json:"position"`
	Team             string   `json:"team,omitempty"`
	Status           string   `json:"status"`
	FantasyPositions []string `json:"fantasy_positions,omitempty"`
}

func encodeSnapshot(snap player.Snapshot) ([]byte, error) {
	records := make(map[string]playerRecord, snap.Len())
	for id, p := range snap.Players {
		tags := make([]string, 0, len(p.FantasyPositions))
		for _, pos := range p.FantasyPositions {
			tags = append(tags, string(pos))
		}
		records[id] = playerRecord{
			ID:               p.ID,
			FullName:         p.FullName,
			Position:         string(p.Position),
			Team:             p.Team,
			Status:           string(p.Status),
			FantasyPositions: tags,
		}
	}

	return sonic.ConfigStd.Marshal(records)
}

func decodeSnapshot(raw []byte) ([]player.Player, error) {
	var records map[string]playerRecord
	if err := sonic.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	if records == nil {
		return nil, crerr.New("player snapshot is not a JSON object")
	}

	out := make([]player.Player, 0, len(records))
	for id, rec := range records {
		if rec.ID == "" {
			rec.ID = id
		}
		tags := make([]player.Position, 0, len(rec.FantasyPositions))
		for _, raw := range rec.FantasyPositions {
			tags = append(tags, player.Position(raw))
		}
		out = append(out, player.Player{
			ID:               rec.ID,
			FullName:         rec.FullName,
			Position:         player.Position(rec.Position),
			Team:             rec.Team,
			Status:           player.Status(rec.Status),
			FantasyPositions: tags,
		})
	}
	return out, nil
}
