package player

import (
	"sort"
	"time"
)

// Snapshot is one immutable copy of the catalog. Callers must not mutate Players.
type Snapshot struct {
	Players   map[string]Player
	UpdatedAt time.Time
}

func NewSnapshot(items []Player, updatedAt time.Time) Snapshot {
	players := make(map[string]Player, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		players[item.ID] = item
	}
	return Snapshot{Players: players, UpdatedAt: updatedAt}
}

func (s Snapshot) Len() int {
	return len(s.Players)
}

func (s Snapshot) Get(id string) (Player, bool) {
	p, ok := s.Players[id]
	return p, ok
}

// Resolve never fails: unknown ids come back as placeholders.
func (s Snapshot) Resolve(id string) Player {
	if p, ok := s.Players[id]; ok {
		return p
	}
	return Placeholder(id)
}

func (s Snapshot) ResolveAll(ids []string) []Player {
	out := make([]Player, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.Resolve(id))
	}
	return out
}

// List returns all records sorted by id.
func (s Snapshot) List() []Player {
	out := make([]Player, 0, len(s.Players))
	for _, p := range s.Players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
