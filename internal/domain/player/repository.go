package player

import (
	"context"
	"time"
)

// SnapshotStatus describes the persisted catalog without loading it.
type SnapshotStatus struct {
	Path        string    `json:"path"`
	Exists      bool      `json:"exists"`
	LastUpdated time.Time `json:"lastUpdated"`
	IsExpired   bool      `json:"isExpired"`
	RecordCount int       `json:"recordCount"`
	SizeBytes   int64     `json:"sizeBytes"`
}

// SnapshotStore persists the current catalog snapshot.
type SnapshotStore interface {
	Load(ctx context.Context) (Snapshot, bool, error)
	Save(ctx context.Context, players []Player) (Snapshot, error)
	Status(ctx context.Context) (SnapshotStatus, error)
	Refresh(ctx context.Context) error
}

// Source fetches the full catalog upstream.
type Source interface {
	FetchPlayers(ctx context.Context) ([]Player, error)
}

type TrendKind string

const (
	TrendAdd  TrendKind = "add"
	TrendDrop TrendKind = "drop"
)

type Trend struct {
	PlayerID string
	Count    int
}

type TrendingSource interface {
	ListTrending(ctx context.Context, kind TrendKind, lookbackHours, limit int) ([]Trend, error)
}
