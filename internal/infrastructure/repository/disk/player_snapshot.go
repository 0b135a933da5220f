package disk

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cespare/xxhash/v2"
	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"

	"github.com/riskibarqy/fantasy-insights/internal/domain/player"
	"github.com/riskibarqy/fantasy-insights/internal/platform/logging"
	"github.com/riskibarqy/fantasy-insights/internal/usecase"
)

const DefaultSnapshotTTL = 24 * time.Hour

type PlayerSnapshotStoreConfig struct {
	Path   string
	TTL    time.Duration
	Clock  clockwork.Clock
	Logger *logging.Logger
}

// PlayerSnapshotStore keeps the player catalog in one JSON file keyed by player id.
// Writes go to a temp file in the same directory and are renamed into place, so
// readers see either the previous file or the new one.
type PlayerSnapshotStore struct {
	path   string
	ttl    time.Duration
	clock  clockwork.Clock
	logger *logging.Logger

	mu      sync.Mutex
	current atomic.Pointer[player.Snapshot]

	rename func(oldPath, newPath string) error
}

var _ player.SnapshotStore = (*PlayerSnapshotStore)(nil)

func NewPlayerSnapshotStore(cfg PlayerSnapshotStoreConfig) (*PlayerSnapshotStore, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, crerr.New("player snapshot path is required")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &PlayerSnapshotStore{
		path:   filepath.Clean(path),
		ttl:    ttl,
		clock:  clock,
		logger: logger.Named("player_snapshot"),
		rename: os.Rename,
	}, nil
}

func (s *PlayerSnapshotStore) Path() string {
	return s.path
}

func (s *PlayerSnapshotStore) TTL() time.Duration {
	return s.ttl
}

// Load returns the held snapshot while it is fresh, otherwise reads the file.
// A missing, expired, or unparseable file reports ok=false. Unparseable files are removed.
func (s *PlayerSnapshotStore) Load(ctx context.Context) (player.Snapshot, bool, error) {
	if snap := s.current.Load(); snap != nil && s.fresh(snap.UpdatedAt) {
		return *snap, true, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have loaded or saved while we waited.
	if snap := s.current.Load(); snap != nil && s.fresh(snap.UpdatedAt) {
		return *snap, true, nil
	}
	s.current.Store(nil)

	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return player.Snapshot{}, false, nil
		}
		return player.Snapshot{}, false, crerr.Wrapf(err, "stat player snapshot %s", s.path)
	}
	if !s.fresh(info.ModTime()) {
		s.logger.InfoContext(ctx, "player snapshot expired", "path", s.path, "last_updated", info.ModTime())
		return player.Snapshot{}, false, nil
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return player.Snapshot{}, false, crerr.Wrapf(err, "read player snapshot %s", s.path)
	}

	players, err := decodeSnapshot(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "player snapshot corrupt, removing",
			"path", s.path,
			"error", crerr.Wrapf(usecase.ErrCacheCorruption, "%v", err),
		)
		if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) {
			s.logger.WarnContext(ctx, "remove corrupt player snapshot failed", "path", s.path, "error", rmErr)
		}
		return player.Snapshot{}, false, nil
	}

	snap := player.NewSnapshot(players, info.ModTime())
	s.current.Store(&snap)
	s.logger.DebugContext(ctx, "player snapshot loaded from disk", "records", snap.Len())

	return snap, true, nil
}

// Save persists players and swaps the held snapshot. On any failure the
// previous file is left in place.
func (s *PlayerSnapshotStore) Save(ctx context.Context, players []player.Player) (player.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return player.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	snap := player.NewSnapshot(players, now)

	data, err := encodeSnapshot(snap)
	if err != nil {
		return player.Snapshot{}, crerr.Wrap(err, "encode player snapshot")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return player.Snapshot{}, crerr.Wrapf(err, "create snapshot dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return player.Snapshot{}, crerr.Wrap(err, "create temp snapshot")
	}
	tmpName := tmp.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return player.Snapshot{}, crerr.Wrap(err, "write temp snapshot")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return player.Snapshot{}, crerr.Wrap(err, "sync temp snapshot")
	}
	if err := tmp.Close(); err != nil {
		return player.Snapshot{}, crerr.Wrap(err, "close temp snapshot")
	}

	if err := verifySnapshotFile(tmpName, data, snap.Len()); err != nil {
		return player.Snapshot{}, err
	}
	if err := os.Chtimes(tmpName, now, now); err != nil {
		return player.Snapshot{}, crerr.Wrap(err, "stamp temp snapshot")
	}
	if err := s.rename(tmpName, s.path); err != nil {
		return player.Snapshot{}, crerr.Wrapf(err, "replace player snapshot %s", s.path)
	}
	renamed = true

	s.current.Store(&snap)
	s.logger.InfoContext(ctx, "player snapshot saved", "path", s.path, "records", snap.Len(), "bytes", len(data))

	return snap, nil
}

func (s *PlayerSnapshotStore) Status(ctx context.Context) (player.SnapshotStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := player.SnapshotStatus{Path: s.path}
	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return status, nil
		}
		return status, crerr.Wrapf(err, "stat player snapshot %s", s.path)
	}

	status.Exists = true
	status.LastUpdated = info.ModTime()
	status.IsExpired = !s.fresh(info.ModTime())
	status.SizeBytes = info.Size()

	if snap := s.current.Load(); snap != nil {
		status.RecordCount = snap.Len()
		return status, nil
	}

	// Best effort: an unreadable file reports zero records.
	if raw, err := os.ReadFile(s.path); err == nil {
		var ids map[string]struct{}
		if err := sonic.Unmarshal(raw, &ids); err == nil {
			status.RecordCount = len(ids)
		}
	}

	return status, nil
}

// Refresh drops the file and the held snapshot. The next Load misses.
func (s *PlayerSnapshotStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Store(nil)
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return crerr.Wrapf(err, "remove player snapshot %s", s.path)
	}
	s.logger.InfoContext(ctx, "player snapshot invalidated", "path", s.path)

	return nil
}

func (s *PlayerSnapshotStore) fresh(updatedAt time.Time) bool {
	return s.clock.Since(updatedAt) < s.ttl
}

func verifySnapshotFile(path string, want []byte, wantRecords int) error {
	got, err := os.ReadFile(path)
	if err != nil {
		return crerr.Wrap(err, "re-read temp snapshot")
	}
	if xxhash.Sum64(got) != xxhash.Sum64(want) {
		return crerr.Newf("temp snapshot checksum mismatch: wrote %d bytes, read %d", len(want), len(got))
	}

	players, err := decodeSnapshot(got)
	if err != nil {
		return crerr.Wrap(err, "re-parse temp snapshot")
	}
	if len(players) != wantRecords {
		return crerr.Newf("temp snapshot record count mismatch: want %d, got %d", wantRecords, len(players))
	}
	return nil
}
