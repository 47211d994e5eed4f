package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/creatorstation/imgenhancer/internal/db"
)

const (
	// MaxAge is how long a record survives the sweeper.
	MaxAge = 24 * time.Hour

	// SweepInterval is how often the sweeper runs.
	SweepInterval = time.Hour
)

// Sweeper purges history records older than maxAge. It works on the cache's
// own key, so the age rule and the capacity rule apply to the same list.
type Sweeper struct {
	cache  *Cache
	maxAge time.Duration
}

func NewSweeper(cache *Cache, maxAge time.Duration) *Sweeper {
	if maxAge <= 0 {
		maxAge = MaxAge
	}
	return &Sweeper{cache: cache, maxAge: maxAge}
}

// Sweep removes stale records and returns how many it removed. The list is
// written back only when something was removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()

	records, err := s.cache.load(ctx)
	if err != nil {
		return 0, err
	}

	now := s.cache.clock.Now().UnixMilli()
	limit := s.maxAge.Milliseconds()

	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if now-r.Timestamp <= limit {
			kept = append(kept, r)
		}
	}

	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if err := db.SetJSON(ctx, s.cache.store, s.cache.Key(), kept); err != nil {
		return 0, fmt.Errorf("write swept history: %w", err)
	}

	s.cache.metrics.Swept(removed)
	slog.InfoContext(ctx, "Sweeper: removed stale images", "removed", removed, "remaining", len(kept))
	return removed, nil
}

// Run sweeps and logs failures. It is the scheduled entry point and never
// returns an error.
func (s *Sweeper) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.Sweep(ctx); err != nil {
		slog.WarnContext(ctx, "Sweeper: sweep failed", "error", err)
	}
}
