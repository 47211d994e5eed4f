package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/creatorstation/imgenhancer/internal/db"
	"github.com/creatorstation/imgenhancer/internal/metrics"
	"github.com/jonboulle/clockwork"
)

const (
	// Key is the storage key holding the history list.
	Key = "enhanced_images"

	// Capacity is the maximum number of records kept, independent of age.
	Capacity = 3
)

// Record is one enhanced image. Timestamp is in milliseconds since the epoch.
type Record struct {
	Data      string `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

// Time returns the record's creation time.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Cache is the bounded, newest-first list of enhanced images.
type Cache struct {
	store   db.KeyValueStore
	clock   clockwork.Clock
	metrics *metrics.Metrics

	// mu serializes read-modify-write cycles on Key within this process.
	mu sync.Mutex
}

func NewCache(store db.KeyValueStore, clock clockwork.Clock, m *metrics.Metrics) *Cache {
	return &Cache{
		store:   store,
		clock:   clock,
		metrics: m,
	}
}

// Key returns the storage key the cache writes to.
func (c *Cache) Key() string {
	return Key
}

// Record prepends image to the history and truncates it to Capacity. A write
// rejected for quota drops the oldest record and is retried once; a second
// rejection is only logged.
func (c *Cache) Record(ctx context.Context, image string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return err
	}

	records = append([]Record{{Data: image, Timestamp: c.clock.Now().UnixMilli()}}, records...)
	if len(records) > Capacity {
		c.metrics.Evicted(len(records) - Capacity)
		records = records[:Capacity]
	}

	err = db.SetJSON(ctx, c.store, Key, records)
	if errors.Is(err, db.ErrQuotaExceeded) {
		slog.WarnContext(ctx, "History: storage limit reached, removing oldest item", "records", len(records), "error", err)
		c.metrics.QuotaRetried()

		records = records[:len(records)-1]
		if err := db.SetJSON(ctx, c.store, Key, records); err != nil {
			slog.ErrorContext(ctx, "History: retry after removing oldest item failed", "records", len(records), "error", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("write history: %w", err)
	}

	return nil
}

// List returns the stored records, newest first.
func (c *Cache) List(ctx context.Context) ([]Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

func (c *Cache) load(ctx context.Context) ([]Record, error) {
	records := []Record{}
	if _, err := db.GetJSON(ctx, c.store, Key, &records); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
