package pending

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/creatorstation/imgenhancer/internal/db"
)

// Key is the storage key of the pending image slot.
const Key = "pendingImage"

var ErrEmptyImage = errors.New("pending image is empty")

// Handoff is a single-slot store that carries an image captured by the
// background worker to the next panel that opens. Last write wins.
type Handoff struct {
	store db.KeyValueStore
	mu    sync.Mutex
}

func NewHandoff(store db.KeyValueStore) *Handoff {
	return &Handoff{store: store}
}

// Stash replaces any pending image with image.
func (h *Handoff) Stash(ctx context.Context, image string) error {
	if image == "" {
		return ErrEmptyImage
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := db.SetJSON(ctx, h.store, Key, image); err != nil {
		return fmt.Errorf("stash pending image: %w", err)
	}
	return nil
}

// Take returns the pending image and clears the slot. ok is false when
// nothing was pending.
func (h *Handoff) Take(ctx context.Context) (image string, ok bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	found, err := db.GetJSON(ctx, h.store, Key, &image)
	if err != nil {
		return "", false, fmt.Errorf("read pending image: %w", err)
	}
	if !found {
		return "", false, nil
	}

	if err := h.store.Remove(ctx, Key); err != nil {
		return "", false, fmt.Errorf("clear pending image: %w", err)
	}
	return image, image != "", nil
}
