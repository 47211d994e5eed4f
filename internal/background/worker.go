package background

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/creatorstation/imgenhancer/pkg/dataurl"
	"github.com/creatorstation/imgenhancer/pkg/web"
)

const (
	EnhanceMenuID    = "enhanceImage"
	enhanceMenuTitle = "Enhance Image"
	imageContext     = "image"
)

// Stasher keeps an image for the next panel that opens.
type Stasher interface {
	Stash(ctx context.Context, image string) error
}

// Scheduler starts the periodic maintenance jobs.
type Scheduler interface {
	Start()
}

// FetchFunc downloads the image behind a context menu click.
type FetchFunc func(ctx context.Context, src string) ([]byte, string, error)

// MenuClick is a context menu selection on a page element.
type MenuClick struct {
	MenuItemID string `json:"menu_item_id"`
	SrcURL     string `json:"src_url"`
	WindowID   int    `json:"window_id"`
}

// Worker is the long-lived background process: it owns the context menu and
// the maintenance schedule, and hands clicked images to the panel.
type Worker struct {
	menus     MenuRegistry
	pending   Stasher
	panels    PanelHost
	scheduler Scheduler
	fetch     FetchFunc
}

func NewWorker(menus MenuRegistry, pending Stasher, panels PanelHost, scheduler Scheduler) *Worker {
	return &Worker{
		menus:     menus,
		pending:   pending,
		panels:    panels,
		scheduler: scheduler,
		fetch:     web.FetchMedia,
	}
}

// Install registers the context menu entry and starts the maintenance
// schedule.
func (w *Worker) Install(ctx context.Context) error {
	err := w.menus.Create(MenuItem{
		ID:       EnhanceMenuID,
		Title:    enhanceMenuTitle,
		Contexts: []string{imageContext},
	})
	if err != nil {
		return fmt.Errorf("register context menu: %w", err)
	}

	if w.scheduler != nil {
		w.scheduler.Start()
	}

	slog.InfoContext(ctx, "Background: installed", "menu", EnhanceMenuID)
	return nil
}

// HandleClick fetches the clicked image, stashes it as the pending image and
// asks the host to open the panel. Clicks on other menu items are ignored.
func (w *Worker) HandleClick(ctx context.Context, click MenuClick) error {
	if click.MenuItemID != EnhanceMenuID {
		return nil
	}

	body, contentType, err := w.fetch(ctx, click.SrcURL)
	if err != nil {
		slog.ErrorContext(ctx, "Background: error loading image", "src", click.SrcURL, "error", err)
		return fmt.Errorf("load image: %w", err)
	}

	if !dataurl.IsImage(contentType) {
		contentType = ""
	}

	image, err := dataurl.Encode(body, contentType)
	if err != nil {
		slog.ErrorContext(ctx, "Background: error encoding image", "src", click.SrcURL, "error", err)
		return fmt.Errorf("encode image: %w", err)
	}

	if err := w.pending.Stash(ctx, image); err != nil {
		slog.ErrorContext(ctx, "Background: error stashing image", "error", err)
		return err
	}

	if err := w.panels.Open(ctx, click.WindowID); err != nil {
		slog.WarnContext(ctx, "Background: could not open panel", "window", click.WindowID, "error", err)
		return fmt.Errorf("open panel: %w", err)
	}
	return nil
}
