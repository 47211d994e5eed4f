package background

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/pkg/browser"
)

// PanelHost opens the foreground panel.
type PanelHost interface {
	Open(ctx context.Context, windowID int) error
}

// BrowserPanelHost opens the panel page in the user's default browser.
type BrowserPanelHost struct {
	PanelURL string

	// openURL is swapped out in tests.
	openURL func(string) error
}

func NewBrowserPanelHost(panelURL string) *BrowserPanelHost {
	return &BrowserPanelHost{PanelURL: panelURL, openURL: browser.OpenURL}
}

func (h *BrowserPanelHost) Open(ctx context.Context, windowID int) error {
	u, err := url.Parse(h.PanelURL)
	if err != nil {
		return fmt.Errorf("invalid panel URL: %w", err)
	}
	q := u.Query()
	q.Set("window", fmt.Sprint(windowID))
	u.RawQuery = q.Encode()

	slog.InfoContext(ctx, "Background: opening panel", "url", u.String())
	return h.openURL(u.String())
}

// LogPanelHost only records the request; used when no desktop browser is
// available and the panel polls for the pending image itself.
type LogPanelHost struct{}

func (LogPanelHost) Open(ctx context.Context, windowID int) error {
	slog.InfoContext(ctx, "Background: panel open requested", "window", windowID)
	return nil
}
