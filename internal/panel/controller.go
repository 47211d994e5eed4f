package panel

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"strings"

	"github.com/creatorstation/imgenhancer/internal/enhance"
	"github.com/creatorstation/imgenhancer/internal/history"
	"github.com/creatorstation/imgenhancer/internal/metrics"
	"github.com/creatorstation/imgenhancer/pkg/convert"
	"github.com/creatorstation/imgenhancer/pkg/convert/img"
	"github.com/creatorstation/imgenhancer/pkg/dataurl"
	"github.com/jonboulle/clockwork"
)

const downloadBasename = "enhanced_image"

// HistoryStore is the part of history.Cache the panel uses.
type HistoryStore interface {
	Record(ctx context.Context, image string) error
	List(ctx context.Context) ([]history.Record, error)
}

// PendingSource hands over an image captured before the panel opened.
type PendingSource interface {
	Take(ctx context.Context) (string, bool, error)
}

// Upload is a file dropped on (or picked in) the panel.
type Upload struct {
	Filename  string
	MediaType string
	Data      []byte
}

// Download is a file handed back to the user.
type Download struct {
	Filename  string
	MediaType string
	Data      []byte
}

type Deps struct {
	Enhancer enhance.Enhancer
	History  HistoryStore
	Pending  PendingSource
	Notifier Notifier
	Metrics  *metrics.Metrics
	Clock    clockwork.Clock

	// MaxInputMegapixels downscales larger drops before they are loaded.
	// Zero disables downscaling.
	MaxInputMegapixels float64
}

// Controller runs the panel state machine for every open session.
type Controller struct {
	deps     Deps
	sessions *Sessions
}

func NewController(deps Deps) *Controller {
	if deps.Notifier == nil {
		deps.Notifier = LogNotifier{}
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	return &Controller{deps: deps, sessions: NewSessions()}
}

func (c *Controller) Sessions() *Sessions {
	return c.sessions
}

// Open starts a session. A pending image, if any, is consumed and loaded.
func (c *Controller) Open(ctx context.Context) (Snapshot, error) {
	s := c.sessions.create()

	if c.deps.Pending != nil {
		image, ok, err := c.deps.Pending.Take(ctx)
		if err != nil {
			slog.WarnContext(ctx, "Panel: reading pending image failed", "session", s.ID, "error", err)
		}
		if ok {
			s.mu.Lock()
			s.load(image)
			s.mu.Unlock()
			slog.InfoContext(ctx, "Panel: loaded pending image", "session", s.ID)
		}
	}

	return s.Snapshot(), nil
}

func (c *Controller) Get(id string) (Snapshot, error) {
	s, err := c.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot(), nil
}

func (c *Controller) Close(id string) error {
	return c.sessions.Close(id)
}

// Drop loads an uploaded image file into the session. Non-image files are
// rejected with a warning and leave the session untouched.
func (c *Controller) Drop(ctx context.Context, id string, up Upload) (Snapshot, error) {
	s, err := c.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}

	if !dataurl.IsImage(up.MediaType) || len(up.Data) == 0 {
		return s.Snapshot(), c.warn(ctx, s, fmt.Errorf("%w: %q (%s)", ErrInvalidImage, up.Filename, up.MediaType))
	}

	data, mediaType := c.prepare(ctx, up)

	image, err := dataurl.Encode(data, mediaType)
	if err != nil {
		return s.Snapshot(), c.warn(ctx, s, fmt.Errorf("%w: %v", ErrProcessingImage, err))
	}

	s.mu.Lock()
	s.load(image)
	snap := s.snapshot()
	s.mu.Unlock()

	slog.InfoContext(ctx, "Panel: image dropped", "session", s.ID, "file", up.Filename, "type", mediaType, "bytes", len(data))
	return snap, nil
}

// prepare converts HEIC input and downscales oversized images. Either step
// falling through leaves the upload as it was.
func (c *Controller) prepare(ctx context.Context, up Upload) ([]byte, string) {
	data, mediaType := up.Data, up.MediaType

	if convert.IsHEIC(mediaType) {
		jpeg, err := convert.HEICToJPEG(data)
		if err != nil {
			slog.WarnContext(ctx, "Panel: HEIC conversion failed, keeping original", "file", up.Filename, "error", err)
		} else {
			data, mediaType = jpeg, "image/jpeg"
		}
	}

	if c.deps.MaxInputMegapixels > 0 {
		out, resized, err := img.Downscale(data, c.deps.MaxInputMegapixels)
		switch {
		case err != nil:
			slog.DebugContext(ctx, "Panel: could not decode for downscale", "file", up.Filename, "error", err)
		case resized:
			slog.InfoContext(ctx, "Panel: downscaled input", "file", up.Filename, "before", len(data), "after", len(out))
			data, mediaType = out, "image/png"
		}
	}

	return data, mediaType
}

// Apply sends the session's original image to the enhancement service. On
// success the result is displayed and recorded in history; on failure the
// session is left as it was and a warning is raised.
func (c *Controller) Apply(ctx context.Context, id, method string, intensity int) (Snapshot, error) {
	s, err := c.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	if s.original == "" {
		snap := s.snapshot()
		s.mu.Unlock()
		return snap, ErrNoImage
	}
	if s.busy {
		snap := s.snapshot()
		s.mu.Unlock()
		return snap, c.warn(ctx, s, ErrBusy)
	}
	s.busy = true
	original, generation := s.original, s.generation
	s.mu.Unlock()

	result, err := c.deps.Enhancer.Enhance(ctx, original, method, intensity)

	s.mu.Lock()
	s.busy = false
	if err != nil {
		snap := s.snapshot()
		s.mu.Unlock()
		c.deps.Metrics.Enhanced("failure")
		return snap, c.warn(ctx, s, fmt.Errorf("enhancing the image: %w", err))
	}
	if s.generation != generation {
		snap := s.snapshot()
		s.mu.Unlock()
		c.deps.Metrics.Enhanced("discarded")
		slog.InfoContext(ctx, "Panel: discarded stale enhancement result", "session", s.ID)
		return snap, ErrStaleResult
	}
	s.displayed = result
	s.state = StateEnhanced
	snap := s.snapshot()
	s.mu.Unlock()

	c.deps.Metrics.Enhanced("success")
	slog.InfoContext(ctx, "Panel: image enhanced", "session", s.ID, "method", method, "intensity", intensity)

	if err := c.deps.History.Record(ctx, result); err != nil {
		slog.ErrorContext(ctx, "Panel: recording history failed", "session", s.ID, "error", err)
	}

	return snap, nil
}

// Reset shows the original image again.
func (c *Controller) Reset(id string) (Snapshot, error) {
	s, err := c.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.original != "" {
		s.displayed = s.original
		s.state = StateLoaded
	}
	return s.snapshot(), nil
}

// NewImage clears the session back to the empty drop zone.
func (c *Controller) NewImage(id string) (Snapshot, error) {
	s, err := c.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clear()
	return s.snapshot(), nil
}

// Download returns the displayed image, as PNG when it can be decoded.
func (c *Controller) Download(id string) (Download, error) {
	s, err := c.sessions.Get(id)
	if err != nil {
		return Download{}, err
	}

	s.mu.Lock()
	displayed := s.displayed
	s.mu.Unlock()

	if displayed == "" {
		return Download{}, ErrNoImage
	}
	return imageDownload(displayed, downloadBasename)
}

// History lists the recent enhancements, newest first.
func (c *Controller) History(ctx context.Context) ([]history.Record, error) {
	return c.deps.History.List(ctx)
}

// HistoryDownload returns history entry index under a timestamped name.
func (c *Controller) HistoryDownload(ctx context.Context, index int) (Download, error) {
	records, err := c.deps.History.List(ctx)
	if err != nil {
		return Download{}, err
	}
	if index < 0 || index >= len(records) {
		return Download{}, ErrHistoryNotFound
	}

	name := fmt.Sprintf("%s_%d", downloadBasename, c.deps.Clock.Now().UnixMilli())
	return imageDownload(records[index].Data, name)
}

func (c *Controller) warn(ctx context.Context, s *Session, err error) error {
	c.deps.Notifier.Warn(ctx, s.ID, UserMessage(err))
	return err
}

// imageDownload re-encodes image as PNG. Formats the PNG encoder cannot
// decode (SVG, AVIF, HEIC and the like) are handed back as they are.
func imageDownload(image, basename string) (Download, error) {
	decoded, err := dataurl.Decode(image)
	if err != nil {
		return Download{}, fmt.Errorf("%w: %v", ErrProcessingImage, err)
	}

	data, err := img.PNG(decoded.Data)
	if err != nil {
		slog.Debug("Panel: keeping original format for download", "type", decoded.MediaType, "error", err)
		return Download{
			Filename:  basename + extensionFor(decoded.MediaType),
			MediaType: decoded.MediaType,
			Data:      decoded.Data,
		}, nil
	}

	return Download{Filename: basename + ".png", MediaType: "image/png", Data: data}, nil
}

func extensionFor(mediaType string) string {
	if exts, _ := mime.ExtensionsByType(mediaType); len(exts) > 0 {
		return exts[0]
	}

	sub := mediaType[strings.LastIndex(mediaType, "/")+1:]
	sub = strings.TrimPrefix(sub, "x-")
	if i := strings.IndexAny(sub, "+;"); i >= 0 {
		sub = sub[:i]
	}
	if sub == "" {
		return ".img"
	}
	return "." + sub
}
