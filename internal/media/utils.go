package media

import (
	"errors"

	"github.com/creatorstation/imgenhancer/internal/enhance"
	"github.com/creatorstation/imgenhancer/internal/panel"
	"github.com/gofiber/fiber/v2"
)

// respondError maps controller errors to HTTP statuses. User-facing failures
// carry a "warning" with the alert text and the unchanged session.
func respondError(c *fiber.Ctx, err error, snap *panel.Snapshot) error {
	status := fiber.StatusInternalServerError
	warn := false

	switch {
	case errors.Is(err, panel.ErrSessionNotFound), errors.Is(err, panel.ErrHistoryNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, panel.ErrInvalidImage), errors.Is(err, enhance.ErrInvalidRequest), errors.Is(err, panel.ErrProcessingImage):
		status, warn = fiber.StatusUnprocessableEntity, true
	case errors.Is(err, enhance.ErrEnhanceFailed):
		status, warn = fiber.StatusBadGateway, true
	case errors.Is(err, panel.ErrBusy):
		status, warn = fiber.StatusConflict, true
	case errors.Is(err, panel.ErrNoImage), errors.Is(err, panel.ErrStaleResult):
		status = fiber.StatusConflict
	}

	body := fiber.Map{"error": err.Error()}
	if warn {
		body["warning"] = panel.UserMessage(err)
	}
	if snap != nil && snap.ID != "" {
		body["session"] = snap
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}
