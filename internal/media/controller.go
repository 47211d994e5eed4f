package media

import (
	"bytes"
	"log/slog"
	"strconv"

	"github.com/creatorstation/imgenhancer/internal/panel"
	"github.com/gofiber/fiber/v2"
)

type controller struct {
	panel *panel.Controller
}

func MountController(router fiber.Router, p *panel.Controller) {
	h := &controller{panel: p}

	router.Post("/sessions", h.OpenSession)
	router.Get("/sessions/:id", h.GetSession)
	router.Delete("/sessions/:id", h.CloseSession)
	router.Post("/sessions/:id/drop", h.Drop)
	router.Post("/sessions/:id/apply", h.Apply)
	router.Post("/sessions/:id/reset", h.Reset)
	router.Post("/sessions/:id/new", h.NewImage)
	router.Get("/sessions/:id/download", h.Download)

	router.Get("/history", h.History)
	router.Get("/history/:index/download", h.HistoryDownload)
}

func (h *controller) OpenSession(c *fiber.Ctx) error {
	snap, err := h.panel.Open(c.UserContext())
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.Status(fiber.StatusCreated).JSON(snap)
}

func (h *controller) GetSession(c *fiber.Ctx) error {
	snap, err := h.panel.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(snap)
}

func (h *controller) CloseSession(c *fiber.Ctx) error {
	if err := h.panel.Close(c.Params("id")); err != nil {
		return respondError(c, err, nil)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *controller) Drop(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, err)
	}

	fileContent, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	defer fileContent.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(fileContent); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	snap, err := h.panel.Drop(c.UserContext(), c.Params("id"), panel.Upload{
		Filename:  file.Filename,
		MediaType: file.Header.Get("Content-Type"),
		Data:      buf.Bytes(),
	})
	if err != nil {
		return respondError(c, err, &snap)
	}
	return c.JSON(snap)
}

func (h *controller) Apply(c *fiber.Ctx) error {
	var body ApplyBody
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return badRequest(c, err)
		}
	}

	if err := body.Validate(); err != nil {
		return badRequest(c, err)
	}

	method, intensity := body.Resolved()
	slog.DebugContext(c.UserContext(), "Applying enhancement", "session", c.Params("id"), "method", method, "intensity", intensity)

	snap, err := h.panel.Apply(c.UserContext(), c.Params("id"), method, intensity)
	if err != nil {
		return respondError(c, err, &snap)
	}
	return c.JSON(snap)
}

func (h *controller) Reset(c *fiber.Ctx) error {
	snap, err := h.panel.Reset(c.Params("id"))
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(snap)
}

func (h *controller) NewImage(c *fiber.Ctx) error {
	snap, err := h.panel.NewImage(c.Params("id"))
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(snap)
}

func (h *controller) Download(c *fiber.Ctx) error {
	dl, err := h.panel.Download(c.Params("id"))
	if err != nil {
		return respondError(c, err, nil)
	}
	return sendDownload(c, dl)
}

func (h *controller) History(c *fiber.Ctx) error {
	records, err := h.panel.History(c.UserContext())
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(fiber.Map{
		"items": records,
	})
}

func (h *controller) HistoryDownload(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return badRequest(c, err)
	}

	dl, err := h.panel.HistoryDownload(c.UserContext(), index)
	if err != nil {
		return respondError(c, err, nil)
	}
	return sendDownload(c, dl)
}

func sendDownload(c *fiber.Ctx, dl panel.Download) error {
	c.Attachment(dl.Filename)
	c.Context().SetContentType(dl.MediaType)
	return c.Status(fiber.StatusOK).Send(dl.Data)
}
