package background

import (
	"errors"
	"strings"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gofiber/fiber/v2"
)

type MenuClickBody struct {
	MenuItemID string `json:"menu_item_id"`
	SrcURL     string `json:"src_url"`
	WindowID   int    `json:"window_id"`
}

func (b MenuClickBody) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.MenuItemID, v.Required),
		v.Field(&b.SrcURL, v.Required, v.By(fetchableURL)),
	)
}

func fetchableURL(value interface{}) error {
	s, _ := value.(string)
	if strings.HasPrefix(s, "data:") {
		return nil
	}
	return is.URL.Validate(s)
}

// MountController mounts the context menu routes the host calls into.
func MountController(router fiber.Router, w *Worker, menus MenuRegistry) {
	router.Get("/items", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"items": menus.Items(),
		})
	})

	router.Post("/click", func(c *fiber.Ctx) error {
		var body MenuClickBody
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		if err := body.Validate(); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		if _, err := menus.Lookup(body.MenuItemID); errors.Is(err, ErrUnknownMenuItem) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		err := w.HandleClick(c.UserContext(), MenuClick(body))
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"message": "Image queued for the panel",
		})
	})
}
