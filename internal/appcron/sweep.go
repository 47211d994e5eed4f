package appcron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/creatorstation/imgenhancer/internal/history"
	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
)

// Sweeper is the maintenance job run on the schedule.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
	Run()
}

// NewSweepCron returns an unstarted cron that runs the sweeper every
// interval. Overlapping runs are skipped.
func NewSweepCron(sweeper Sweeper, interval time.Duration) (*cron.Cron, error) {
	if interval <= 0 {
		interval = history.SweepInterval
	}

	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err := c.AddFunc(fmt.Sprintf("@every %s", interval), sweeper.Run)
	if err != nil {
		return nil, fmt.Errorf("failed to add sweep cron job: %w", err)
	}

	slog.Info("Sweep cron job scheduled", "interval", interval)
	return c, nil
}

// MountMaintenanceController mounts the manual sweep trigger.
func MountMaintenanceController(router fiber.Router, sweeper Sweeper) {
	router.Post("/run-sweep", func(c *fiber.Ctx) error {
		removed, err := sweeper.Sweep(c.UserContext())
		if err != nil {
			slog.WarnContext(c.UserContext(), "Manual sweep failed", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"message": "Sweep completed",
			"removed": removed,
		})
	})
}
