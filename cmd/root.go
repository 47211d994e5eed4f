package cmd

import (
	"context"
	"os"

	"github.com/creatorstation/imgenhancer/internal/app"
	"github.com/creatorstation/imgenhancer/internal/config"
	"github.com/creatorstation/imgenhancer/internal/db"
	"github.com/creatorstation/imgenhancer/internal/logging"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "imgenhancer",
	Short:         "Enhance images through an external enhancement service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, enhanceCmd, historyCmd, sweepCmd, clickCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func newApp(ctx context.Context) (*app.App, error) {
	return app.New(ctx, cfg)
}

// ephemeralStoreNotice explains that the memory store does not outlive this
// process. It is empty for the shared drivers.
func ephemeralStoreNotice(c *config.Config) string {
	if c.StoreDriver != db.DriverMemory {
		return ""
	}
	return "STORE_DRIVER=memory keeps history only for this process; " +
		"use redis, mongo or postgres to share it with a running server"
}

func warnEphemeralStore() {
	if notice := ephemeralStoreNotice(cfg); notice != "" {
		pterm.Warning.Println(notice)
	}
}
