package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove history entries older than HISTORY_MAX_AGE",
	Long: "Removes history entries older than HISTORY_MAX_AGE. Runs against STORE_DRIVER; with the default memory " +
		"store it only sees this process, so point it at redis, mongo or postgres " +
		"to share history with the server.",
	RunE: func(cmd *cobra.Command, args []string) error {
		warnEphemeralStore()
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		removed, err := a.Sweeper.Sweep(cmd.Context())
		if err != nil {
			return err
		}

		pterm.Success.Printfln("Removed %d stale image(s)", removed)
		return nil
	},
}
