package cmd

import (
	"github.com/creatorstation/imgenhancer/internal/background"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var clickCmd = &cobra.Command{
	Use:   "click <image-url>",
	Short: "Send an image to the panel as if picked from the context menu",
	Long: "Fetches the image and stores it as the pending image. The next panel " +
		"session takes it, so use a shared store (redis, mongo, postgres) when the " +
		"server runs in another process.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		window, _ := cmd.Flags().GetInt("window")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		click := background.MenuClick{
			MenuItemID: background.EnhanceMenuID,
			SrcURL:     args[0],
			WindowID:   window,
		}
		if err := a.Worker.HandleClick(cmd.Context(), click); err != nil {
			return err
		}

		pterm.Success.Println("Image queued for the panel")
		return nil
	},
}

func init() {
	clickCmd.Flags().Int("window", 0, "Window id passed to the panel host")
}
