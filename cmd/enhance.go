package cmd

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/creatorstation/imgenhancer/internal/enhance"
	"github.com/creatorstation/imgenhancer/internal/panel"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance <image-file>",
	Short: "Enhance a local image file and save the result",
	Long: "Enhances the file and records the result in history. Runs against STORE_DRIVER; with the default memory " +
		"store it only sees this process, so point it at redis, mongo or postgres " +
		"to share history with the server.",
	Args: cobra.ExactArgs(1),
	RunE: runEnhance,
}

func init() {
	enhanceCmd.Flags().StringP("method", "m", enhance.DefaultMethod, "Enhancement method")
	enhanceCmd.Flags().IntP("intensity", "i", enhance.DefaultIntensity, "Intensity (0-100)")
	enhanceCmd.Flags().StringP("out", "o", "enhanced_image.png", "Output file")
}

func runEnhance(cmd *cobra.Command, args []string) error {
	method, _ := cmd.Flags().GetString("method")
	intensity, _ := cmd.Flags().GetInt("intensity")
	out, _ := cmd.Flags().GetString("out")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	mediaType := mime.TypeByExtension(filepath.Ext(args[0]))
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}

	ctx := cmd.Context()
	warnEphemeralStore()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := a.Panel.Open(ctx)
	if err != nil {
		return err
	}
	defer a.Panel.Close(session.ID)

	upload := panel.Upload{Filename: filepath.Base(args[0]), MediaType: mediaType, Data: data}
	if _, err := a.Panel.Drop(ctx, session.ID, upload); err != nil {
		return fmt.Errorf("%s: %w", panel.UserMessage(err), err)
	}

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Applying %s at %d…", method, intensity))
	if _, err := a.Panel.Apply(ctx, session.ID, method, intensity); err != nil {
		spinner.Fail(panel.UserMessage(err))
		return err
	}
	spinner.Success("Enhanced")

	dl, err := a.Panel.Download(session.ID)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, dl.Data, 0644); err != nil {
		return err
	}

	pterm.Success.Printfln("Saved %s (%d bytes)", out, len(dl.Data))
	return nil
}
