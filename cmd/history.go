package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent enhancements",
	Long: "Lists the images recorded by recent enhancements, newest first. Runs against STORE_DRIVER; with the default memory " +
		"store it only sees this process, so point it at redis, mongo or postgres " +
		"to share history with the server.",
	RunE: runHistory,
}

var historyDownloadCmd = &cobra.Command{
	Use:   "download <index>",
	Short: "Save a history entry as PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDownload,
}

func init() {
	historyCmd.Flags().StringP("output", "o", "", "Output format (json)")
	historyDownloadCmd.Flags().String("out", "", "Output file (defaults to the timestamped name)")
	historyCmd.AddCommand(historyDownloadCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	warnEphemeralStore()
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.History.List(cmd.Context())
	if err != nil {
		return err
	}

	if output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		pterm.Info.Println("No recent enhancements")
		return nil
	}

	rows := pterm.TableData{{"#", "Created", "Size"}}
	for i, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(i),
			r.Time().Local().Format(time.DateTime),
			fmt.Sprintf("%d chars", len(r.Data)),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func runHistoryDownload(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index %q", args[0])
	}
	out, _ := cmd.Flags().GetString("out")

	warnEphemeralStore()
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	dl, err := a.Panel.HistoryDownload(cmd.Context(), index)
	if err != nil {
		return err
	}
	if out == "" {
		out = dl.Filename
	}
	if err := os.WriteFile(out, dl.Data, 0644); err != nil {
		return err
	}

	pterm.Success.Printfln("Saved %s", out)
	return nil
}
