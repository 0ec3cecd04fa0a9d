package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pentrail/pentrail/internal/app"
	"github.com/pentrail/pentrail/internal/report"
	"github.com/pentrail/pentrail/internal/store"
)

var showCmd = &cobra.Command{
	Use:   "show <analysis-id>",
	Short: "Show a stored analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyColorMode()

		format, _ := cmd.Flags().GetString("format")
		if !report.ValidFormat(format) {
			return fmt.Errorf("format must be text, json, csv or xml, got %q", format)
		}

		orch, err := app.NewOrchestrator(buildConfig(), buildLogger())
		if err != nil {
			return err
		}
		defer orch.Close()

		analysis, err := orch.GetAnalysis(context.Background(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no analysis with ID %s", args[0])
		}
		if err != nil {
			return err
		}

		if report.Format(format) == report.FormatText {
			return report.RenderText(os.Stdout, analysis, !noColor)
		}
		return report.Render(os.Stdout, analysis, report.Format(format))
	},
}

func init() {
	showCmd.Flags().StringP("format", "f", string(report.FormatText), "output format (text, json, csv, xml)")
}
