package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pentrail/pentrail/internal/app"
	"github.com/pentrail/pentrail/internal/model"
	"github.com/pentrail/pentrail/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <target>",
	Short: "Analyze a target and print testing recommendations",
	Long: `Analyze fetches the target, collects header and page indicators and
prints the recommendation report. The kind flag selects the view:

  headers      response security header posture and score
  technology   detected server and client technologies
  certificate  transport security and HSTS policy`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyColorMode()

		kind, _ := cmd.Flags().GetString("kind")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		if !model.ValidKind(kind) {
			return fmt.Errorf("kind must be headers, technology or certificate, got %q", kind)
		}
		if !report.ValidFormat(format) {
			return fmt.Errorf("format must be text, json, csv or xml, got %q", format)
		}

		cfg := buildConfig()
		cfg.JobTimeout = cfg.SnapshotCfg.Timeout + jobTimeoutGrace
		logger := buildLogger()

		orch, err := app.NewOrchestrator(cfg, logger)
		if err != nil {
			return err
		}
		defer orch.Close()

		analysis, err := orch.Analyze(context.Background(), args[0], model.AnalysisKind(kind))
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		w := os.Stdout
		colorized := !noColor
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			w = f
			colorized = false
		}

		if report.Format(format) == report.FormatText {
			if err := report.RenderText(w, analysis, colorized); err != nil {
				return err
			}
		} else if err := report.Render(w, analysis, report.Format(format)); err != nil {
			return err
		}

		if output != "" {
			fmt.Printf("%s Report written to %s\n", colorSuccess("✓"), output)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringP("kind", "k", string(model.KindHeaders), "analysis kind (headers, technology, certificate)")
	analyzeCmd.Flags().StringP("format", "f", string(report.FormatText), "output format (text, json, csv, xml)")
	analyzeCmd.Flags().StringP("output", "o", "", "write the report to a file instead of stdout")
}
