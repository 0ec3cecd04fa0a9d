package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pentrail/pentrail/internal/app"
)

var compareCmd = &cobra.Command{
	Use:   "compare <base-id> <head-id>",
	Short: "Compare two stored analyses of the same target",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyColorMode()

		asJSON, _ := cmd.Flags().GetBool("json")

		orch, err := app.NewOrchestrator(buildConfig(), buildLogger())
		if err != nil {
			return err
		}
		defer orch.Close()

		diff, err := orch.CompareAnalyses(context.Background(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("comparison failed: %w", err)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(diff)
		}

		fmt.Printf("Comparing %s -> %s\n\n", diff.BaseID, diff.HeadID)
		if diff.ScoreDelta != 0 {
			label := colorSuccess
			if diff.ScoreDelta < 0 {
				label = colorError
			}
			fmt.Printf("Score change: %s\n\n", label(fmt.Sprintf("%+d", diff.ScoreDelta)))
		}

		printDiffList("New signals", diff.AddedSignals, colorSuccess)
		printDiffList("Dropped signals", diff.RemovedSignals, colorWarn)
		printDiffList("New recommendations", diff.AddedRecs, colorError)
		printDiffList("Resolved recommendations", diff.RemovedRecs, colorSuccess)

		if len(diff.AddedSignals)+len(diff.RemovedSignals)+len(diff.AddedRecs)+len(diff.RemovedRecs) == 0 && diff.ScoreDelta == 0 {
			fmt.Printf("%s no differences\n", colorInfo("→"))
		}
		return nil
	},
}

func printDiffList(title string, items []string, paint func(...interface{}) string) {
	if len(items) == 0 {
		return
	}
	fmt.Println(title + ":")
	for _, item := range items {
		fmt.Printf("  %s %s\n", paint("•"), item)
	}
	fmt.Println()
}

func init() {
	compareCmd.Flags().Bool("json", false, "emit the diff as JSON")
}
