package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pentrail/pentrail/internal/app"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored analyses",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyColorMode()

		limit, _ := cmd.Flags().GetInt("limit")

		orch, err := app.NewOrchestrator(buildConfig(), buildLogger())
		if err != nil {
			return err
		}
		defer orch.Close()

		analyses, err := orch.ListAnalyses(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("failed to list analyses: %w", err)
		}
		if len(analyses) == 0 {
			fmt.Printf("%s no stored analyses\n", colorInfo("→"))
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tURL\tKIND\tSCORE\tCREATED")
		for _, a := range analyses {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
				a.ID, a.URL, a.Kind, a.Score, a.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return tw.Flush()
	},
}

func init() {
	listCmd.Flags().IntP("limit", "n", 20, "maximum analyses to list (0 = all)")
}
