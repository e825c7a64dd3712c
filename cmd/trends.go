package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"exitlens/internal/knowledge"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show analysis quality across stored runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		store, err := knowledge.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open knowledge base: %w", err)
		}
		defer store.Close()

		ctx := cmd.Context()
		runs, err := store.RecentRuns(ctx, limit)
		if err != nil {
			return fmt.Errorf("load runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No analysis runs recorded yet.")
			return nil
		}

		fmt.Printf("%-10s  %-19s  %-30s  %8s  %7s\n",
			"Run", "When", "Activity", "Students", "Quality")
		fmt.Println(strings.Repeat("─", 82))
		for _, r := range runs {
			fmt.Printf("%-10s  %-19s  %-30s  %8d  %7.1f\n",
				shorten(r.ID, 10),
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				shorten(r.Activity, 30),
				r.StudentCount,
				r.OverallQuality)
		}

		trends, err := store.QualityTrends(ctx)
		if err != nil {
			return fmt.Errorf("compute trends: %w", err)
		}
		fmt.Printf("\n%d runs · average quality %.1f · recent %.1f · %s\n",
			trends.RunCount, trends.AvgScore, trends.RecentAvg, trends.Trend)
		return nil
	},
}

func shorten(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	trendsCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
}
