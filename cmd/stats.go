package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show memorization progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				stats, err := a.engine.GetProgressStats(cmd.Context(), clock())
				if err != nil {
					return err
				}
				if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
					return json.NewEncoder(cmd.OutOrStdout()).Encode(stats)
				}
				printf(cmd, "Total:    %d\nDue:      %d\nLearning: %d\nReview:   %d\nMastered: %d\n",
					stats.TotalItems, stats.DueToday, stats.LearningCount, stats.ReviewCount, stats.MasteredCount)
				return nil
			})
		},
	}
	cmd.Flags().Bool("json", false, "Print as JSON")
	return cmd
}
