package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newDueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "due",
		Short: "List verses due for review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				limit, _ := cmd.Flags().GetInt("limit")
				if limit == 0 {
					limit = a.cfg.Review.DueLimit
				}
				items, err := a.engine.GetDueItems(cmd.Context(), clock(), limit)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					printf(cmd, "Nothing due.\n")
					return nil
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tVERSE\tPAGE\tSTATUS\tINTERVAL\tNEXT REVIEW")
				for _, item := range items {
					fmt.Fprintf(tw, "%s\t%d:%d\t%d\t%s\t%dd\t%s\n",
						item.ID, item.Surah, item.Ayah, item.Page, item.Status,
						item.IntervalDays, item.NextReviewAt)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().Int("limit", 0, "Maximum number of items (default from config)")
	return cmd
}
