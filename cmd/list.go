package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all tracked verses",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				items, err := a.engine.ListItems(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tVERSE\tSTATUS\tREPS\tEASE\tNEXT REVIEW")
				for _, item := range items {
					fmt.Fprintf(tw, "%s\t%d:%d\t%s\t%d\t%.2f\t%s\n",
						item.ID, item.Surah, item.Ayah, item.Status,
						item.TotalReps, item.EaseFactor, item.NextReviewAt)
				}
				return tw.Flush()
			})
		},
	}
}
