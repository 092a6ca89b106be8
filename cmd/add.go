package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <surah> <ayah>",
		Short: "Register a verse for review",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			surah, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid surah %q", args[0])
			}
			ayah, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid ayah %q", args[1])
			}
			page, _ := cmd.Flags().GetInt("page")

			return withApp(cmd, func(a *app) error {
				id, err := a.engine.AddItem(cmd.Context(), surah, ayah, page, clock())
				if err != nil {
					return err
				}
				printf(cmd, "%s\n", id)
				return nil
			})
		},
	}
	cmd.Flags().Int("page", 0, "Mushaf page of the verse")
	return cmd
}
