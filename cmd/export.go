package cmd

import (
	"github.com/spf13/cobra"

	"github.com/example/hifz/internal/excel"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Write every tracked verse and its schedule to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				items, err := a.engine.ListItems(cmd.Context())
				if err != nil {
					return err
				}
				if err := excel.ExportItems(args[0], items); err != nil {
					return err
				}
				printf(cmd, "exported %d items to %s\n", len(items), args[0])
				return nil
			})
		},
	}
}
