package cmd

import (
	"github.com/spf13/cobra"

	"github.com/example/hifz/internal/excel"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.xlsx|file.csv>",
		Short: "Register verses listed in a spreadsheet (columns: surah, ayah, page)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			importCfg := excel.DefaultImportConfig()
			importCfg.FilePath = args[0]
			importCfg.SheetName, _ = cmd.Flags().GetString("sheet")
			importCfg.StartRow, _ = cmd.Flags().GetInt("start-row")

			return withApp(cmd, func(a *app) error {
				result, err := excel.ImportItems(cmd.Context(), importCfg, a.engine, clock())
				if result != nil {
					printf(cmd, "processed=%d registered=%d duplicates=%d errors=%d\n",
						result.TotalProcessed, result.Registered, result.Skipped, len(result.Errors))
					for _, msg := range result.Errors {
						printf(cmd, "  %s\n", msg)
					}
				}
				return err
			})
		},
	}
	cmd.Flags().String("sheet", "", "Sheet name (default: first sheet)")
	cmd.Flags().Int("start-row", 2, "First data row, 1-based")
	return cmd
}
