package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/hifz/pkg/models"
)

func newGradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grade <id> <again|hard|good|easy>",
		Short: "Record how well a verse was recalled",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			grade, err := models.ParseGrade(args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, func(a *app) error {
				out, err := a.engine.RecordAttempt(cmd.Context(), args[0], grade, clock())
				var storageErr *models.StorageError
				if errors.As(err, &storageErr) {
					return fmt.Errorf("could not save progress: %w", err)
				}
				if err != nil {
					return err
				}
				printf(cmd, "status=%s interval=%dd next=%s\n",
					out.Status, out.IntervalDays, out.NextReviewAt.Format("2006-01-02"))
				return nil
			})
		},
	}
}
