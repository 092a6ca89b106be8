package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/hifz/pkg/models"
)

// ExportSheet is the sheet written by ExportItems
const ExportSheet = "Sheet1"

var exportHeader = []interface{}{
	"Surah", "Ayah", "Page", "ID", "Status", "Total Reps", "Consecutive Correct",
	"Ease Factor", "Interval Days", "Next Review", "Last Attempt", "Last Grade",
	"Created", "Updated",
}

// ExportItems writes items to an xlsx workbook. The first three columns match
// DefaultImportConfig so an export can be imported again.
func ExportItems(path string, items []models.Item) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(ExportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := exportRow(item)
		if err := f.SetSheetRow(ExportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func exportRow(item models.Item) []interface{} {
	next := ""
	if at, ok := item.NextReviewAt.Time(); ok {
		next = formatTime(at)
	}
	lastAttempt := ""
	if item.LastAttemptAt != nil {
		lastAttempt = formatTime(*item.LastAttemptAt)
	}
	lastGrade := ""
	if item.LastGrade != nil {
		lastGrade = item.LastGrade.String()
	}
	return []interface{}{
		item.Surah,
		item.Ayah,
		item.Page,
		item.ID,
		string(item.Status),
		item.TotalReps,
		item.ConsecutiveCorrect,
		item.EaseFactor,
		item.IntervalDays,
		next,
		lastAttempt,
		lastGrade,
		formatTime(item.CreatedAt),
		formatTime(item.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
