package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/hifz/pkg/models"
)

// Registrar registers verses for review
type Registrar interface {
	AddItem(ctx context.Context, surah, ayah, page int, now time.Time) (string, error)
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath    string // Path to the Excel or CSV file
	SurahColumn int    // 0-based column holding the surah number
	AyahColumn  int    // 0-based column holding the ayah number
	PageColumn  int    // 0-based column holding the page, -1 if absent
	SheetName   string // Sheet to import; empty means the first sheet
	StartRow    int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SurahColumn: 0,
		AyahColumn:  1,
		PageColumn:  2,
		StartRow:    2, // skip header
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Registered     int
	Skipped        int
	Errors         []string
}

// ImportItems registers every verse listed in an Excel or CSV file.
// Rows that fail validation are recorded in the result; store failures abort the import.
func ImportItems(ctx context.Context, cfg ImportConfig, reg Registrar, now time.Time) (*ImportResult, error) {
	rows, err := readRows(cfg)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	seen := make(map[string]bool)

	for i, row := range rows {
		rowNum := i + 1
		if rowNum < cfg.StartRow || isBlank(row) {
			continue
		}
		result.TotalProcessed++

		surah, ayah, page, err := parseRow(row, cfg)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}

		id, err := reg.AddItem(ctx, surah, ayah, page, now)
		if err != nil {
			if errors.Is(err, models.ErrValidation) {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
				continue
			}
			return result, fmt.Errorf("row %d: %w", rowNum, err)
		}
		if seen[id] {
			result.Skipped++
			continue
		}
		seen[id] = true
		result.Registered++
	}
	return result, nil
}

func readRows(cfg ImportConfig) ([][]string, error) {
	if strings.ToLower(filepath.Ext(cfg.FilePath)) == ".csv" {
		return readCSV(cfg.FilePath)
	}
	return readExcel(cfg.FilePath, cfg.SheetName)
}

// readExcel returns all rows of a sheet
func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// readCSV returns all records of a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(row []string, cfg ImportConfig) (surah, ayah, page int, err error) {
	if surah, err = intCell(row, cfg.SurahColumn, "surah"); err != nil {
		return 0, 0, 0, err
	}
	if ayah, err = intCell(row, cfg.AyahColumn, "ayah"); err != nil {
		return 0, 0, 0, err
	}
	if cfg.PageColumn >= 0 && cfg.PageColumn < len(row) && strings.TrimSpace(row[cfg.PageColumn]) != "" {
		if page, err = intCell(row, cfg.PageColumn, "page"); err != nil {
			return 0, 0, 0, err
		}
	}
	return surah, ayah, page, nil
}

func intCell(row []string, col int, name string) (int, error) {
	if col < 0 || col >= len(row) {
		return 0, fmt.Errorf("missing %s", name)
	}
	v := strings.TrimSpace(row[col])
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
