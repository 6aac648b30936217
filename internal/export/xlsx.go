package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/strippack/internal/engine"
)

const comparisonSheet = "Comparison"

var comparisonHeaders = []string{"Solver", "Status", "Width", "Height", "Area", "Rate", "Time (ms)", "Valid", "Problems"}

// ExportComparisonXLSX writes one row per compared solver.
func ExportComparisonXLSX(path string, results []engine.ComparisonResult) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), comparisonSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, header := range comparisonHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(comparisonSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(comparisonHeaders), 1)
	if err := f.SetCellStyle(comparisonSheet, "A1", lastHeader, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, res := range results {
		row := comparisonRow(res)
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(comparisonSheet, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// Status describes how a compared solver ended.
func Status(res engine.ComparisonResult) string {
	switch {
	case res.Skipped:
		return "skipped"
	case res.Err != nil:
		return "failed"
	case !res.Valid:
		return "invalid"
	default:
		return "ok"
	}
}

func comparisonRow(res engine.ComparisonResult) []interface{} {
	row := []interface{}{res.Solver, Status(res)}
	if res.Solution == nil {
		msg := ""
		if res.Err != nil {
			msg = res.Err.Error()
		}
		return append(row, "", "", "", "", "", "", msg)
	}
	problems := ""
	for i, p := range res.Problems {
		if i > 0 {
			problems += "; "
		}
		problems += p.Message
	}
	return append(row, res.Width, res.Height, res.Area, res.Rate, res.Elapsed.Milliseconds(), res.Valid, problems)
}
