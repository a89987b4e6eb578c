package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/callwatch/callwatch/internal/models"
)

const statsSheet = "Daily Stats"

// DailyStatsWorkbook renders one agent's daily rows into a spreadsheet. The
// caller owns the returned file and must Close it.
func DailyStatsWorkbook(agentName string, rows []models.DailyStatsAgent) (*excelize.File, error) {
	f := excelize.NewFile()

	idx, err := f.NewSheet(statsSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{
		"Date", "Agent", "Total Calls", "Total Duration (s)", "Avg Duration (s)",
		"Successful", "Failed", "Scored", "Avg CSAT",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(statsSheet, cell, h); err != nil {
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(statsSheet, 1, 1, bold); err != nil {
		return nil, err
	}

	for i, row := range rows {
		values := []any{
			row.Date.Format("2006-01-02"),
			agentName,
			row.TotalCalls,
			row.TotalDuration,
			row.AverageDuration,
			row.SuccessfulCalls,
			row.FailedCalls,
			row.ScoredCalls,
		}
		if row.AverageCsatScore != nil {
			values = append(values, *row.AverageCsatScore)
		} else {
			values = append(values, "")
		}

		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(statsSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(statsSheet, "A", "I", 16); err != nil {
		return nil, err
	}
	return f, nil
}

// Filename is the attachment name for an export download.
func Filename(agentID string) string {
	return fmt.Sprintf("daily-stats-%s.xlsx", agentID)
}
