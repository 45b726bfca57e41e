package reportsrv

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/talentgrid/ctms/pkg/logx"
	"github.com/talentgrid/ctms/tracking/report"
)

type excelColumn struct {
	Title string
	Width float64
}

var (
	candidateExcelColumns = []excelColumn{
		{"No", 5}, {"Name", 25}, {"Email", 30}, {"Phone", 15},
		{"Position", 20}, {"Status", 15}, {"Source", 15},
	}
	interviewExcelColumns = []excelColumn{
		{"No", 5}, {"Candidate", 25}, {"Email", 30}, {"Phone", 15},
		{"Date", 22}, {"Type", 15}, {"Status", 15},
	}
)

func renderExcel(sheet string, columns []excelColumn, totalLabel string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logx.Errorf("failed to close workbook: %v", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, report.ErrExcelGenerationFailed().WithCause(err)
	}

	for i, col := range columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
			return nil, report.ErrExcelGenerationFailed().WithCause(err)
		}
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col.Title); err != nil {
			return nil, report.ErrExcelGenerationFailed().WithCause(err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, report.ErrExcelGenerationFailed().WithCause(err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, report.ErrExcelGenerationFailed().WithCause(err)
	}

	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetCellValue(sheet, cell, r+1); err != nil {
			return nil, report.ErrExcelGenerationFailed().WithCause(err)
		}
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+2, r+2)
			if err := f.SetCellValue(sheet, cell, orNA(value)); err != nil {
				return nil, report.ErrExcelGenerationFailed().WithCause(err)
			}
		}
	}

	// Totals row two lines below the data, merged across the table.
	totalRow := len(rows) + 3
	start := fmt.Sprintf("A%d", totalRow)
	end := fmt.Sprintf("%s%d", lastCol, totalRow)
	if err := f.MergeCell(sheet, start, end); err != nil {
		return nil, report.ErrExcelGenerationFailed().WithCause(err)
	}
	if err := f.SetCellValue(sheet, start, fmt.Sprintf("%s: %d", totalLabel, len(rows))); err != nil {
		return nil, report.ErrExcelGenerationFailed().WithCause(err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "left"},
	})
	if err != nil {
		return nil, report.ErrExcelGenerationFailed().WithCause(err)
	}
	if err := f.SetCellStyle(sheet, start, end, totalStyle); err != nil {
		return nil, report.ErrExcelGenerationFailed().WithCause(err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, report.ErrExcelGenerationFailed().WithCause(err)
	}
	return buf.Bytes(), nil
}

func renderCandidatesExcel(rows []report.CandidateRow) ([]byte, error) {
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		data = append(data, []string{row.Name, row.Email, row.Phone, row.Position, row.Status, row.Source})
	}
	return renderExcel("Candidates", candidateExcelColumns, "Total Candidates", data)
}

func renderInterviewsExcel(rows []report.InterviewRow) ([]byte, error) {
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		data = append(data, []string{row.Candidate, row.Email, row.Phone, row.Date, row.Type, row.Status})
	}
	return renderExcel("Interviews", interviewExcelColumns, "Total Interviews", data)
}
