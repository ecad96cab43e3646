// Package xlsx reads and writes spreadsheet versions of the workflow views.
package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"indentflow/internal/csvexport"
	"indentflow/internal/domain"
)

// ContentType is the MIME type of generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportIndents renders indents as a single sheet workbook.
func ExportIndents(sheet string, indents []domain.Indent) ([]byte, error) {
	rows := make([][]string, len(indents))
	for i := range indents {
		rows[i] = csvexport.IndentRow(&indents[i])
	}
	return export(sheet, csvexport.IndentColumns, rows)
}

// ExportLifts renders lifts as a single sheet workbook.
func ExportLifts(sheet string, lifts []domain.Lift) ([]byte, error) {
	rows := make([][]string, len(lifts))
	for i := range lifts {
		rows[i] = csvexport.LiftRow(&lifts[i])
	}
	return export(sheet, csvexport.LiftColumns, rows)
}

func export(sheet string, headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("xlsx: naming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: header style: %w", err)
	}

	if err := writeRow(f, sheet, 1, headers); err != nil {
		return nil, err
	}
	last, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("xlsx: applying header style: %w", err)
	}
	for i, row := range rows {
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
		return nil, fmt.Errorf("xlsx: column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("xlsx: cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("xlsx: writing row %d: %w", row, err)
	}
	return nil
}
