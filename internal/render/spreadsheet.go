package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// renderSpreadsheet writes the reply as a workbook: first delimited row as
// column headers, remaining rows as data.
func renderSpreadsheet(reply string) ([]byte, error) {
	rows := splitRows(reply)
	if len(rows) == 0 {
		rows = [][]string{{""}}
	}
	width := len(rows[0])

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("build cell name failed: %w", err)
		}
		normalized := normalizeRow(row, width)
		values := make([]interface{}, len(normalized))
		for j, v := range normalized {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write sheet row failed: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook failed: %w", err)
	}
	return buf.Bytes(), nil
}
