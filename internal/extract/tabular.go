package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// cellSeparator joins cell values when a sheet is flattened to text.
const cellSeparator = " | "

// extractTabular flattens a spreadsheet into one line per row, cells joined by
// cellSeparator. Column order and row order are preserved exactly as read.
func extractTabular(name string, data []byte) (string, error) {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return flattenCSV(data)
	}
	return flattenWorkbook(data)
}

func flattenWorkbook(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open workbook failed: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}

	var sb strings.Builder
	for i, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %q failed: %w", sheet, err)
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		if len(sheets) > 1 {
			sb.WriteString("[" + sheet + "]\n")
		}
		for _, row := range rows {
			sb.WriteString(strings.Join(row, cellSeparator))
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func flattenCSV(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv failed: %w", err)
	}

	lines := make([]string, 0, len(records))
	for _, record := range records {
		lines = append(lines, strings.Join(record, cellSeparator))
	}
	return strings.Join(lines, "\n"), nil
}
