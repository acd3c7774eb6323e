package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestExtractTabularWorkbook(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"name", "age"},
		{"Alice", "30"},
	})

	text, err := extractTabular("people.xlsx", data)
	require.NoError(t, err)
	require.Equal(t, "name | age\nAlice | 30", text)
}

func TestExtractTabularPreservesRowOrder(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"id"},
		{"3"},
		{"1"},
		{"2"},
	})

	text, err := extractTabular("ids.xlsx", data)
	require.NoError(t, err)
	require.Equal(t, "id\n3\n1\n2", text)
}

func TestExtractTabularCSV(t *testing.T) {
	text, err := extractTabular("people.csv", []byte("name,age\nAlice,30\nBob,25\n"))
	require.NoError(t, err)
	require.Equal(t, "name | age\nAlice | 30\nBob | 25", text)
}

func TestExtractTabularCorruptWorkbook(t *testing.T) {
	_, err := extractTabular("broken.xlsx", []byte("this is not a workbook"))
	require.Error(t, err)
}
