package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"docuchat/internal/model"
)

func TestRenderTextPassthrough(t *testing.T) {
	data, ext, err := Render(model.FormatText, "just a plain answer")
	require.NoError(t, err)
	require.Equal(t, ".txt", ext)
	require.Equal(t, []byte("just a plain answer"), data)
}

func TestRenderSpreadsheetRoundTrip(t *testing.T) {
	reply := "name,age\nAlice,30\nBob,25"

	data, ext, err := Render(model.FormatSpreadsheet, reply)
	require.NoError(t, err)
	require.Equal(t, ".xlsx", ext)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"name", "age"},
		{"Alice", "30"},
		{"Bob", "25"},
	}, rows)
}

func TestRenderSpreadsheetTabDelimited(t *testing.T) {
	data, _, err := Render(model.FormatSpreadsheet, "a\tb\n1\t2")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, rows)
}

func TestRenderSpreadsheetNormalizesRaggedRows(t *testing.T) {
	// Rows wider or narrower than the header are cut or padded, never fatal.
	data, _, err := Render(model.FormatSpreadsheet, "a,b\n1\n2,3,4")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"a", "b"}, rows[0])
	require.Equal(t, "1", rows[1][0])
	require.Equal(t, []string{"2", "3"}, rows[2])
}

func TestRenderSpreadsheetSkipsBlankLines(t *testing.T) {
	data, _, err := Render(model.FormatSpreadsheet, "a,b\n\n1,2\n")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestRenderPDFProducesPDFBytes(t *testing.T) {
	data, ext, err := Render(model.FormatPDF, "First paragraph.\nSecond paragraph.")
	require.NoError(t, err)
	require.Equal(t, ".pdf", ext)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRenderDocumentProducesZipContainer(t *testing.T) {
	data, ext, err := Render(model.FormatDocument, "Line one\nLine two")
	require.NoError(t, err)
	require.Equal(t, ".docx", ext)
	// OOXML files are zip archives.
	require.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestRenderUnknownFormat(t *testing.T) {
	_, _, err := Render(model.ArtifactFormat("hologram"), "x")
	require.Error(t, err)
}
