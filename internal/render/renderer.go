package render

import (
	"fmt"
	"strings"

	"docuchat/internal/model"
)

// Render serializes reply text into the requested format and returns the file
// bytes plus the file extension for the artifact name. FormatText (and any
// unknown tag) falls through to raw UTF-8 bytes.
func Render(format model.ArtifactFormat, reply string) ([]byte, string, error) {
	switch format {
	case model.FormatSpreadsheet:
		data, err := renderSpreadsheet(reply)
		return data, ".xlsx", err
	case model.FormatPDF:
		data, err := renderPDF(reply)
		return data, ".pdf", err
	case model.FormatDocument:
		data, err := renderDocument(reply)
		return data, ".docx", err
	case model.FormatText:
		return []byte(reply), ".txt", nil
	default:
		return nil, "", fmt.Errorf("unknown artifact format %q", format)
	}
}

// splitRows interprets reply text as delimited rows: one row per non-empty
// line, cells split on tabs when present, otherwise commas.
func splitRows(reply string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		var cells []string
		if strings.Contains(line, "\t") {
			cells = strings.Split(line, "\t")
		} else {
			cells = strings.Split(line, ",")
		}
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}
	return rows
}

// normalizeRow pads short rows and truncates long ones to the header width so
// malformed rows never abort rendering and columns never mis-align.
func normalizeRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	normalized := make([]string, width)
	copy(normalized, row)
	return normalized
}

func lines(reply string) []string {
	split := strings.Split(reply, "\n")
	for i := range split {
		split[i] = strings.TrimRight(split[i], "\r")
	}
	return split
}
