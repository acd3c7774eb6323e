package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// renderPDF lays out the reply one text line per source line in a fixed font.
// Page breaks are handled by fpdf's auto page-break on overflow.
func renderPDF(reply string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 11)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, line := range lines(reply) {
		pdf.MultiCell(0, 6, tr(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("serialize pdf failed: %w", err)
	}
	return buf.Bytes(), nil
}
