package render

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"
)

// renderDocument writes the reply as a word-processor document, one paragraph
// per source line, in order.
func renderDocument(reply string) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()
	for _, line := range lines(reply) {
		para := doc.AddParagraph()
		para.AddText(line)
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize docx failed: %w", err)
	}
	return buf.Bytes(), nil
}
