package extract

import (
	"context"
	"strings"

	"docuchat/internal/ocr"
	"docuchat/internal/pkg/pdfextract"
)

// extractScannedDoc first tries the PDF's embedded text layer. When none is
// present (a scanned document) it falls back to the page-oriented OCR
// collaborator, concatenating page results in page order.
func (e *Extractor) extractScannedDoc(ctx context.Context, data []byte) (string, error) {
	text, err := pdfextract.ExtractText(data)
	if err == nil && strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text), nil
	}

	if e.ocr == nil {
		if err != nil {
			return "", err
		}
		// No text layer and no OCR collaborator: surface a placeholder rather
		// than passing silent emptiness downstream.
		return "", ocr.ErrNotConfigured
	}

	pages, ocrErr := e.ocr.RecognizeDocument(ctx, data)
	if ocrErr != nil {
		if err != nil {
			return "", err
		}
		return "", ocrErr
	}

	pageTexts := make([]string, 0, len(pages))
	for _, lines := range pages {
		pageTexts = append(pageTexts, strings.Join(lines, "\n"))
	}
	return strings.Join(pageTexts, "\n"), nil
}
