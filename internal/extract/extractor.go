package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"docuchat/internal/model"
	"docuchat/internal/ocr"
)

// ErrExtraction is returned when extraction crashes unrecoverably. Ordinary
// per-file parse failures do not raise it; they become placeholder text so the
// request can continue.
var ErrExtraction = errors.New("attachment extraction failed")

// Extractor turns uploaded attachments into plain text, one result per
// attachment in input order.
type Extractor struct {
	ocr    ocr.Client
	logger *zap.Logger
}

func New(ocrClient ocr.Client, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{ocr: ocrClient, logger: logger}
}

// ExtractAll extracts every attachment sequentially. The returned slice always
// has one entry per attachment: real text, an unsupported-kind placeholder, or
// a failure placeholder. A panic inside an extraction call aborts the whole
// request with ErrExtraction.
func (e *Extractor) ExtractAll(ctx context.Context, attachments []model.Attachment) (result []model.ExtractedText, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrExtraction, r)
		}
	}()

	result = make([]model.ExtractedText, 0, len(attachments))
	for _, att := range attachments {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrExtraction, ctx.Err())
		}

		text, extractErr := e.extractOne(ctx, att)
		if extractErr != nil {
			e.logger.Warn("attachment extraction failed",
				zap.String("name", att.Name),
				zap.String("kind", string(att.Kind)),
				zap.Error(extractErr),
			)
			text = failurePlaceholder(att.Name, extractErr)
		}
		result = append(result, model.ExtractedText{
			SourceName: att.Name,
			Text:       text,
		})
	}
	return result, nil
}

func (e *Extractor) extractOne(ctx context.Context, att model.Attachment) (string, error) {
	switch att.Kind {
	case model.KindTabular:
		return extractTabular(att.Name, att.Data)
	case model.KindDocument:
		return extractDocument(att.Data)
	case model.KindSlideDeck:
		return extractSlides(att.Data)
	case model.KindImage:
		return e.extractImage(ctx, att.Data)
	case model.KindScannedDoc:
		return e.extractScannedDoc(ctx, att.Data)
	default:
		return unsupportedPlaceholder(att.Name), nil
	}
}

func (e *Extractor) extractImage(ctx context.Context, data []byte) (string, error) {
	if e.ocr == nil {
		return "", ocr.ErrNotConfigured
	}
	lines, err := e.ocr.RecognizeImage(ctx, data)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func unsupportedPlaceholder(name string) string {
	return fmt.Sprintf("(file %q has an unsupported format and was not read)", name)
}

func failurePlaceholder(name string, err error) string {
	return fmt.Sprintf("(failed to extract text from %q: %v)", name, err)
}
