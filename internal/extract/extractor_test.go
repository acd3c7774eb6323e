package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"docuchat/internal/model"
)

type fakeOCR struct {
	imageLines []string
	pages      [][]string
	err        error
}

func (f *fakeOCR) RecognizeImage(_ context.Context, _ []byte) ([]string, error) {
	return f.imageLines, f.err
}

func (f *fakeOCR) RecognizeDocument(_ context.Context, _ []byte) ([][]string, error) {
	return f.pages, f.err
}

func TestExtractAllOneResultPerAttachmentInOrder(t *testing.T) {
	extractor := New(&fakeOCR{imageLines: []string{"line one", "line two"}}, nil)

	tabular := buildWorkbook(t, [][]interface{}{{"name", "age"}, {"Alice", "30"}})
	attachments := []model.Attachment{
		{Name: "people.xlsx", Kind: model.KindTabular, Data: tabular},
		{Name: "notes.zip", Kind: model.KindUnsupported},
		{Name: "photo.png", Kind: model.KindImage, Data: []byte{0x89}},
	}

	results, err := extractor.ExtractAll(context.Background(), attachments)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.Equal(t, "people.xlsx", results[0].SourceName)
	require.Equal(t, "name | age\nAlice | 30", results[0].Text)

	require.Equal(t, "notes.zip", results[1].SourceName)
	require.Contains(t, results[1].Text, "unsupported format")

	require.Equal(t, "photo.png", results[2].SourceName)
	require.Equal(t, "line one\nline two", results[2].Text)
}

func TestExtractAllParseFailureBecomesPlaceholder(t *testing.T) {
	extractor := New(nil, nil)

	results, err := extractor.ExtractAll(context.Background(), []model.Attachment{
		{Name: "broken.xlsx", Kind: model.KindTabular, Data: []byte("garbage")},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Contains(t, results[0].Text, "failed to extract text")
	require.Contains(t, results[0].Text, "broken.xlsx")
}

func TestExtractAllOCRFailureBecomesPlaceholder(t *testing.T) {
	extractor := New(&fakeOCR{err: errors.New("ocr exploded")}, nil)

	results, err := extractor.ExtractAll(context.Background(), []model.Attachment{
		{Name: "scan.png", Kind: model.KindImage, Data: []byte{0x01}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Contains(t, results[0].Text, "failed to extract text")
}

func TestExtractAllEmptyInput(t *testing.T) {
	extractor := New(nil, nil)

	results, err := extractor.ExtractAll(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestExtractAllCancelledContext(t *testing.T) {
	extractor := New(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := extractor.ExtractAll(ctx, []model.Attachment{
		{Name: "a.csv", Kind: model.KindTabular, Data: []byte("x\n")},
	})
	require.ErrorIs(t, err, ErrExtraction)
}
