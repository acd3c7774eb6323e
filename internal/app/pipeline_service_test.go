package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"docuchat/internal/ai"
	"docuchat/internal/artifact"
	"docuchat/internal/assemble"
	"docuchat/internal/classify"
	"docuchat/internal/extract"
	"docuchat/internal/history"
	"docuchat/internal/model"
)

type fakeCompleter struct {
	reply    string
	err      error
	messages []ai.ChatMessage
}

func (f *fakeCompleter) Complete(_ context.Context, _ ai.ChatConfig, messages []ai.ChatMessage) (string, error) {
	f.messages = messages
	return f.reply, f.err
}

type fakeSearcher struct {
	snippets []model.ReferenceSnippet
	err      error
}

func (f *fakeSearcher) Query(_ context.Context, _ string, _ int) ([]model.ReferenceSnippet, error) {
	return f.snippets, f.err
}

type capturingPublisher struct {
	records []model.ArtifactRecord
	err     error
}

func (p *capturingPublisher) Publish(_ context.Context, record model.ArtifactRecord) error {
	p.records = append(p.records, record)
	return p.err
}

func newTestService(t *testing.T, completer ai.Completer, searcher *fakeSearcher, publisher RecordPublisher) (*PipelineService, *history.MemoryStore, *artifact.Store) {
	t.Helper()

	store, err := artifact.NewStore(t.TempDir())
	require.NoError(t, err)
	turns := history.NewMemoryStore()

	deps := PipelineDeps{
		Extractor:  extract.New(nil, nil),
		Completion: ai.NewCompletionClient(completer, 3, time.Millisecond, time.Millisecond),
		Classifier: classify.New(nil, ai.ChatConfig{}, false, nil),
		Store:      store,
		Turns:      turns,
		Publisher:  publisher,
		SearchTopK: 3,
		MaxTurns:   20,
	}
	if searcher != nil {
		deps.Searcher = searcher
	}
	return NewPipelineService(deps), turns, store
}

func TestSubmitPlainQuestionWithoutReferences(t *testing.T) {
	completer := &fakeCompleter{reply: "4"}
	svc, turns, _ := newTestService(t, completer, nil, nil)

	result, err := svc.Submit(context.Background(), SubmitInput{
		SessionID: "s1",
		Prompt:    "What is 2+2?",
	})
	require.NoError(t, err)
	require.Equal(t, "4", result.Reply)
	require.Equal(t, model.FormatText, result.Format)
	require.Nil(t, result.Artifact)

	final := completer.messages[len(completer.messages)-1].Content
	require.Contains(t, final, assemble.NoAttachmentsMarker)
	require.Contains(t, final, assemble.NoReferencesMarker)
	require.Contains(t, final, "What is 2+2?")

	stored, err := turns.List(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, "What is 2+2?", stored[0].User)
	require.Equal(t, "4", stored[0].Assistant)
}

func TestSubmitSpreadsheetReplyProducesArtifact(t *testing.T) {
	completer := &fakeCompleter{reply: "Here is the Excel output:\nname,age\nAlice,30"}
	publisher := &capturingPublisher{}
	svc, turns, store := newTestService(t, completer, nil, publisher)

	result, err := svc.Submit(context.Background(), SubmitInput{
		SessionID: "s1",
		Prompt:    "make me a table",
	})
	require.NoError(t, err)
	require.Equal(t, model.FormatSpreadsheet, result.Format)
	require.NotNil(t, result.Artifact)
	require.True(t, strings.HasSuffix(result.Artifact.Name, ".xlsx"))

	// The stored bytes are retrievable under the returned name.
	data, contentType, err := store.Open(result.Artifact.Name)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	require.Contains(t, contentType, "spreadsheetml")

	// One registry record was published for the artifact.
	require.Len(t, publisher.records, 1)
	require.Equal(t, result.Artifact.Name, publisher.records[0].Name)
	require.Equal(t, "s1", publisher.records[0].SessionID)

	stored, err := turns.List(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, result.Artifact.Name, stored[0].ArtifactName)
}

func TestSubmitCompletionFailureLeavesHistoryUntouched(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("model exploded")}
	svc, turns, _ := newTestService(t, completer, nil, nil)

	_, err := svc.Submit(context.Background(), SubmitInput{
		SessionID: "s1",
		Prompt:    "hello",
	})
	require.ErrorIs(t, err, ErrCompletion)

	stored, err := turns.List(context.Background(), "s1")
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestSubmitRateLimitSurfacesTypedError(t *testing.T) {
	completer := &fakeCompleter{err: &ai.RateLimitError{Detail: "busy"}}
	svc, turns, _ := newTestService(t, completer, nil, nil)

	_, err := svc.Submit(context.Background(), SubmitInput{
		SessionID: "s1",
		Prompt:    "hello",
	})
	require.ErrorIs(t, err, ai.ErrRateLimitExceeded)

	stored, err := turns.List(context.Background(), "s1")
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestSubmitSearchFailureDegradesToNoReferences(t *testing.T) {
	completer := &fakeCompleter{reply: "answer"}
	searcher := &fakeSearcher{err: errors.New("index offline")}
	svc, _, _ := newTestService(t, completer, searcher, nil)

	result, err := svc.Submit(context.Background(), SubmitInput{
		SessionID: "s1",
		Prompt:    "question",
	})
	require.NoError(t, err)
	require.Equal(t, "answer", result.Reply)

	final := completer.messages[len(completer.messages)-1].Content
	require.Contains(t, final, assemble.NoReferencesMarker)
}

func TestSubmitIncludesSearchSnippets(t *testing.T) {
	completer := &fakeCompleter{reply: "answer"}
	searcher := &fakeSearcher{snippets: []model.ReferenceSnippet{
		{Content: "relevant passage", Source: "kb-1"},
	}}
	svc, _, _ := newTestService(t, completer, searcher, nil)

	_, err := svc.Submit(context.Background(), SubmitInput{
		SessionID: "s1",
		Prompt:    "question",
	})
	require.NoError(t, err)

	final := completer.messages[len(completer.messages)-1].Content
	require.Contains(t, final, "relevant passage")
	require.NotContains(t, final, assemble.NoReferencesMarker)
}

func TestSubmitEmptyReplyFallback(t *testing.T) {
	completer := &fakeCompleter{reply: "   "}
	svc, _, _ := newTestService(t, completer, nil, nil)

	result, err := svc.Submit(context.Background(), SubmitInput{
		SessionID: "s1",
		Prompt:    "hello",
	})
	require.NoError(t, err)
	require.Equal(t, "The model returned an empty response.", result.Reply)
	require.Equal(t, model.FormatText, result.Format)
}

func TestSubmitValidation(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeCompleter{reply: "x"}, nil, nil)

	_, err := svc.Submit(context.Background(), SubmitInput{SessionID: "", Prompt: "hi"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Submit(context.Background(), SubmitInput{SessionID: "s1", Prompt: "   "})
	require.ErrorIs(t, err, ErrPromptEmpty)
}

func TestSubmitPublishFailureDoesNotFailRequest(t *testing.T) {
	completer := &fakeCompleter{reply: "your PDF is ready"}
	publisher := &capturingPublisher{err: errors.New("broker down")}
	svc, turns, _ := newTestService(t, completer, nil, publisher)

	result, err := svc.Submit(context.Background(), SubmitInput{
		SessionID: "s1",
		Prompt:    "write it up",
	})
	require.NoError(t, err)
	require.Equal(t, model.FormatPDF, result.Format)
	require.NotNil(t, result.Artifact)

	stored, err := turns.List(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestSubmitHistoryGrowsAcrossTurns(t *testing.T) {
	completer := &fakeCompleter{reply: "first answer"}
	svc, turns, _ := newTestService(t, completer, nil, nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitInput{SessionID: "s1", Prompt: "first question"})
	require.NoError(t, err)

	completer.reply = "second answer"
	result, err := svc.Submit(ctx, SubmitInput{SessionID: "s1", Prompt: "second question"})
	require.NoError(t, err)
	require.Len(t, result.History, 2)

	// The prior turn was replayed into the second completion.
	joined := ""
	for _, m := range completer.messages {
		joined += m.Content + "\n"
	}
	require.Contains(t, joined, "first question")
	require.Contains(t, joined, "first answer")

	stored, err := turns.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, stored, 2)
}

func TestHistoryAndReset(t *testing.T) {
	svc, turns, _ := newTestService(t, &fakeCompleter{reply: "a"}, nil, nil)
	ctx := context.Background()

	require.NoError(t, turns.Append(ctx, "s1", model.ConversationTurn{User: "q", Assistant: "a"}))

	got, err := svc.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	require.NoError(t, svc.Reset(ctx, "s1"))
	got, err = svc.History(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, got)

	_, err = svc.History(ctx, "")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, svc.Reset(ctx, ""), ErrInvalidInput)
}
