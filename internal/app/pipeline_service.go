package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"docuchat/internal/ai"
	"docuchat/internal/artifact"
	"docuchat/internal/assemble"
	"docuchat/internal/classify"
	"docuchat/internal/extract"
	"docuchat/internal/history"
	"docuchat/internal/model"
	"docuchat/internal/render"
	"docuchat/internal/search"
)

// RecordPublisher forwards artifact registry rows for async persistence.
type RecordPublisher interface {
	Publish(ctx context.Context, record model.ArtifactRecord) error
}

// PipelineService runs the five request stages in strict order: extraction,
// assembly, completion, classification, rendering. Collaborators are injected
// per instance; nothing here is process-global.
type PipelineService struct {
	extractor  *extract.Extractor
	searcher   search.Client
	completion *ai.CompletionClient
	classifier *classify.Classifier
	store      *artifact.Store
	turns      history.TurnStore
	publisher  RecordPublisher

	chatCfg    ai.ChatConfig
	searchTopK int
	maxTurns   int
	logger     *zap.Logger
}

type PipelineDeps struct {
	Extractor  *extract.Extractor
	Searcher   search.Client
	Completion *ai.CompletionClient
	Classifier *classify.Classifier
	Store      *artifact.Store
	Turns      history.TurnStore
	Publisher  RecordPublisher
	ChatCfg    ai.ChatConfig
	SearchTopK int
	MaxTurns   int
	Logger     *zap.Logger
}

func NewPipelineService(deps PipelineDeps) *PipelineService {
	if deps.MaxTurns <= 0 {
		deps.MaxTurns = 20
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &PipelineService{
		extractor:  deps.Extractor,
		searcher:   deps.Searcher,
		completion: deps.Completion,
		classifier: deps.Classifier,
		store:      deps.Store,
		turns:      deps.Turns,
		publisher:  deps.Publisher,
		chatCfg:    deps.ChatCfg,
		searchTopK: deps.SearchTopK,
		maxTurns:   deps.MaxTurns,
		logger:     deps.Logger,
	}
}

type SubmitInput struct {
	SessionID   string
	Prompt      string
	Attachments []model.Attachment
}

type SubmitResult struct {
	Reply    string                   `json:"reply"`
	Format   model.ArtifactFormat     `json:"format"`
	Artifact *model.GeneratedArtifact `json:"artifact,omitempty"`
	History  []model.ConversationTurn `json:"history"`
}

// Submit runs one request through the whole pipeline. The conversation
// history gains exactly one turn on success and nothing on failure.
func (s *PipelineService) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	if input.SessionID == "" {
		return nil, ErrInvalidInput
	}
	prompt := strings.TrimSpace(input.Prompt)
	if prompt == "" {
		return nil, ErrPromptEmpty
	}

	extracted, err := s.extractor.ExtractAll(ctx, input.Attachments)
	if err != nil {
		return nil, err
	}

	snippets := s.lookupReferences(ctx, prompt)

	prior, err := s.turns.List(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	recent := trimTurns(prior, s.maxTurns)

	messages := assemble.BuildPrompt(prompt, extracted, snippets, recent)

	reply, err := s.completion.Complete(ctx, s.chatCfg, messages)
	if err != nil {
		if errors.Is(err, ai.ErrRateLimitExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrCompletion, err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = "The model returned an empty response."
	}

	format := s.classifier.Classify(ctx, reply)

	var generated *model.GeneratedArtifact
	if format != model.FormatText {
		generated = s.renderArtifact(ctx, input.SessionID, format, reply)
		if generated == nil {
			format = model.FormatText
		}
	}

	turn := model.ConversationTurn{
		User:      prompt,
		Assistant: reply,
		CreatedAt: time.Now(),
	}
	if generated != nil {
		turn.ArtifactName = generated.Name
	}
	if err := s.turns.Append(ctx, input.SessionID, turn); err != nil {
		return nil, err
	}

	return &SubmitResult{
		Reply:    reply,
		Format:   format,
		Artifact: generated,
		History:  append(prior, turn),
	}, nil
}

// History returns the session's turns in chronological order.
func (s *PipelineService) History(ctx context.Context, sessionID string) ([]model.ConversationTurn, error) {
	if sessionID == "" {
		return nil, ErrInvalidInput
	}
	return s.turns.List(ctx, sessionID)
}

// Reset clears the session's conversation history.
func (s *PipelineService) Reset(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrInvalidInput
	}
	return s.turns.Clear(ctx, sessionID)
}

// lookupReferences queries the search collaborator. Reference lookup is
// auxiliary: any failure degrades to zero snippets instead of aborting.
func (s *PipelineService) lookupReferences(ctx context.Context, prompt string) []model.ReferenceSnippet {
	if s.searcher == nil {
		return nil
	}
	snippets, err := s.searcher.Query(ctx, prompt, s.searchTopK)
	if err != nil {
		s.logger.Warn("reference lookup degraded", zap.Error(err))
		return nil
	}
	return snippets
}

// renderArtifact renders and stores the reply. Rendering problems degrade the
// response to chat text; the user still gets the reply either way.
func (s *PipelineService) renderArtifact(ctx context.Context, sessionID string, format model.ArtifactFormat, reply string) *model.GeneratedArtifact {
	data, ext, err := render.Render(format, reply)
	if err != nil {
		s.logger.Warn("artifact rendering failed, falling back to text",
			zap.String("format", string(format)),
			zap.Error(err),
		)
		return nil
	}

	generated, err := s.store.Save(format, ext, data)
	if err != nil {
		s.logger.Warn("artifact save failed, falling back to text", zap.Error(err))
		return nil
	}

	if s.publisher != nil {
		record := model.ArtifactRecord{
			SessionID:   sessionID,
			Name:        generated.Name,
			Format:      string(generated.Format),
			ContentType: generated.ContentType,
			SizeBytes:   generated.SizeBytes,
			Digest:      generated.Digest,
			CreatedAt:   time.Now(),
		}
		if err := s.publisher.Publish(ctx, record); err != nil {
			s.logger.Warn("artifact record publish failed", zap.String("name", generated.Name), zap.Error(err))
		}
	}
	return &generated
}

func trimTurns(turns []model.ConversationTurn, limit int) []model.ConversationTurn {
	if limit <= 0 || limit >= len(turns) {
		return turns
	}
	return turns[len(turns)-limit:]
}
