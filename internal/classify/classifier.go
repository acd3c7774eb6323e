package classify

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"docuchat/internal/ai"
	"docuchat/internal/model"
)

// formatKeywords maps output formats to the substrings that select them.
// Matching is case-insensitive and checked in the order below. This is a
// best-effort heuristic: nothing guarantees the reply literally names a
// format, so false positives and negatives are expected, and the fallback is
// always plain text.
var formatKeywords = []struct {
	format   model.ArtifactFormat
	keywords []string
}{
	{model.FormatSpreadsheet, []string{"excel", "表形式"}},
	{model.FormatPDF, []string{"pdf", "自然言語"}},
	{model.FormatDocument, []string{"word", "ドキュメント"}},
}

const askModelPrompt = "Which file format should the previous answer be delivered in? " +
	"Reply with one of: Excel, PDF, Word, or text."

// Classifier decides whether a model reply should be shown as chat text or
// rendered into a downloadable file.
type Classifier struct {
	completer ai.Completer
	chatCfg   ai.ChatConfig
	askModel  bool
	logger    *zap.Logger
}

func New(completer ai.Completer, chatCfg ai.ChatConfig, askModel bool, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		completer: completer,
		chatCfg:   chatCfg,
		askModel:  askModel,
		logger:    logger,
	}
}

// Classify returns the output format for the reply. In ask-model mode one
// extra completion call names the format and its free-text answer is keyword
// matched the same way; any error there falls back to matching the reply
// itself. Classify never fails; the worst case is FormatText.
func (c *Classifier) Classify(ctx context.Context, reply string) model.ArtifactFormat {
	if c.askModel && c.completer != nil {
		answer, err := c.completer.Complete(ctx, c.chatCfg, []ai.ChatMessage{
			{Role: "assistant", Content: reply},
			{Role: "user", Content: askModelPrompt},
		})
		if err != nil {
			c.logger.Warn("format classification call failed, falling back to keyword match", zap.Error(err))
		} else {
			return MatchKeywords(answer)
		}
	}
	return MatchKeywords(reply)
}

// MatchKeywords performs the case-insensitive substring search over the text.
func MatchKeywords(text string) model.ArtifactFormat {
	lowered := strings.ToLower(text)
	for _, entry := range formatKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lowered, kw) {
				return entry.format
			}
		}
	}
	return model.FormatText
}
