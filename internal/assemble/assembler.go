package assemble

import (
	"strings"

	"docuchat/internal/ai"
	"docuchat/internal/model"
)

// SystemPrompt is the fixed system instruction sent on every request.
const SystemPrompt = "You are a capable AI assistant. Ground your answer in any " +
	"attached file contents and reference material provided before the question."

// Markers used when a request carries no attachments or no reference
// snippets. The message shape stays uniform either way so downstream
// consumers never see a different structure for prompt-only requests.
const (
	NoAttachmentsMarker = "(no attachments)"
	NoReferencesMarker  = "(no references found)"

	attachmentsLabel = "Attached file contents:"
	referencesLabel  = "Reference material:"
	questionLabel    = "Question:"
)

// BuildPrompt produces the ordered role-tagged message list for the
// completion collaborator: the system instruction, each prior turn expanded
// into a user/assistant pair in chronological order, then one synthesized
// user message with extracted attachment text and reference snippets ahead of
// the literal prompt text. Evidence precedes the question on purpose so the
// model can ground its answer in it.
func BuildPrompt(
	prompt string,
	extracted []model.ExtractedText,
	snippets []model.ReferenceSnippet,
	history []model.ConversationTurn,
) []ai.ChatMessage {
	messages := make([]ai.ChatMessage, 0, 2*len(history)+2)
	messages = append(messages, ai.ChatMessage{Role: "system", Content: SystemPrompt})

	for _, turn := range history {
		messages = append(messages,
			ai.ChatMessage{Role: "user", Content: turn.User},
			ai.ChatMessage{Role: "assistant", Content: turn.Assistant},
		)
	}

	messages = append(messages, ai.ChatMessage{Role: "user", Content: composeUserMessage(prompt, extracted, snippets)})
	return messages
}

func composeUserMessage(prompt string, extracted []model.ExtractedText, snippets []model.ReferenceSnippet) string {
	var sb strings.Builder

	sb.WriteString(attachmentsLabel)
	sb.WriteString("\n")
	if len(extracted) == 0 {
		sb.WriteString(NoAttachmentsMarker)
	} else {
		for i, ex := range extracted {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString("[" + ex.SourceName + "]\n")
			sb.WriteString(ex.Text)
		}
	}
	sb.WriteString("\n\n")

	sb.WriteString(referencesLabel)
	sb.WriteString("\n")
	if len(snippets) == 0 {
		sb.WriteString(NoReferencesMarker)
	} else {
		for i, sn := range snippets {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString("- ")
			sb.WriteString(sn.Content)
			if sn.Source != "" {
				sb.WriteString(" (" + sn.Source + ")")
			}
		}
	}
	sb.WriteString("\n\n")

	sb.WriteString(questionLabel)
	sb.WriteString("\n")
	sb.WriteString(prompt)
	return sb.String()
}
