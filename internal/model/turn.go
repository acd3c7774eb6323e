package model

import "time"

// ConversationTurn is one user/assistant exchange in a session's history.
// ArtifactName is set when the assistant reply was rendered to a file.
type ConversationTurn struct {
	User         string    `json:"user"`
	Assistant    string    `json:"assistant"`
	ArtifactName string    `json:"artifact_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReferenceSnippet is one passage returned by the document-search collaborator.
// Ordering follows the collaborator's relevance ranking and is never re-sorted.
type ReferenceSnippet struct {
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
}
