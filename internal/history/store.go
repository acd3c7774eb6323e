package history

import (
	"context"

	"docuchat/internal/model"
)

// TurnStore holds each session's conversation turns. Turns are append-only
// within a session; Clear wipes the whole session on reset. A session's
// history is only ever touched by that session's own sequential requests, so
// implementations need no per-session write coordination.
type TurnStore interface {
	List(ctx context.Context, sessionID string) ([]model.ConversationTurn, error)
	Append(ctx context.Context, sessionID string, turn model.ConversationTurn) error
	Clear(ctx context.Context, sessionID string) error
}
