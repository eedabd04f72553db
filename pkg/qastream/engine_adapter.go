package qastream

import (
	"context"

	"catalog-console-be/pkg/answer"
)

// EngineAdapter satisfies Engine on top of the answer client.
type EngineAdapter struct {
	Client *answer.Client
}

var _ Engine = (*EngineAdapter)(nil)

func (a *EngineAdapter) CreateSession(ctx context.Context) (string, error) {
	return a.Client.CreateSession(ctx)
}

func (a *EngineAdapter) OpenQuickAnswer(ctx context.Context, query, assetType string) (EventStream, error) {
	return a.Client.OpenQuickAnswer(ctx, answer.QuickAnswerParams{
		Query:     query,
		AssetType: assetType,
	})
}

func (a *EngineAdapter) OpenChat(ctx context.Context, sessionID, query, assetType string) (EventStream, error) {
	return a.Client.OpenChat(ctx, answer.ChatParams{
		SessionID: sessionID,
		Query:     query,
		AssetType: assetType,
		ChatType:  "multi_turn",
	})
}

func (a *EngineAdapter) SubmitFeedback(ctx context.Context, qaID, action, sessionID string) error {
	return a.Client.SubmitFeedback(ctx, qaID, action, sessionID)
}
