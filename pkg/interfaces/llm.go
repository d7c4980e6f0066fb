package interfaces

import (
	"context"

	"github.com/m-mizutani/aiphone/pkg/model"
)

// Transport sends messages to a language model and returns the raw text reply.
// retries is the number of extra attempts after the first failure.
type Transport interface {
	Call(ctx context.Context, messages []model.Message, retries, maxTokens int) (string, error)
}

// PromptBuilder produces the single prompt asking for a phone in the mini-format.
type PromptBuilder interface {
	Build(ctx context.Context, characterID model.CharacterID, characterName string) (string, error)
}

// Notifier is the user-facing notification sink.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}
