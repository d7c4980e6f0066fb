package adapter

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

const defaultClaudeModel = "claude-sonnet-4-5"

// Claude is a Transport backed by the Anthropic Messages API.
type Claude struct {
	client *anthropic.Client
	model  string
}

type ClaudeOption func(*Claude)

func WithClaudeModel(model string) ClaudeOption {
	return func(c *Claude) {
		c.model = model
	}
}

// NewClaude creates a new Claude API client
func NewClaude(apiKey string, opts ...ClaudeOption) *Claude {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	c := &Claude{
		client: &client,
		model:  defaultClaudeModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Claude) Call(ctx context.Context, messages []model.Message, retries, maxTokens int) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
	}
	for _, m := range messages {
		switch m.Role {
		case model.RoleSystem:
			params.System = append(params.System, anthropic.TextBlockParam{Text: m.Content})
		case model.RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	return callWithRetry(ctx, retries, func(ctx context.Context) (string, error) {
		msg, err := c.client.Messages.New(ctx, params)
		if err != nil {
			return "", goerr.Wrap(err, "failed to create message", goerr.V("model", c.model))
		}

		var sb strings.Builder
		for _, block := range msg.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		return sb.String(), nil
	})
}
