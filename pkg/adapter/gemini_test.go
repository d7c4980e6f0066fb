package adapter_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/aiphone/pkg/adapter"
	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/gt"
)

func TestGeminiCall(t *testing.T) {
	projectID := os.Getenv("TEST_GEMINI_PROJECT")
	if projectID == "" {
		t.Skip("TEST_GEMINI_PROJECT is not set")
	}

	ctx := context.Background()
	client, err := adapter.NewGemini(ctx, projectID, "us-central1")
	gt.NoError(t, err)

	resp, err := client.Call(ctx, []model.Message{
		{Role: model.RoleSystem, Content: "Answer with a single word."},
		{Role: model.RoleUser, Content: "What is the capital of France?"},
	}, 1, 256)
	gt.NoError(t, err)
	gt.S(t, resp).Contains("Paris")
}

func TestClaudeCall(t *testing.T) {
	apiKey := os.Getenv("TEST_ANTHROPIC_API_KEY")
	if apiKey == "" {
		t.Skip("TEST_ANTHROPIC_API_KEY is not set")
	}

	client := adapter.NewClaude(apiKey)
	resp, err := client.Call(context.Background(), []model.Message{
		{Role: model.RoleUser, Content: "What is the capital of France? Answer with a single word."},
	}, 1, 256)
	gt.NoError(t, err)
	gt.S(t, resp).Contains("Paris")
}
