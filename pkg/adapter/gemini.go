package adapter

import (
	"context"
	"math"
	"strings"

	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

type Gemini struct {
	client          *genai.Client
	generativeModel string
}

type GeminiOption func(*Gemini)

func WithGenerativeModel(model string) GeminiOption {
	return func(g *Gemini) {
		g.generativeModel = model
	}
}

func NewGemini(ctx context.Context, projectID, location string, opts ...GeminiOption) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	g := &Gemini{
		client:          client,
		generativeModel: "gemini-2.5-flash",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Call sends messages to Gemini. System messages become the system instruction.
func (g *Gemini) Call(ctx context.Context, messages []model.Message, retries, maxTokens int) (string, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: outputTokenLimit(maxTokens),
	}

	var contents []*genai.Content
	for _, m := range messages {
		part := &genai.Part{Text: m.Content}
		switch m.Role {
		case model.RoleSystem:
			if config.SystemInstruction == nil {
				config.SystemInstruction = &genai.Content{Role: "user"}
			}
			config.SystemInstruction.Parts = append(config.SystemInstruction.Parts, part)
		case model.RoleAssistant:
			contents = append(contents, &genai.Content{Role: "model", Parts: []*genai.Part{part}})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{part}})
		}
	}

	return callWithRetry(ctx, retries, func(ctx context.Context) (string, error) {
		resp, err := g.client.Models.GenerateContent(ctx, g.generativeModel, contents, config)
		if err != nil {
			return "", goerr.Wrap(err, "failed to generate content", goerr.V("model", g.generativeModel))
		}
		return responseText(resp), nil
	})
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// outputTokenLimit fits maxTokens into genai's int32 field.
func outputTokenLimit(maxTokens int) int32 {
	return int32(min(max(maxTokens, 0), math.MaxInt32))
}
