// Package prompt builds the request asking a model to write a character's phone in the mini-format.
package prompt

import (
	"bytes"
	"context"
	_ "embed"
	"text/template"

	"github.com/m-mizutani/aiphone/pkg/interfaces"
	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/aiphone/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const (
	DefaultUserName       = "用户"
	DefaultTranscriptSize = 20
	notSet                = "未设置"
)

//go:embed phone.tmpl
var phoneTemplate string

var tmpl = template.Must(template.New("phone").Parse(phoneTemplate))

type Builder struct {
	characters     interfaces.CharacterSource
	userName       string
	transcriptSize int
}

type Option func(*Builder)

// WithUserName sets the real user's display name written into the prompt.
func WithUserName(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.userName = name
		}
	}
}

// WithTranscriptSize limits how many of the latest transcript lines are included.
func WithTranscriptSize(n int) Option {
	return func(b *Builder) {
		b.transcriptSize = n
	}
}

func New(characters interfaces.CharacterSource, opts ...Option) *Builder {
	b := &Builder{
		characters:     characters,
		userName:       DefaultUserName,
		transcriptSize: DefaultTranscriptSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type templateInput struct {
	Name        string
	Personality string
	Signature   string
	Transcript  []string
	UserName    string
}

// Build renders the prompt. An unknown character still gets a prompt with placeholder profile text.
func (b *Builder) Build(ctx context.Context, characterID model.CharacterID, characterName string) (string, error) {
	input := templateInput{
		Name:        characterName,
		Personality: notSet,
		Signature:   notSet,
		UserName:    b.userName,
	}

	character, err := b.characters.GetCharacter(ctx, characterID)
	if err != nil {
		logging.From(ctx).Warn("character profile unavailable", "character_id", characterID, "error", err)
	} else {
		if name := character.DisplayName(); name != "" {
			input.Name = name
		}
		if character.Personality != "" {
			input.Personality = character.Personality
		}
		if character.Signature != "" {
			input.Signature = character.Signature
		}
		input.Transcript = tail(character.Transcript, b.transcriptSize)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, input); err != nil {
		return "", goerr.Wrap(err, "failed to render prompt", goerr.V("character_id", characterID))
	}
	return buf.String(), nil
}

func tail(lines []string, n int) []string {
	if n <= 0 || len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
