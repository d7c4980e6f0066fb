// Package phone generates a character's phone: prompt, model call, parse, cache and history.
package phone

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/m-mizutani/aiphone/pkg/interfaces"
	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/aiphone/pkg/parser"
	"github.com/m-mizutani/aiphone/pkg/usecase/history"
	"github.com/m-mizutani/aiphone/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const (
	CacheKeyPrefix = "ai_phone_"

	DefaultRetries   = 1
	DefaultMaxTokens = 10000
	DefaultTimeout   = 5 * time.Minute
)

// CacheKey returns the store key of the character's cached phone.
func CacheKey(characterID model.CharacterID) string {
	return CacheKeyPrefix + string(characterID)
}

// UseCase generates phone contents. It does not serialize calls for the same character; the task
// manager does that.
type UseCase struct {
	transport interfaces.Transport
	prompt    interfaces.PromptBuilder
	kv        interfaces.KVStore
	history   *history.Store

	retries   int
	maxTokens int
	timeout   time.Duration
}

// Option is a functional option for UseCase
type Option func(*UseCase)

func WithRetries(n int) Option {
	return func(uc *UseCase) {
		uc.retries = n
	}
}

func WithMaxTokens(n int) Option {
	return func(uc *UseCase) {
		uc.maxTokens = n
	}
}

// WithTimeout bounds one whole generation. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(uc *UseCase) {
		uc.timeout = d
	}
}

func New(
	transport interfaces.Transport,
	prompt interfaces.PromptBuilder,
	kv interfaces.KVStore,
	hist *history.Store,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		transport: transport,
		prompt:    prompt,
		kv:        kv,
		history:   hist,
		retries:   DefaultRetries,
		maxTokens: DefaultMaxTokens,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Generate returns the character's phone. With forceNew false a cached phone is returned as is.
//
// The returned content is never nil. When generation fails the fallback phone is returned together
// with the error, so callers that only want something to show can ignore the error.
func (uc *UseCase) Generate(ctx context.Context, characterID model.CharacterID, characterName string, forceNew bool) (*model.PhoneContent, error) {
	logger := logging.From(ctx).With("character_id", characterID)

	if !forceNew {
		if cached := uc.loadCache(ctx, characterID); cached != nil {
			logger.Debug("use cached phone content")
			return cached, nil
		}
	}

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	content, err := uc.generate(ctx, characterID, characterName)
	if err != nil {
		logger.Error("failed to generate phone content", "error", err)
		return Fallback(characterID, characterName), err
	}
	return content, nil
}

func (uc *UseCase) generate(ctx context.Context, characterID model.CharacterID, characterName string) (*model.PhoneContent, error) {
	logger := logging.From(ctx).With("character_id", characterID)

	prompt, err := uc.prompt.Build(ctx, characterID, characterName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build prompt", goerr.V("character_id", characterID))
	}

	messages := []model.Message{
		{Role: model.RoleUser, Content: prompt},
	}

	started := time.Now()
	resp, err := uc.transport.Call(ctx, messages, uc.retries, uc.maxTokens)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call model", goerr.V("character_id", characterID))
	}
	if strings.TrimSpace(resp) == "" {
		return nil, goerr.Wrap(model.ErrEmptyResponse, "no phone content", goerr.V("character_id", characterID))
	}
	logger.Info("model responded", "length", len(resp), "elapsed", time.Since(started).String())

	content := parser.Parse(resp, characterID, characterName)
	logger.Debug("parsed phone content",
		"contacts", len(content.Contacts),
		"chats", len(content.ChatSessions),
		"photos", len(content.Photos),
	)

	uc.saveCache(ctx, content)

	if _, err := uc.history.Append(ctx, characterID, content); err != nil {
		logger.Warn("failed to save phone history", "error", err)
	}

	return content, nil
}

// loadCache returns nil on a miss, including any read or decode failure.
func (uc *UseCase) loadCache(ctx context.Context, characterID model.CharacterID) *model.PhoneContent {
	data, err := uc.kv.Get(ctx, CacheKey(characterID))
	if err != nil {
		return nil
	}
	var content model.PhoneContent
	if err := json.Unmarshal(data, &content); err != nil {
		logging.From(ctx).Warn("drop broken phone cache", "character_id", characterID, "error", err)
		return nil
	}
	return &content
}

func (uc *UseCase) saveCache(ctx context.Context, content *model.PhoneContent) {
	data, err := json.Marshal(content)
	if err == nil {
		err = uc.kv.Set(ctx, CacheKey(content.CharacterID), data)
	}
	if err != nil {
		logging.From(ctx).Warn("failed to cache phone content", "character_id", content.CharacterID, "error", err)
	}
}
