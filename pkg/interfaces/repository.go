package interfaces

import (
	"context"

	"github.com/m-mizutani/aiphone/pkg/model"
)

// KVStore is a namespaced durable map keyed by string. Get returns model.ErrKeyNotFound for a missing key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lists every key beginning with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// CharacterSource resolves character profiles for prompt building
type CharacterSource interface {
	GetCharacter(ctx context.Context, id model.CharacterID) (*model.Character, error)
}
