// Package history keeps the last few generated phones for each character in a KVStore.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/m-mizutani/aiphone/pkg/interfaces"
	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

const (
	KeyPrefix = "phone_history_"
	IndexKey  = "phone_history_list"

	DefaultLimit = 10
)

// Key returns the store key holding the character's history list.
func Key(characterID model.CharacterID) string {
	return KeyPrefix + string(characterID)
}

// Store is the bounded, newest-first history of each character. The index of characters with history
// is only ever added to; it may still name characters whose history was deleted.
type Store struct {
	kv    interfaces.KVStore
	limit int
	now   func() time.Time

	// serializes read-modify-write on the stored lists
	mu sync.Mutex
}

type Option func(*Store)

func WithLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(kv interfaces.KVStore, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		limit: DefaultLimit,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append stores content as the newest entry and drops the oldest beyond the limit.
func (s *Store) Append(ctx context.Context, characterID model.CharacterID, content *model.PhoneContent) (*model.PhoneHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx, characterID)
	if err != nil {
		return nil, err
	}

	ts := s.now()
	// ids are millisecond based; keep them unique and increasing within one character
	if len(list) > 0 && ts.UnixMilli() <= list[0].Timestamp.UnixMilli() {
		ts = list[0].Timestamp.Truncate(time.Millisecond).Add(time.Millisecond)
	}
	entry := &model.PhoneHistory{
		ID:            model.NewHistoryID(characterID, ts),
		CharacterID:   characterID,
		CharacterName: content.CharacterName,
		Timestamp:     ts,
		Content:       content,
	}

	list = append([]*model.PhoneHistory{entry}, list...)
	if len(list) > s.limit {
		list = list[:s.limit]
	}

	if err := s.save(ctx, Key(characterID), list); err != nil {
		return nil, err
	}

	index, err := s.index(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(index, characterID) {
		index = append(index, characterID)
		if err := s.save(ctx, IndexKey, index); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

// List returns the character's entries, newest first. No history is an empty list.
func (s *Store) List(ctx context.Context, characterID model.CharacterID) ([]*model.PhoneHistory, error) {
	return s.load(ctx, characterID)
}

// Get finds an entry by ID. The owning character is the part of the ID before the first separator.
func (s *Store) Get(ctx context.Context, historyID model.HistoryID) (*model.PhoneHistory, error) {
	list, err := s.load(ctx, historyID.CharacterID())
	if err != nil {
		return nil, err
	}
	for _, h := range list {
		if h.ID == historyID {
			return h, nil
		}
	}
	return nil, goerr.Wrap(model.ErrHistoryNotFound, "no such history", goerr.V("history_id", historyID))
}

// Delete removes one entry. Removing an entry that does not exist is not an error.
func (s *Store) Delete(ctx context.Context, characterID model.CharacterID, historyID model.HistoryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx, characterID)
	if err != nil {
		return err
	}
	filtered := slices.DeleteFunc(list, func(h *model.PhoneHistory) bool {
		return h.ID == historyID
	})
	return s.save(ctx, Key(characterID), filtered)
}

// Clear drops the character's whole history.
func (s *Store) Clear(ctx context.Context, characterID model.CharacterID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, Key(characterID)); err != nil {
		return goerr.Wrap(err, "failed to clear history", goerr.V("character_id", characterID))
	}
	return nil
}

// ClearAll removes every history key, the index included.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.kv.Keys(ctx, KeyPrefix)
	if err != nil {
		return goerr.Wrap(err, "failed to list history keys")
	}
	for _, key := range keys {
		if err := s.kv.Delete(ctx, key); err != nil {
			return goerr.Wrap(err, "failed to delete history key", goerr.V("key", key))
		}
	}
	return nil
}

// Characters returns the index of characters that have had history.
func (s *Store) Characters(ctx context.Context) ([]model.CharacterID, error) {
	return s.index(ctx)
}

func (s *Store) load(ctx context.Context, characterID model.CharacterID) ([]*model.PhoneHistory, error) {
	list := []*model.PhoneHistory{}
	if err := s.read(ctx, Key(characterID), &list); err != nil {
		return nil, goerr.Wrap(err, "failed to load history", goerr.V("character_id", characterID))
	}
	return list, nil
}

func (s *Store) index(ctx context.Context) ([]model.CharacterID, error) {
	index := []model.CharacterID{}
	if err := s.read(ctx, IndexKey, &index); err != nil {
		return nil, goerr.Wrap(err, "failed to load history index")
	}
	return index, nil
}

// read decodes key into v, leaving v untouched when the key does not exist.
func (s *Store) read(ctx context.Context, key string, v any) error {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, model.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return goerr.Wrap(err, "failed to decode stored value", goerr.V("key", key))
	}
	return nil
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return goerr.Wrap(err, "failed to encode value", goerr.V("key", key))
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return goerr.Wrap(err, "failed to store value", goerr.V("key", key))
	}
	return nil
}
