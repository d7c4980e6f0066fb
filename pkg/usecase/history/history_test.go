package history_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/aiphone/pkg/repository"
	"github.com/m-mizutani/aiphone/pkg/usecase/history"
	"github.com/m-mizutani/gt"
)

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func newContent(id model.CharacterID, note string) *model.PhoneContent {
	c := model.NewPhoneContent(id, "小雨")
	c.Notes = append(c.Notes, &model.Note{Title: note})
	return c
}

func TestAppendKeepsNewestTen(t *testing.T) {
	ctx := context.Background()
	store := history.New(repository.NewMemory(), history.WithClock(tickingClock()))

	var last *model.PhoneHistory
	for i := 0; i < 12; i++ {
		h, err := store.Append(ctx, "c1", newContent("c1", fmt.Sprintf("n%d", i)))
		gt.NoError(t, err)
		last = h
	}

	list, err := store.List(ctx, "c1")
	gt.NoError(t, err)
	gt.A(t, list).Length(10)
	gt.Equal(t, list[0].ID, last.ID)
	gt.Equal(t, list[0].Content.Notes[0].Title, "n11")
	gt.Equal(t, list[9].Content.Notes[0].Title, "n2")
	for i := 1; i < len(list); i++ {
		gt.True(t, list[i-1].Timestamp.After(list[i].Timestamp))
	}
}

func TestGetRecoversCharacterFromID(t *testing.T) {
	ctx := context.Background()
	store := history.New(repository.NewMemory(), history.WithClock(tickingClock()))

	for _, id := range []model.CharacterID{"c1", "c2"} {
		h, err := store.Append(ctx, id, newContent(id, "note"))
		gt.NoError(t, err)

		got, err := store.Get(ctx, h.ID)
		gt.NoError(t, err)
		prefix, _, _ := strings.Cut(string(h.ID), "_")
		gt.Equal(t, string(got.CharacterID), prefix)
		gt.Equal(t, got.CharacterName, "小雨")
	}

	_, err := store.Get(ctx, "c1_0")
	gt.True(t, errors.Is(err, model.ErrHistoryNotFound))
}

func TestListEmpty(t *testing.T) {
	store := history.New(repository.NewMemory())
	list, err := store.List(context.Background(), "nobody")
	gt.NoError(t, err)
	gt.A(t, list).Length(0)
}

func TestAppendSameMillisecondKeepsIDsUnique(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 500_000, time.UTC)
	store := history.New(repository.NewMemory(), history.WithClock(func() time.Time { return now }))

	h1, err := store.Append(ctx, "c1", newContent("c1", "first"))
	gt.NoError(t, err)
	h2, err := store.Append(ctx, "c1", newContent("c1", "second"))
	gt.NoError(t, err)
	h3, err := store.Append(ctx, "c1", newContent("c1", "third"))
	gt.NoError(t, err)

	gt.NotEqual(t, h1.ID, h2.ID)
	gt.NotEqual(t, h2.ID, h3.ID)
	gt.Equal(t, h2.Timestamp.UnixMilli(), h1.Timestamp.UnixMilli()+1)
	gt.Equal(t, h3.Timestamp.UnixMilli(), h1.Timestamp.UnixMilli()+2)

	got, err := store.Get(ctx, h2.ID)
	gt.NoError(t, err)
	gt.Equal(t, got.Content.Notes[0].Title, "second")

	gt.NoError(t, store.Delete(ctx, "c1", h1.ID))
	list, err := store.List(ctx, "c1")
	gt.NoError(t, err)
	gt.A(t, list).Length(2)
	gt.Equal(t, list[0].ID, h3.ID)
	gt.Equal(t, list[1].ID, h2.ID)

	// another character is not affected by c1's entries
	other, err := store.Append(ctx, "c2", newContent("c2", "x"))
	gt.NoError(t, err)
	gt.Equal(t, other.Timestamp, now)
}

func TestDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemory()
	store := history.New(kv, history.WithClock(tickingClock()), history.WithLimit(5))

	h1, err := store.Append(ctx, "c1", newContent("c1", "a"))
	gt.NoError(t, err)
	h2, err := store.Append(ctx, "c1", newContent("c1", "b"))
	gt.NoError(t, err)
	_, err = store.Append(ctx, "c2", newContent("c2", "c"))
	gt.NoError(t, err)

	gt.NoError(t, store.Delete(ctx, "c1", h1.ID))
	list, err := store.List(ctx, "c1")
	gt.NoError(t, err)
	gt.A(t, list).Length(1)
	gt.Equal(t, list[0].ID, h2.ID)

	gt.NoError(t, store.Clear(ctx, "c1"))
	list, err = store.List(ctx, "c1")
	gt.NoError(t, err)
	gt.A(t, list).Length(0)

	// index goes stale on deletion
	chars, err := store.Characters(ctx)
	gt.NoError(t, err)
	gt.A(t, chars).Length(2)

	gt.NoError(t, kv.Set(ctx, "ai_phone_c2", []byte(`{}`)))
	gt.NoError(t, store.ClearAll(ctx))
	list, err = store.List(ctx, "c2")
	gt.NoError(t, err)
	gt.A(t, list).Length(0)
	chars, err = store.Characters(ctx)
	gt.NoError(t, err)
	gt.A(t, chars).Length(0)

	// unrelated keys survive
	_, err = kv.Get(ctx, "ai_phone_c2")
	gt.NoError(t, err)
}

func TestAppendIndexAddsOnce(t *testing.T) {
	ctx := context.Background()
	store := history.New(repository.NewMemory(), history.WithClock(tickingClock()))

	for i := 0; i < 3; i++ {
		_, err := store.Append(ctx, "c1", newContent("c1", "x"))
		gt.NoError(t, err)
	}
	chars, err := store.Characters(ctx)
	gt.NoError(t, err)
	gt.A(t, chars).Length(1)
	gt.Equal(t, chars[0], model.CharacterID("c1"))
}

func TestCorruptedListIsAnError(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemory()
	gt.NoError(t, kv.Set(ctx, history.Key("c1"), []byte("not json")))

	store := history.New(kv)
	_, err := store.List(ctx, "c1")
	gt.Error(t, err)
}
