package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/aiphone/pkg/interfaces"
	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/aiphone/pkg/repository"
	"github.com/m-mizutani/gt"
)

func testKVStore(t *testing.T, store interfaces.KVStore, ns string) {
	ctx := context.Background()

	t.Run("get missing key", func(t *testing.T) {
		_, err := store.Get(ctx, ns+"missing")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrKeyNotFound))
	})

	t.Run("set and get", func(t *testing.T) {
		gt.NoError(t, store.Set(ctx, ns+"phone_history_c1", []byte(`[{"id":"c1_1"}]`)))
		v, err := store.Get(ctx, ns+"phone_history_c1")
		gt.NoError(t, err)
		gt.Equal(t, string(v), `[{"id":"c1_1"}]`)

		gt.NoError(t, store.Set(ctx, ns+"phone_history_c1", []byte(`[]`)))
		v, err = store.Get(ctx, ns+"phone_history_c1")
		gt.NoError(t, err)
		gt.Equal(t, string(v), `[]`)
	})

	t.Run("keys by prefix", func(t *testing.T) {
		gt.NoError(t, store.Set(ctx, ns+"phone_history_c2", []byte(`[]`)))
		gt.NoError(t, store.Set(ctx, ns+"phone_history_list", []byte(`[]`)))
		gt.NoError(t, store.Set(ctx, ns+"ai_phone_c1", []byte(`{}`)))

		keys, err := store.Keys(ctx, ns+"phone_history_")
		gt.NoError(t, err)
		gt.A(t, keys).Length(3)
		for _, k := range keys {
			gt.S(t, k).Contains("phone_history_")
		}

		keys, err = store.Keys(ctx, ns+"ai_phone_")
		gt.NoError(t, err)
		gt.A(t, keys).Length(1)
	})

	t.Run("delete", func(t *testing.T) {
		gt.NoError(t, store.Delete(ctx, ns+"phone_history_c2"))
		_, err := store.Get(ctx, ns+"phone_history_c2")
		gt.True(t, errors.Is(err, model.ErrKeyNotFound))

		// deleting a missing key is not an error
		gt.NoError(t, store.Delete(ctx, ns+"phone_history_c2"))
	})
}

func TestMemory(t *testing.T) {
	testKVStore(t, repository.NewMemory(), "")
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()

	buf := []byte("abc")
	gt.NoError(t, store.Set(ctx, "k", buf))
	buf[0] = 'x'

	v, err := store.Get(ctx, "k")
	gt.NoError(t, err)
	gt.Equal(t, string(v), "abc")
}

func TestSQLite(t *testing.T) {
	store, err := repository.NewSQLite(filepath.Join(t.TempDir(), "db", "aiphone.db"))
	gt.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	testKVStore(t, store, "")
}

func TestFirestore(t *testing.T) {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	ctx := context.Background()
	store, err := repository.NewFirestore(ctx, projectID, databaseID,
		repository.WithCollection("aiphone_kv_test"))
	gt.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	testKVStore(t, store, string(model.NewRunID())+"_")
}

func TestCloudStorage(t *testing.T) {
	bucket := os.Getenv("TEST_STORAGE_BUCKET")
	if bucket == "" {
		t.Skip("TEST_STORAGE_BUCKET is not set")
	}

	ctx := context.Background()
	store, err := repository.NewCloudStorage(ctx, bucket, "aiphone-test/"+string(model.NewRunID())+"/")
	gt.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	testKVStore(t, store, "")
}
