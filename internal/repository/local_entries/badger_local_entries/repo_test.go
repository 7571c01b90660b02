package badger_local_entries_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger"
	"github.com/kvgrid/kvgrid-go/internal/model"
	"github.com/kvgrid/kvgrid-go/internal/repository/local_entries/badger_local_entries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) (*badger.DB, func()) {
	dir := t.TempDir()

	db, err := badger.Open(badger.DefaultOptions(dir))
	if err != nil {
		t.Fatalf("failed to open badger db: %v", err)
	}

	return db, func() {
		_ = db.Close()
	}
}

func Test_Get_KeyNotFound(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	repo := badger_local_entries.New(db)

	e, err := repo.Get("nonexistent_key")

	assert.Empty(t, e)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, model.KeyNotFoundError{Key: "nonexistent_key"}))
}

func Test_Get_Success(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	repo := badger_local_entries.New(db)

	err := repo.AddOrUpdate(model.Entry{
		Key:      "test_key",
		Value:    "test_value",
		Modified: time.Now(),
	})
	require.NoError(t, err)

	e, err := repo.Get("test_key")
	require.NoError(t, err)

	assert.Equal(t, "test_key", e.Key)
	assert.Equal(t, "test_value", e.Value)
	assert.WithinDuration(t, time.Now(), e.Modified, 2*time.Second)
}

func Test_AddOrUpdate_Overwrites(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	repo := badger_local_entries.New(db)

	require.NoError(t, repo.AddOrUpdate(model.Entry{Key: "test_key", Value: "old"}))
	require.NoError(t, repo.AddOrUpdate(model.Entry{Key: "test_key", Value: "new"}))

	e, err := repo.Get("test_key")
	require.NoError(t, err)
	assert.Equal(t, "new", e.Value)
}

func Test_Remove_Success(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	repo := badger_local_entries.New(db)

	require.NoError(t, repo.AddOrUpdate(model.Entry{Key: "test_key", Value: "test_value"}))
	require.NoError(t, repo.Remove("test_key"))

	_, err := repo.Get("test_key")
	assert.True(t, errors.Is(err, model.KeyNotFoundError{Key: "test_key"}))
}

func Test_Remove_KeyNotFound(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	repo := badger_local_entries.New(db)

	err := repo.Remove("nonexistent_key")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, model.KeyNotFoundError{Key: "nonexistent_key"}))
}

func Test_Keys(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	repo := badger_local_entries.New(db)

	require.NoError(t, repo.AddOrUpdate(model.Entry{Key: "a", Value: "1"}))
	require.NoError(t, repo.AddOrUpdate(model.Entry{Key: "b", Value: "2"}))

	keys, err := repo.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
}

func Test_Get_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	db, err := badger.Open(badger.DefaultOptions(dir))
	require.NoError(t, err)

	repo := badger_local_entries.New(db)
	require.NoError(t, repo.AddOrUpdate(model.Entry{Key: "test_key", Value: "test_value"}))
	require.NoError(t, db.Close())

	db, err = badger.Open(badger.DefaultOptions(dir))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	e, err := badger_local_entries.New(db).Get("test_key")
	require.NoError(t, err)
	assert.Equal(t, "test_value", e.Value)
}
