package inmemory_local_entries_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kvgrid/kvgrid-go/internal/model"
	"github.com/kvgrid/kvgrid-go/internal/repository/local_entries/inmemory_local_entries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Get_KeyNotFound(t *testing.T) {
	repo := inmemory_local_entries.New()

	e, err := repo.Get("nonexistent_key")

	assert.Empty(t, e)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, model.KeyNotFoundError{Key: "nonexistent_key"}))
}

func Test_SetGet_RoundTrip(t *testing.T) {
	repo := inmemory_local_entries.New()

	err := repo.AddOrUpdate(model.Entry{
		Key:      "test_key",
		Value:    "test_value",
		Modified: time.Now(),
	})
	require.NoError(t, err)

	e, err := repo.Get("test_key")
	require.NoError(t, err)
	assert.Equal(t, "test_value", e.Value)
}

func Test_Remove_KeyNotFound(t *testing.T) {
	repo := inmemory_local_entries.New()

	err := repo.Remove("nonexistent_key")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, model.KeyNotFoundError{Key: "nonexistent_key"}))
}

func Test_Keys(t *testing.T) {
	repo := inmemory_local_entries.New()

	require.NoError(t, repo.AddOrUpdate(model.Entry{Key: "a", Value: "1"}))
	require.NoError(t, repo.AddOrUpdate(model.Entry{Key: "b", Value: "2"}))
	require.NoError(t, repo.Remove("a"))

	keys, err := repo.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b"}, keys)
}

func Test_ConcurrentAccess(t *testing.T) {
	repo := inmemory_local_entries.New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = repo.AddOrUpdate(model.Entry{Key: "shared", Value: "v"})
				_, _ = repo.Get("shared")
				_, _ = repo.Keys()
			}
		}()
	}
	wg.Wait()

	e, err := repo.Get("shared")
	require.NoError(t, err)
	assert.Equal(t, "v", e.Value)
}
