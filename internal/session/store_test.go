package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewFileStore(path)

	assert.Empty(t, store.Access())
	assert.Empty(t, store.Refresh())

	require.NoError(t, store.SetPair("access-1", "refresh-1"))
	assert.Equal(t, "access-1", store.Access())
	assert.Equal(t, "refresh-1", store.Refresh())

	// Replacing the access token must leave the refresh token untouched
	require.NoError(t, store.SetAccess("access-2"))
	assert.Equal(t, "access-2", store.Access())
	assert.Equal(t, "refresh-1", store.Refresh())
}

func TestFileStoreUsesFixedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewFileStore(path)

	require.NoError(t, store.SetPair("a", "r"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]string
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "a", raw["access"])
	assert.Equal(t, "r", raw["refresh"])
}

func TestFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewFileStore(path)

	require.NoError(t, store.SetPair("a", "r"))
	require.NoError(t, store.Clear())

	assert.Empty(t, store.Access())
	assert.Empty(t, store.Refresh())

	// Clearing an already-empty store is not an error
	require.NoError(t, store.Clear())
}

func TestFileStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tokens.json")
	store := NewFileStore(path)

	require.NoError(t, store.SetPair("a", "r"))
	assert.Equal(t, "a", store.Access())
}

func TestFileStoreIgnoresCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	store := NewFileStore(path)
	assert.Empty(t, store.Access())
	assert.Empty(t, store.Refresh())
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.SetPair("a", "r"))
	assert.Equal(t, "a", store.Access())
	assert.Equal(t, "r", store.Refresh())

	require.NoError(t, store.SetAccess("a2"))
	assert.Equal(t, "a2", store.Access())
	assert.Equal(t, "r", store.Refresh())

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Access())
	assert.Empty(t, store.Refresh())
}
