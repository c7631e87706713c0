package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage()

	_, ok := s.Get("missing")
	assert.False(t, ok)

	require.NoError(t, s.Set("k", "v"))
	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, s.Delete("k"))
	_, ok = s.Get("k")
	assert.False(t, ok)
}

func TestFileStorage_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	first := NewFileStorage(path)
	require.NoError(t, first.Set("userAvatar", "/a.png"))

	second := NewFileStorage(path)
	v, ok := second.Get("userAvatar")
	require.True(t, ok)
	assert.Equal(t, "/a.png", v)

	require.NoError(t, second.Delete("userAvatar"))
	_, ok = NewFileStorage(path).Get("userAvatar")
	assert.False(t, ok)
}

func TestFileStorage_MissingFile(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), "nope", "prefs.json"))
	_, ok := s.Get("anything")
	assert.False(t, ok)
	assert.NoError(t, s.Delete("anything"))
}

func TestFileStorage_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "prefs.json")
	s := NewFileStorage(path)
	require.NoError(t, s.Set("k", "v"))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	s := NewFileStorage(path)
	_, ok := s.Get("k")
	assert.False(t, ok)
	assert.Error(t, s.Set("k", "v"))
}
