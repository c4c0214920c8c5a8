package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	store := NewStore(path, zap.NewNop())

	store.Save("user-1", map[string]string{"name": "Perry"})
	store.Save("user-1", map[string]string{"city": "Danville"})
	store.Save("user-2", map[string]string{"name": "Vanessa"})

	attrs := store.Load("user-1")
	assert.Equal(t, "Perry", attrs["name"])
	assert.Equal(t, "Danville", attrs["city"])
	assert.Equal(t, "Vanessa", store.Load("user-2")["name"])
}

func TestLoadMissingFileDegradesToEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope.json"), zap.NewNop())
	assert.Empty(t, store.Load("anyone"))
}

func TestLoadCorruptFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewStore(path, zap.NewNop())
	assert.Empty(t, store.Load("anyone"))
}

func TestDisabledStore(t *testing.T) {
	store := NewStore("", zap.NewNop())
	assert.False(t, store.Enabled())
	store.Save("user-1", map[string]string{"name": "Perry"})
	assert.Empty(t, store.Load("user-1"))
}

func TestExtractName(t *testing.T) {
	name, ok := ExtractName("hey, my name is Phineas and I build things")
	require.True(t, ok)
	assert.Equal(t, "Phineas", name)

	name, ok = ExtractName("My Name Is O'Brien")
	require.True(t, ok)
	assert.Equal(t, "O'Brien", name)

	_, ok = ExtractName("no introductions here")
	assert.False(t, ok)
}
