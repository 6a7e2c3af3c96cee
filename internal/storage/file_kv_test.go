package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rpd/internal/testutil"
)

func newTestFileKV(t *testing.T) (*FileKV, *testutil.MockLogger) {
	t.Helper()
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	t.Cleanup(comp.Close)

	logger := &testutil.MockLogger{}
	kv, err := NewFileKV(t.TempDir(), comp, logger)
	require.NoError(t, err)
	return kv, logger
}

func TestFileKV_GetMissing(t *testing.T) {
	kv, logger := newTestFileKV(t)

	val, ok := kv.Get("readingStats_nobody@example.com")
	assert.False(t, ok)
	assert.Nil(t, val)
	// A plain miss is not worth a warning.
	assert.Zero(t, logger.LevelCount("warn"))
}

func TestFileKV_SetGetRoundtrip(t *testing.T) {
	kv, _ := newTestFileKV(t)

	payload := []byte(`{"userEmail":"reader@example.com"}`)
	require.NoError(t, kv.Set("readingStats_reader@example.com", payload))

	val, ok := kv.Get("readingStats_reader@example.com")
	require.True(t, ok)
	assert.Equal(t, payload, val)
}

func TestFileKV_Overwrite(t *testing.T) {
	kv, _ := newTestFileKV(t)

	require.NoError(t, kv.Set("k", []byte("one")))
	require.NoError(t, kv.Set("k", []byte("two")))

	val, ok := kv.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("two"), val)
}

func TestFileKV_KeySafeFileNames(t *testing.T) {
	kv, _ := newTestFileKV(t)

	// Email-based keys contain characters that are not filename-safe.
	key := "readingStats_user+tag@ex/ample.com"
	require.NoError(t, kv.Set(key, []byte("v")))

	val, ok := kv.Get(key)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), val)
}

func TestFileKV_CorruptFileIsAbsent(t *testing.T) {
	kv, logger := newTestFileKV(t)

	key := "readingStats_corrupt@example.com"
	require.NoError(t, kv.Set(key, []byte("good")))
	require.NoError(t, os.WriteFile(kv.path(key), []byte("garbage, not zstd"), 0o644))

	val, ok := kv.Get(key)
	assert.False(t, ok)
	assert.Nil(t, val)
	assert.Equal(t, 1, logger.LevelCount("warn"))
}

func TestFileKV_Keys(t *testing.T) {
	kv, _ := newTestFileKV(t)

	require.NoError(t, kv.Set("readingStats_a@b.c", []byte("1")))
	require.NoError(t, kv.Set("readingStats_d@e.f", []byte("2")))
	require.NoError(t, kv.Set("session_123", []byte("3")))

	keys := kv.Keys("readingStats_")
	assert.ElementsMatch(t, []string{"readingStats_a@b.c", "readingStats_d@e.f"}, keys)
}

func TestFileKV_KeysIgnoresForeignFiles(t *testing.T) {
	kv, _ := newTestFileKV(t)

	require.NoError(t, kv.Set("readingStats_a@b.c", []byte("1")))
	// Stray files in the storage dir must not surface as keys.
	require.NoError(t, os.WriteFile(filepath.Join(kv.dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(kv.dir, "!!bad-base64!!.dat"), []byte("x"), 0o644))

	keys := kv.Keys("readingStats_")
	assert.Equal(t, []string{"readingStats_a@b.c"}, keys)
}

func TestFileKV_NoTmpLeftovers(t *testing.T) {
	kv, _ := newTestFileKV(t)

	require.NoError(t, kv.Set("k", []byte("v")))

	entries, err := os.ReadDir(kv.dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestNewFileKV_CreatesDir(t *testing.T) {
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	defer comp.Close()

	dir := filepath.Join(t.TempDir(), "nested", "records")
	_, err = NewFileKV(dir, comp, &testutil.MockLogger{})
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
