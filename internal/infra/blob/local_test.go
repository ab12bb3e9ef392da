package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) *LocalBackend {
	t.Helper()
	b, err := NewLocalBackend(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return b
}

func TestLocalBackend_PutExistsRemove(t *testing.T) {
	ctx := context.Background()
	b := newTestLocal(t)

	require.NoError(t, b.Put(ctx, "a.jpg", strings.NewReader("jpeg bytes"), 10, "image/jpeg"))

	ok, err := b.Exists(ctx, "a.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := os.ReadFile(filepath.Join(b.Dir(), "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	require.NoError(t, b.Remove(ctx, "a.jpg"))
	ok, err = b.Exists(ctx, "a.jpg")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalBackend_RemoveMissingIsNoop(t *testing.T) {
	b := newTestLocal(t)
	assert.NoError(t, b.Remove(context.Background(), "never-existed.png"))
}

func TestLocalBackend_PutLeavesNoTempFiles(t *testing.T) {
	b := newTestLocal(t)
	require.NoError(t, b.Put(context.Background(), "b.png", strings.NewReader("png"), 3, "image/png"))

	entries, err := os.ReadDir(b.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b.png", entries[0].Name())
}

func TestLocalBackend_RejectsUnsafeNames(t *testing.T) {
	ctx := context.Background()
	b := newTestLocal(t)

	outside := filepath.Join(filepath.Dir(b.Dir()), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o600))

	tests := []struct {
		name string
		file string
	}{
		{name: "empty", file: ""},
		{name: "dot dot", file: ".."},
		{name: "parent traversal", file: "../secret.txt"},
		{name: "nested", file: "sub/a.jpg"},
		{name: "backslash", file: `..\secret.txt`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, b.Remove(ctx, tt.file), ErrInvalidName)
			assert.ErrorIs(t, b.Put(ctx, tt.file, strings.NewReader("x"), 1, ""), ErrInvalidName)
			_, err := b.Exists(ctx, tt.file)
			assert.ErrorIs(t, err, ErrInvalidName)
			_, err = b.Locate(ctx, tt.file)
			assert.ErrorIs(t, err, ErrInvalidName)
		})
	}

	_, err := os.Stat(outside)
	assert.NoError(t, err)
}

func TestLocalBackend_Locate(t *testing.T) {
	b := newTestLocal(t)
	loc, err := b.Locate(context.Background(), "c.gif")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(b.Dir(), "c.gif"), loc.Path)
	assert.Empty(t, loc.URL)
}
