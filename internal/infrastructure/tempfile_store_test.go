package infrastructure

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/ytdlp-web-go/internal/testsupport"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *TempFileStore {
	t.Helper()
	return NewTempFileStore(t.TempDir(), "ytdlp-web-", "mp4", zap.NewNop())
}

func TestTempFileStore_DefaultsToOSTempDir(t *testing.T) {
	store := NewTempFileStore("", "ytdlp-web-", "mp4", zap.NewNop())
	assert.Equal(t, os.TempDir(), store.Dir())
}

func TestTempFileStore_AllocateUniquePaths(t *testing.T) {
	store := newTestStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		f := store.Allocate()
		name := filepath.Base(f.Path())

		assert.Equal(t, store.Dir(), filepath.Dir(f.Path()))
		assert.True(t, strings.HasPrefix(name, "ytdlp-web-"), name)
		assert.True(t, strings.HasSuffix(name, ".mp4"), name)
		assert.False(t, seen[f.Path()], "duplicate path %s", f.Path())
		seen[f.Path()] = true
	}

	assert.Empty(t, testsupport.DirEntries(t, store.Dir()), "allocation must not create files")
}

func TestTempMediaFile_OpenMissing(t *testing.T) {
	f := newTestStore(t).Allocate()

	_, err := f.Open()
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoError(t, f.Release())
}

func TestMediaStream_ReadToEndThenClose(t *testing.T) {
	store := newTestStore(t)
	f := store.Allocate()
	require.NoError(t, os.WriteFile(f.Path(), []byte("0123456789"), 0644))

	stream, err := f.Open()
	require.NoError(t, err)
	assert.Equal(t, int64(10), stream.Size())
	assert.Equal(t, f.Path(), stream.Path())

	data, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))
	assert.Equal(t, int64(10), stream.BytesRead())
	assert.True(t, stream.Completed())

	require.NoError(t, stream.Close())
	assert.NoFileExists(t, f.Path())
	assert.NoError(t, stream.Close(), "close is idempotent")
}

func TestMediaStream_AbandonedMidStreamStillRemoved(t *testing.T) {
	store := newTestStore(t)
	f := store.Allocate()
	require.NoError(t, os.WriteFile(f.Path(), []byte(strings.Repeat("x", 4096)), 0644))

	stream, err := f.Open()
	require.NoError(t, err)

	buf := make([]byte, 100)
	n, err := stream.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.False(t, stream.Completed())

	require.NoError(t, stream.Close())
	assert.Empty(t, testsupport.DirEntries(t, store.Dir()))
}

func TestTempMediaFile_ReleaseRemovesSiblingArtifacts(t *testing.T) {
	store := newTestStore(t)
	f := store.Allocate()
	other := store.Allocate()

	stem := strings.TrimSuffix(f.Path(), ".mp4")
	artifacts := []string{
		f.Path(),
		f.Path() + ".part",
		f.Path() + ".ytdl",
		stem + ".f137.mp4",
		stem + ".f140.m4a",
		stem + ".f140.m4a.part",
		stem + ".temp.mp4",
		other.Path(),
	}
	for _, p := range artifacts {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}

	require.NoError(t, f.Release())
	require.NoError(t, f.Release())

	assert.Equal(t, []string{filepath.Base(other.Path())}, testsupport.DirEntries(t, store.Dir()))
}
