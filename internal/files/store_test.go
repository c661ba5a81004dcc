package files

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "files"))
	require.NoError(t, err)
	return s
}

func TestStore_AddAndOpen(t *testing.T) {
	s := newTestStore(t)

	hash, n, err := s.Add(strings.NewReader("hitclap"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Len(t, hash, 64)
	assert.True(t, s.Exists(hash))

	rc, err := s.Open(hash)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hitclap", string(data))

	size, err := s.Size(hash)
	require.NoError(t, err)
	assert.Equal(t, int64(7), size)
}

func TestStore_Layout(t *testing.T) {
	s := newTestStore(t)
	hash, _, err := s.Add(strings.NewReader("x"))
	require.NoError(t, err)

	want := filepath.Join(s.Root(), hash[:1], hash[:2], hash)
	assert.Equal(t, want, s.Path(hash))
	_, err = os.Stat(want)
	assert.NoError(t, err)
}

func TestStore_AddDuplicateContent(t *testing.T) {
	s := newTestStore(t)

	a, _, err := s.Add(strings.NewReader("same"))
	require.NoError(t, err)
	b, _, err := s.Add(strings.NewReader("same"))
	require.NoError(t, err)

	assert.Equal(t, a, b)

	// No temp files left behind.
	entries, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), "import-"), e.Name())
	}
}

func TestStore_OpenMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Open("deadbeef")
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)
	hash, _, err := s.Add(strings.NewReader("gone"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(hash))
	assert.False(t, s.Exists(hash))
	require.NoError(t, s.Delete(hash), "deleting twice is fine")
}

func TestStore_ImportDir(t *testing.T) {
	s := newTestStore(t)
	dir := t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("normal-hitclap.wav", "clap")
	write("Gameplay/pause-loop.ogg", "loop")
	write(".hidden", "nope")
	write(".git/config", "nope")

	entries, err := s.ImportDir(dir)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "Gameplay/pause-loop.ogg", entries[0].Filename)
	assert.Equal(t, "normal-hitclap.wav", entries[1].Filename)
	assert.Equal(t, int64(4), entries[1].Size)
	assert.True(t, s.Exists(entries[0].Hash))
}

func TestStore_ImportDirMarksAddedAndDiscard(t *testing.T) {
	s := newTestStore(t)
	known, _, err := s.Add(strings.NewReader("clap"))
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "normal-hitclap.wav"), []byte("clap"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "soft-hitclap.wav"), []byte("soft"), 0o644))

	entries, err := s.ImportDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, known, entries[0].Hash)
	assert.False(t, entries[0].Added)
	assert.True(t, entries[1].Added)

	s.Discard(entries)
	assert.True(t, s.Exists(known))
	assert.False(t, s.Exists(entries[1].Hash))
}
