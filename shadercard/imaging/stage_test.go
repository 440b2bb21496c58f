package imaging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageCommit(t *testing.T) {
	dir := t.TempDir()
	final := filepath.Join(dir, "background.jpg")
	require.NoError(t, os.WriteFile(final, []byte("old"), 0644))

	p, err := Stage(dir, "background.jpg")
	require.NoError(t, err)
	assert.Equal(t, final, p.Path())
	assert.Equal(t, dir, filepath.Dir(p.TempPath()))

	_, err = p.Write([]byte("new"))
	require.NoError(t, err)

	data, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data), "destination untouched before commit")

	require.NoError(t, p.Commit())
	data, err = os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	info, err := os.Stat(final)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	assert.Error(t, p.Commit())
	assert.NoError(t, p.Abort(), "abort after commit is a no-op")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStageAbort(t *testing.T) {
	dir := t.TempDir()

	p, err := Stage(dir, "foreground.jpg")
	require.NoError(t, err)
	_, err = p.Write([]byte("partial"))
	require.NoError(t, err)

	require.NoError(t, p.Abort())
	require.NoError(t, p.Abort())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStageMissingDir(t *testing.T) {
	_, err := Stage(filepath.Join(t.TempDir(), "missing"), "background.jpg")
	var perr *os.PathError
	assert.ErrorAs(t, err, &perr)
}

func TestStageCommitFailure(t *testing.T) {
	dir := t.TempDir()
	// A directory at the destination makes the rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "background.jpg"), 0755))

	p, err := Stage(dir, "background.jpg")
	require.NoError(t, err)
	_, err = p.Write([]byte("data"))
	require.NoError(t, err)

	require.Error(t, p.Commit())
	assert.NoError(t, p.Abort(), "abort after a failed commit is a no-op")

	_, err = os.Stat(p.TempPath())
	assert.True(t, os.IsNotExist(err), "temporary file must be removed")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
