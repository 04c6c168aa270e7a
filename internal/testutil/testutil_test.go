package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestEnv_Path(t *testing.T) {
	env := NewTestEnv(t)

	path := env.Path("subdir", "file.txt")
	assert.True(t, filepath.IsAbs(path))
	assert.Contains(t, path, "subdir")
}

func TestTestEnv_WriteAndReadFile(t *testing.T) {
	env := NewTestEnv(t)

	env.WriteFileString("nested/dir/file.txt", "hello")
	assert.True(t, env.FileExists("nested/dir/file.txt"))
	assert.Equal(t, "hello", env.ReadFileString("nested/dir/file.txt"))
}

func TestTestEnv_FileExistsMissing(t *testing.T) {
	env := NewTestEnv(t)
	assert.False(t, env.FileExists("missing.txt"))
}

func TestTestEnv_RootDirIsTemp(t *testing.T) {
	env := NewTestEnv(t)
	require.DirExists(t, env.RootDir())
}
