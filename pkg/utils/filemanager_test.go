package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempPath(t *testing.T) {
	path := filepath.Join("out", "split.csv")

	a := TempPath(path)
	b := TempPath(path)

	assert.NotEqual(t, a, b)
	assert.Equal(t, "out", filepath.Dir(a))
	assert.True(t, strings.HasPrefix(filepath.Base(a), ".split.csv."))
	assert.True(t, strings.HasSuffix(a, ".tmp"))
}

func TestEnsureParentDirAndReplace(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "a", "b", "out.csv")

	require.NoError(t, EnsureParentDir(dst))

	src := TempPath(dst)
	require.NoError(t, os.WriteFile(src, []byte("new"), 0644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0644))

	require.NoError(t, ReplaceFile(src, dst))
	assert.False(t, FileExists(src))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestCheckDistinct(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(in, []byte("x"), 0644))

	err := CheckDistinct(in, filepath.Join(dir, ".", "in.csv"))
	assert.True(t, errors.Is(err, ErrSameFile))

	assert.NoError(t, CheckDistinct(in, filepath.Join(dir, "out.csv")))
}
