package repo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uttaparsa/notes-api/internal/config"
	"github.com/uttaparsa/notes-api/internal/logging"
)

func TestInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(false, "", false, dir))

	root := filepath.Join(dir, Dir)
	assert.FileExists(t, filepath.Join(root, SQLiteFile))
	assert.FileExists(t, filepath.Join(root, CatalogFile))
	assert.FileExists(t, filepath.Join(root, ".gitignore"))

	assert.ErrorIs(t, Init(false, "", false, dir), ErrExists)
	assert.NoError(t, Init(true, "", false, dir))
}

func TestInit_BadgerLocal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(false, config.BackendBadger, true, dir))

	root := filepath.Join(dir, Dir)
	assert.DirExists(t, filepath.Join(root, BadgerDir))

	ignored, err := IsIgnored(root, BadgerDir)
	require.NoError(t, err)
	assert.True(t, ignored)
	ignored, err = IsIgnored(root, CatalogFile)
	require.NoError(t, err)
	assert.True(t, ignored)

	// a second call does not duplicate entries
	require.NoError(t, Ignore(root, BadgerDir))
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, 1, countLines(string(data), BadgerDir))
}

func countLines(s, line string) int {
	n := 0
	for _, l := range strings.Split(s, "\n") {
		if l == line {
			n++
		}
	}
	return n
}

func TestDiscoverDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(false, "", false, dir))
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))
	t.Chdir(sub)

	got, err := DiscoverDir()
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(filepath.Join(dir, Dir))
	require.NoError(t, err)
	got, err = filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDiscoverDir_NotInitialised(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := DiscoverDir()
	assert.ErrorIs(t, err, ErrNotInitialised)
}

func TestOpen_FallsBackToExistingBackend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(false, config.BackendBadger, false, dir))

	cfg := &config.Config{}
	r, err := Open(filepath.Join(dir, Dir), cfg, logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, config.BackendBadger, r.Backend)
	require.NoError(t, r.Store.Close())
	require.NoError(t, r.Close())
}

func TestOpen_NoStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, Dir), 0755))
	_, err := Open(filepath.Join(dir, Dir), &config.Config{}, logging.Nop())
	assert.ErrorIs(t, err, ErrNotInitialised)
}
