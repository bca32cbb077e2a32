package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("config")
	env.contains(out, "revisions.max_revisions: 20")
	env.contains(out, "store.backend: sqlite")

	out = env.run("config", "revisions.min_interval")
	env.contains(out, "15m0s")
}

func TestConfig_SetGlobal(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("config", "revisions.max_revisions", "5")
	env.contains(out, "(global)")
	assert.FileExists(t, filepath.Join(env.home, ".noterev", "config.yaml"))

	out = env.run("config", "revisions.max_revisions")
	env.contains(out, "5")
}

func TestConfig_SetLocal(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("config", "--local", "revisions.max_revisions", "7")
	env.contains(out, "(local)")

	b, err := os.ReadFile(filepath.Join(env.dir, ".noterev", "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "max_revisions: 7")

	// Local wins over global.
	env.run("config", "--local", "author.name", "bob")
	out = env.run("config", "author.name")
	env.contains(out, "bob")
}

func TestConfig_Invalid(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.runErr("config", "revisions.max_revisions", "1")
	assert.Error(t, err)

	_, err = env.runErr("config", "nope.key", "1")
	assert.Error(t, err)

	_, err = env.runErr("config", "store.backend", "mongo")
	assert.Error(t, err)
}

func TestConfig_DotEnv(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, ".env"), []byte("NOTEREV_MAX_REVISIONS=2\n"), 0644))

	env.run("track", "a.md")
	env.record("a.md", "1\n")
	env.record("a.md", "1\n2\n")
	out := env.record("a.md", "1\n2\n3\n")
	env.contains(out, "pruned 1 revision(s)")
}
