// The cmd/ package holds CLI integration tests that exercise the full
// stack: command parsing -> extensions -> revision service -> stores.
// Each test builds against a fresh repository and a private HOME, so the
// global config and the audit log never leak between tests.

package cmd

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the noterev binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "noterev-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "noterev"
		if os.PathSeparator == '\\' {
			binaryName = "noterev.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Project root is the parent of cmd/
		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = filepath.Dir(mustGetwd())
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string
	home   string
	binary string
	env    []string
}

// newTestEnv creates a temporary directory with an initialised repository.
// Edits are never coalesced unless a test sets NOTEREV_MIN_INTERVAL itself.
func newTestEnv(t *testing.T, initArgs ...string) *testEnv {
	t.Helper()

	e := &testEnv{
		t:      t,
		dir:    t.TempDir(),
		home:   t.TempDir(),
		binary: buildBinary(t),
	}
	e.setenv("NOTEREV_MIN_INTERVAL", "0s")
	e.run(append([]string{"init"}, initArgs...)...)
	return e
}

// setenv adds a variable to the environment of subsequent runs.
func (e *testEnv) setenv(key, value string) {
	e.env = append(e.env, key+"="+value)
}

func (e *testEnv) command(args ...string) *exec.Cmd {
	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(), "HOME="+e.home, "USERPROFILE="+e.home, "NOTEREV_DIR=")
	cmd.Env = append(cmd.Env, e.env...)
	return cmd
}

// run executes noterev with the given args and returns its output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("noterev %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes noterev and returns its output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()
	out, err := e.command(args...).CombinedOutput()
	return string(out), err
}

// runStdin executes noterev with stdin input.
func (e *testEnv) runStdin(input string, args ...string) string {
	e.t.Helper()
	out, err := e.runStdinErr(input, args...)
	if err != nil {
		e.t.Fatalf("noterev %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runStdinErr executes noterev with stdin input and returns any error.
func (e *testEnv) runStdinErr(input string, args ...string) (string, error) {
	e.t.Helper()
	cmd := e.command(args...)
	cmd.Stdin = strings.NewReader(input)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// runJSON executes noterev with -o json and decodes stdout into v.
func (e *testEnv) runJSON(v any, input string, args ...string) {
	e.t.Helper()
	cmd := e.command(append(args, "-o", "json")...)
	cmd.Stdin = strings.NewReader(input)
	out, err := cmd.Output()
	require.NoError(e.t, err, "noterev %v: %s", args, out)
	require.NoError(e.t, json.Unmarshal(out, v), "noterev %v: %s", args, out)
}

// record records text as the new content of a tracked document.
func (e *testEnv) record(doc, text string) string {
	e.t.Helper()
	return e.runStdin(text, "record", doc)
}

// contains asserts that output contains the expected substring.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// notContains asserts that output does not contain the substring.
func (e *testEnv) notContains(output, unexpected string) {
	e.t.Helper()
	assert.NotContains(e.t, output, unexpected)
}
