package cmd

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type revisionJSON struct {
	ID         int64  `json:"id"`
	DocumentID string `json:"document_id"`
	FullText   string `json:"full_text"`
	PreviousID *int64 `json:"previous_revision_id"`
	DiffText   string `json:"diff_text"`
}

type recordJSON struct {
	Outcome  string       `json:"outcome"`
	Revision revisionJSON `json:"revision"`
	Pruned   int          `json:"pruned"`
	Warning  string       `json:"warning"`
}

func TestTrack_Ls_Untrack(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("track", "a.md", "b.md")
	env.contains(out, "Tracking 2 new")

	out = env.run("track", "a.md")
	env.contains(out, "Tracking 0 new")

	out = env.run("ls")
	env.contains(out, "a.md")
	env.contains(out, "b.md")

	env.run("untrack", "b.md")
	out = env.run("ls")
	env.notContains(out, "b.md")

	_, err := env.runErr("untrack", "b.md")
	assert.Error(t, err)
}

func TestRecord_UntrackedDocument(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.runStdinErr("hello\n", "record", "missing.md")
	require.Error(t, err)
	env.contains(out, "not found")
}

func TestRecord_Outcomes(t *testing.T) {
	env := newTestEnv(t)
	env.run("track", "a.md")

	var res recordJSON
	env.runJSON(&res, "one\n", "record", "a.md")
	assert.Equal(t, "created", res.Outcome)
	assert.Nil(t, res.Revision.PreviousID)
	root := res.Revision.ID

	env.runJSON(&res, "one\n", "record", "a.md")
	assert.Equal(t, "unchanged", res.Outcome)

	env.runJSON(&res, "one\ntwo\n", "record", "a.md")
	assert.Equal(t, "appended", res.Outcome)
	require.NotNil(t, res.Revision.PreviousID)
	assert.Equal(t, root, *res.Revision.PreviousID)

	out := env.run("history", "a.md")
	env.contains(out, "root")
	env.contains(out, "+1 -0")
}

func TestRecord_Coalesces(t *testing.T) {
	env := newTestEnv(t)
	env.setenv("NOTEREV_MIN_INTERVAL", "1h")
	env.run("track", "a.md")

	env.record("a.md", "one\n")
	env.record("a.md", "one\ntwo\n")
	out := env.record("a.md", "one\ntwo\nthree\n")
	env.contains(out, "amended revision")

	var revs []revisionJSON
	env.runJSON(&revs, "", "history", "a.md")
	require.Len(t, revs, 1)
}

func TestRecord_FromFile(t *testing.T) {
	env := newTestEnv(t)
	env.run("track", "a.md")

	path := filepath.Join(env.dir, "a.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n"), 0644))

	out := env.run("record", "a.md", "-f", path)
	env.contains(out, "a.md: created revision")

	out = env.run("show", "a.md", "1", "--raw")
	assert.Equal(t, "# Title\n", out)
}

func TestRecord_Prunes(t *testing.T) {
	env := newTestEnv(t)
	env.setenv("NOTEREV_MAX_REVISIONS", "3")
	env.run("track", "a.md")

	text := ""
	for i := range 5 {
		text += "line " + strconv.Itoa(i) + "\n"
		env.record("a.md", text)
	}

	var revs []revisionJSON
	env.runJSON(&revs, "", "history", "a.md")
	require.Len(t, revs, 3)
	// Newest first; the oldest survivor is the root.
	assert.Nil(t, revs[2].PreviousID)
	assert.Equal(t, text, func() string {
		var r revisionJSON
		env.runJSON(&r, "", "show", "a.md", strconv.FormatInt(revs[0].ID, 10))
		return r.FullText
	}())

	out := env.run("verify", "a.md")
	env.contains(out, "a.md: ok (3 revisions)")
}

func TestPrune_AfterLoweringLimit(t *testing.T) {
	env := newTestEnv(t)
	env.run("track", "a.md")

	text := ""
	for i := range 4 {
		text += strconv.Itoa(i) + "\n"
		env.record("a.md", text)
	}

	env.setenv("NOTEREV_MAX_REVISIONS", "2")
	_, err := env.runErr("verify", "a.md")
	require.Error(t, err)

	out := env.run("prune", "a.md")
	env.contains(out, "pruned 2 revision(s)")
	env.run("verify")
}

func TestHistory_Limit(t *testing.T) {
	env := newTestEnv(t)
	env.run("track", "a.md")
	env.record("a.md", "1\n")
	env.record("a.md", "1\n2\n")
	env.record("a.md", "1\n2\n3\n")

	var revs []revisionJSON
	env.runJSON(&revs, "", "history", "a.md", "-n", "2")
	assert.Len(t, revs, 2)

	_, err := env.runErr("history", "a.md", "-n", "-1")
	assert.Error(t, err)
}

func TestHistory_Diff(t *testing.T) {
	env := newTestEnv(t)
	env.run("track", "a.md")
	env.record("a.md", "alpha\n")
	env.record("a.md", "alpha\nbeta\n")

	out := env.run("history", "a.md", "-d")
	env.contains(out, "+beta")
	env.contains(out, "--- /dev/null")
}

func TestHistory_Empty(t *testing.T) {
	env := newTestEnv(t)
	out := env.run("history", "none.md")
	env.contains(out, "no revisions")
}

func TestShow_Patch(t *testing.T) {
	env := newTestEnv(t)
	env.run("track", "a.md")
	env.record("a.md", "alpha\n")
	env.record("a.md", "alpha\ngamma\n")

	out := env.run("show", "a.md", "1")
	assert.Equal(t, "alpha\n", out)

	out = env.run("patch", "a.md", "2")
	env.contains(out, "--- a/a.md@1")
	env.contains(out, "+++ b/a.md@2")
	env.contains(out, "+gamma")

	out = env.run("patch", "a.md", "1")
	env.contains(out, "+alpha")

	_, err := env.runErr("show", "a.md", "99")
	assert.Error(t, err)

	_, err = env.runErr("show", "a.md", "abc")
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	env := newTestEnv(t)
	env.run("track", "old.md")

	out := env.runStdin("existing\n", "seed", "old.md")
	env.contains(out, "seeded")

	out = env.runStdin("other\n", "seed", "old.md")
	env.contains(out, "already has history")

	out = env.run("show", "old.md", "1")
	assert.Equal(t, "existing\n", out)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)
	env.run("track", "a.md", "b.md")
	env.record("a.md", "x\n")
	env.record("b.md", "y\n")

	var days []struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
	}
	env.runJSON(&days, "", "stats", "--days", "3")
	require.Len(t, days, 4)
	assert.Equal(t, 2, days[3].Count)

	_, err := env.runErr("stats", "--days", "0")
	assert.Error(t, err)
}

func TestJSONError(t *testing.T) {
	env := newTestEnv(t)

	var res map[string]string
	env.runJSON(&res, "text\n", "record", "missing.md")
	assert.Contains(t, res["error"], "not found")
}

func TestAuditLog(t *testing.T) {
	env := newTestEnv(t)
	env.run("track", "a.md")
	env.run("-a", "alice", "record", "a.md", "-f", writeFile(t, env.dir, "a.md", "hi\n"))

	out := env.run("log", "-n", "5")
	env.contains(out, "revisions:record")
	env.contains(out, "a.md")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}
