package format

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/uttaparsa/notes-api/internal/catalog"
	"github.com/uttaparsa/notes-api/internal/diff"
	"github.com/uttaparsa/notes-api/internal/log"
	"github.com/uttaparsa/notes-api/internal/revision"
	"github.com/uttaparsa/notes-api/internal/store"
)

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "12B", humanSize(12))
	assert.Equal(t, "1.5K", humanSize(1536))
	assert.Equal(t, "2.0M", humanSize(2*1024*1024))
}

func TestHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	revs := []store.Revision{
		{ID: 2, DocumentID: "a", FullText: "x\ny\n", CreatedAt: now, PreviousID: store.ID(1), DiffText: diff.Create("x\n", "x\ny\n")},
		{ID: 1, DocumentID: "a", FullText: "x\n", CreatedAt: now},
	}
	var buf bytes.Buffer
	History(&buf, revs)
	out := buf.String()
	assert.Contains(t, out, "PREVIOUS")
	assert.Contains(t, out, "+1 -0")
	assert.Contains(t, out, "root")
}

func TestHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	History(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestChange_Undecodable(t *testing.T) {
	assert.Equal(t, "?", change(store.Revision{PreviousID: store.ID(1), DiffText: "garbage\n"}))
}

func TestStats(t *testing.T) {
	var buf bytes.Buffer
	Stats(&buf, []revision.DayCount{{Date: "2026-03-01", Count: 0}, {Date: "2026-03-02", Count: 4}})
	out := buf.String()
	assert.Contains(t, out, "2026-03-01")
	assert.Contains(t, out, "2026-03-02")
	assert.Contains(t, out, "█")
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, revision.Report{DocumentID: "a", Revisions: 3})
	assert.Equal(t, "a: ok (3 revisions)\n", buf.String())

	buf.Reset()
	Report(&buf, revision.Report{DocumentID: "a", Revisions: 3, Issues: []revision.Issue{
		{RevisionID: 2, Problem: "diff does not replay"},
		{Problem: "chain has 2 roots"},
	}})
	assert.Contains(t, buf.String(), "2 issues")
	assert.Contains(t, buf.String(), "revision 2: diff does not replay")
}

func TestPatch(t *testing.T) {
	var buf bytes.Buffer
	Patch(&buf, []byte("--- a\n+++ b\n-x\n+y\n"), false)
	assert.Equal(t, "--- a\n+++ b\n-x\n+y\n", buf.String())
}

func TestDocumentsAndAudit(t *testing.T) {
	var buf bytes.Buffer
	Documents(&buf, []catalog.Document{{ID: "notes/a", CreatedAt: time.Now()}})
	assert.Contains(t, buf.String(), "notes/a")

	buf.Reset()
	start := time.Now()
	Audit(&buf, []log.Entry{{Source: "revision:record", Document: "notes/a", Outcome: "created", Revision: 1, Start: start, End: start, Success: true}})
	assert.Contains(t, buf.String(), "revision:record")
	assert.Contains(t, buf.String(), "created")
}
