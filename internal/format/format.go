// Package format renders CLI output.
//
// Command implementations hand their results to these functions so they can
// stay focused on the revision engine. Tables are drawn with go-pretty in a
// borderless style.
package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/uttaparsa/notes-api/internal/catalog"
	"github.com/uttaparsa/notes-api/internal/diff"
	"github.com/uttaparsa/notes-api/internal/log"
	"github.com/uttaparsa/notes-api/internal/revision"
	"github.com/uttaparsa/notes-api/internal/store"
)

const timeLayout = "2006-01-02 15:04"

// humanSize formats a byte count as human-readable (e.g., "1.2K", "3.4M").
func humanSize(bytes int64) string {
	const (
		_        = iota
		KB int64 = 1 << (10 * iota)
		MB
		GB
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1fG", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1fM", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1fK", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Options.SeparateFooter = false
	tw.Style().Options.SeparateHeader = false
	tw.Style().Options.SeparateRows = false
	return tw
}

// Documents prints tracked documents.
func Documents(w io.Writer, docs []catalog.Document) {
	if len(docs) == 0 {
		return
	}
	tw := newTable(w)
	tw.AppendHeader(table.Row{"DOCUMENT", "TRACKED"})
	for _, d := range docs {
		tw.AppendRow(table.Row{d.ID, d.CreatedAt.Local().Format(timeLayout)})
	}
	tw.Render()
}

// History prints revisions newest first with their change size.
func History(w io.Writer, revs []store.Revision) {
	if len(revs) == 0 {
		return
	}
	tw := newTable(w)
	tw.AppendHeader(table.Row{"ID", "CREATED", "PREVIOUS", "CHANGE", "SIZE"})
	for _, r := range revs {
		prev := "-"
		if r.PreviousID != nil {
			prev = strconv.FormatInt(*r.PreviousID, 10)
		}
		tw.AppendRow(table.Row{
			r.ID,
			r.CreatedAt.Local().Format(timeLayout),
			prev,
			change(r),
			humanSize(int64(len(r.FullText))),
		})
	}
	tw.Render()
}

// change summarises a revision's cached diff as "+a -r".
func change(r store.Revision) string {
	if r.DiffText == "" {
		if r.IsRoot() {
			return "root"
		}
		return "+0 -0"
	}
	lines, err := diff.Decode(r.DiffText)
	if err != nil {
		return "?"
	}
	added, removed := diff.Stat(lines)
	return fmt.Sprintf("+%d -%d", added, removed)
}

// Stats prints per-day revision counts with a bar for each day.
func Stats(w io.Writer, days []revision.DayCount) {
	peak := 0
	for _, d := range days {
		peak = max(peak, d.Count)
	}
	tw := newTable(w)
	tw.AppendHeader(table.Row{"DATE", "REVISIONS", ""})
	for _, d := range days {
		tw.AppendRow(table.Row{d.Date, d.Count, bar(d.Count, peak, 30)})
	}
	tw.Render()
}

func bar(n, peak, width int) string {
	if peak == 0 || n == 0 {
		return ""
	}
	return strings.Repeat("█", max(1, n*width/peak))
}

// Report prints the result of verifying one document.
func Report(w io.Writer, r revision.Report) {
	if r.OK() {
		fmt.Fprintf(w, "%s: ok (%d revisions)\n", r.DocumentID, r.Revisions)
		return
	}
	fmt.Fprintf(w, "%s: %d issues (%d revisions)\n", r.DocumentID, len(r.Issues), r.Revisions)
	for _, is := range r.Issues {
		if is.RevisionID != 0 {
			fmt.Fprintf(w, "  revision %d: %s\n", is.RevisionID, is.Problem)
		} else {
			fmt.Fprintf(w, "  %s\n", is.Problem)
		}
	}
}

// Patch prints a unified diff, colourised when colour is set.
func Patch(w io.Writer, patch []byte, colour bool) {
	s := string(patch)
	if colour {
		s = diff.Colourise(s)
	}
	fmt.Fprint(w, s)
}

// Audit prints audit log entries.
func Audit(w io.Writer, entries []log.Entry) {
	if len(entries) == 0 {
		return
	}
	tw := newTable(w)
	tw.AppendHeader(table.Row{"TIME", "SOURCE", "DOCUMENT", "OUTCOME", "REVISION", "DURATION", "STATUS"})
	for _, e := range entries {
		status := "ok"
		if !e.Success {
			status = "error: " + e.Error
		}
		rev := "-"
		if e.Revision != 0 {
			rev = strconv.FormatInt(e.Revision, 10)
		}
		tw.AppendRow(table.Row{
			e.Start.Local().Format(timeLayout),
			e.Source,
			dash(e.Document),
			dash(e.Outcome),
			rev,
			e.End.Sub(e.Start).Round(time.Millisecond),
			status,
		})
	}
	tw.Render()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
