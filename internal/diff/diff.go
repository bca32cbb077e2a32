// Package diff implements the line-level diff codec used to cache the change
// between consecutive revisions of a document.
//
// A diff is an ndiff-style listing: one entry per line of either text,
// prefixed with "  " (unchanged), "- " (removed) or "+ " (added). Lines keep
// their terminators, so a final line without a newline is followed by the
// marker "\ No newline at end of file". Replaying a diff against the text it
// was computed from reproduces the new text exactly.
package diff

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// NoNewline marks that the preceding diff line has no terminator.
const NoNewline = `\ No newline at end of file`

var (
	// ErrMalformed is returned when diff text contains an unknown line prefix.
	ErrMalformed = errors.New("malformed diff")
	// ErrMisaligned is returned when a diff does not line up with its base text.
	ErrMisaligned = errors.New("diff does not match base text")
)

// Op is the kind of a diff line.
type Op int

const (
	Equal Op = iota
	Delete
	Insert
)

// prefix returns the two-character marker written before a line.
func (o Op) prefix() string {
	switch o {
	case Delete:
		return "- "
	case Insert:
		return "+ "
	default:
		return "  "
	}
}

// Line is one entry of an edit script. Text includes its line terminator
// unless it is the last line of a text that does not end in one.
type Line struct {
	Op   Op
	Text string
}

// Compute returns the line edit script that turns oldText into newText.
func Compute(oldText, newText string) []Line {
	if oldText == newText {
		return equalLines(oldText)
	}

	dmp := diffmatchpatch.New()
	a, b, table := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffMainRunes(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, table)

	var out []Line
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = Delete
		case diffmatchpatch.DiffInsert:
			op = Insert
		}
		for _, l := range SplitLines(d.Text) {
			out = append(out, Line{Op: op, Text: l})
		}
	}
	return out
}

func equalLines(s string) []Line {
	src := SplitLines(s)
	out := make([]Line, len(src))
	for i, l := range src {
		out[i] = Line{Op: Equal, Text: l}
	}
	return out
}

// Create returns the encoded diff from oldText to newText.
func Create(oldText, newText string) string {
	return Encode(Compute(oldText, newText))
}

// Encode renders an edit script in the stored diff format.
func Encode(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.Op.prefix())
		b.WriteString(l.Text)
		if !strings.HasSuffix(l.Text, "\n") {
			b.WriteString("\n" + NoNewline + "\n")
		}
	}
	return b.String()
}

// Decode parses stored diff text back into an edit script. Intraline hint
// lines ("? ") produced by ndiff are skipped.
func Decode(d string) ([]Line, error) {
	var out []Line
	for n, entry := range SplitLines(d) {
		switch {
		case strings.HasPrefix(entry, "\\"):
			if len(out) == 0 || !strings.HasSuffix(out[len(out)-1].Text, "\n") {
				return nil, fmt.Errorf("%w: stray newline marker at line %d", ErrMalformed, n+1)
			}
			last := &out[len(out)-1]
			last.Text = strings.TrimSuffix(last.Text, "\n")
		case strings.HasPrefix(entry, "? "):
			continue
		case strings.HasPrefix(entry, "  "):
			out = append(out, Line{Op: Equal, Text: entry[2:]})
		case strings.HasPrefix(entry, "- "):
			out = append(out, Line{Op: Delete, Text: entry[2:]})
		case strings.HasPrefix(entry, "+ "):
			out = append(out, Line{Op: Insert, Text: entry[2:]})
		default:
			return nil, fmt.Errorf("%w: unexpected prefix at line %d", ErrMalformed, n+1)
		}
	}
	return out, nil
}

// Apply replays diff d against base and returns the resulting text.
//
// Unchanged and removed lines must match base in order, and all of base must
// be consumed. On a mismatch the text produced so far is returned together
// with an error wrapping ErrMisaligned.
func Apply(base, d string) (string, error) {
	lines, err := Decode(d)
	if err != nil {
		return "", err
	}
	return Replay(base, lines)
}

// Replay applies an already decoded edit script to base.
func Replay(base string, lines []Line) (string, error) {
	src := SplitLines(base)
	var b strings.Builder
	i := 0
	for _, l := range lines {
		switch l.Op {
		case Insert:
			b.WriteString(l.Text)
		case Equal, Delete:
			if i >= len(src) || src[i] != l.Text {
				return b.String(), fmt.Errorf("%w: base line %d", ErrMisaligned, i+1)
			}
			if l.Op == Equal {
				b.WriteString(src[i])
			}
			i++
		}
	}
	if i != len(src) {
		return b.String(), fmt.Errorf("%w: %d base lines not covered", ErrMisaligned, len(src)-i)
	}
	return b.String(), nil
}

// Stat counts added and removed lines.
func Stat(lines []Line) (added, removed int) {
	for _, l := range lines {
		switch l.Op {
		case Insert:
			added++
		case Delete:
			removed++
		}
	}
	return added, removed
}

// Changed reports whether the script contains any insertion or deletion.
func Changed(lines []Line) bool {
	a, r := Stat(lines)
	return a+r > 0
}

// SplitLines splits s after each newline, keeping the terminators.
// The empty string has no lines.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.SplitAfter(s, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// Colourise adds ANSI colours to diff output.
func Colourise(d string) string {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		reset = "\033[0m"
	)

	var b strings.Builder
	for _, line := range strings.Split(d, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			b.WriteString(red + line + reset + "\n")
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			b.WriteString(green + line + reset + "\n")
		default:
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
