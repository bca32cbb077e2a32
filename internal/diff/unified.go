package diff

import (
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"
)

// Unified renders an edit script as a single-hunk unified diff that standard
// patch tools accept. The hunk spans both texts in full. An empty script
// produces no output.
func Unified(oldLabel, newLabel string, lines []Line) ([]byte, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	h := &godiff.Hunk{}
	var body strings.Builder
	for _, l := range lines {
		switch l.Op {
		case Equal:
			body.WriteByte(' ')
			h.OrigLines++
			h.NewLines++
		case Delete:
			body.WriteByte('-')
			h.OrigLines++
		case Insert:
			body.WriteByte('+')
			h.NewLines++
		}
		body.WriteString(l.Text)
		if !strings.HasSuffix(l.Text, "\n") {
			body.WriteString("\n" + NoNewline + "\n")
		}
	}
	if h.OrigLines > 0 {
		h.OrigStartLine = 1
	}
	if h.NewLines > 0 {
		h.NewStartLine = 1
	}
	h.Body = []byte(body.String())

	return godiff.PrintFileDiff(&godiff.FileDiff{
		OrigName: oldLabel,
		NewName:  newLabel,
		Hunks:    []*godiff.Hunk{h},
	})
}
