// Package progress reports progress of multi-document operations on
// stderr, keeping stdout clean for piping. Nothing is printed unless
// stderr is a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// minItems is the smallest total worth reporting.
const minItems = 5

// Progress tracks and displays operation progress.
type Progress struct {
	w       io.Writer
	label   string
	total   int
	current int
	isTTY   bool
	width   int
}

// New creates a progress reporter that writes to stderr.
func New(label string, total int) *Progress {
	return &Progress{
		w:     os.Stderr,
		label: label,
		total: total,
		isTTY: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// Step advances the counter by one and redraws the line.
func (p *Progress) Step() {
	p.current++
	if !p.active() {
		return
	}
	line := fmt.Sprintf("%s... %d/%d (%d%%)", p.label, p.current, p.total, p.current*100/p.total)
	p.width = max(p.width, len(line))
	fmt.Fprintf(p.w, "\r%s", line)
}

// Done clears the progress line to make way for final output.
func (p *Progress) Done() {
	if !p.active() || p.width == 0 {
		return
	}
	fmt.Fprintf(p.w, "\r%s\r", strings.Repeat(" ", p.width))
}

// Current returns how many steps have completed.
func (p *Progress) Current() int { return p.current }

func (p *Progress) active() bool {
	return p.isTTY && p.total >= minItems
}
