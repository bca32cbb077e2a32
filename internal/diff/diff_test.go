package diff

import (
	"strings"
	"testing"

	godiff "github.com/sourcegraph/go-diff/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
	}{
		{"both empty", "", ""},
		{"from empty", "", "hello\nworld\n"},
		{"to empty", "hello\nworld\n", ""},
		{"identical", "a\nb\nc\n", "a\nb\nc\n"},
		{"append line", "a\nb\n", "a\nb\nc\n"},
		{"insert middle", "a\nc\n", "a\nb\nc\n"},
		{"delete middle", "a\nb\nc\n", "a\nc\n"},
		{"replace all", "one\ntwo\n", "three\nfour\nfive\n"},
		{"no trailing newline added", "a\nb", "a\nb\n"},
		{"no trailing newline removed", "a\nb\n", "a\nb"},
		{"no trailing newline both", "a\nb", "a\nc"},
		{"single char", "A", "AB"},
		{"crlf", "a\r\nb\r\n", "a\r\nB\r\n"},
		{"blank lines", "\n\n\n", "\n\nx\n\n"},
		{"prefix-like content", "- not removed\n+ not added\n", "  ctx\n? hint\n\\ slash\n"},
		{"unicode", "héllo\nwörld\n", "héllo\nмир\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Create(tt.old, tt.new)
			got, err := Apply(tt.old, d)
			require.NoError(t, err)
			assert.Equal(t, tt.new, got)
		})
	}
}

func TestCreate_Format(t *testing.T) {
	d := Create("a\nb\nc\n", "a\nx\nc\n")
	assert.Equal(t, "  a\n- b\n+ x\n  c\n", d)
}

func TestCreate_NoNewlineMarker(t *testing.T) {
	d := Create("", "last")
	assert.Equal(t, "+ last\n"+NoNewline+"\n", d)
}

func TestCreate_FromEmptyIsAllAdditions(t *testing.T) {
	d := Create("", "x\ny\n")
	lines, err := Decode(d)
	require.NoError(t, err)
	added, removed := Stat(lines)
	assert.Equal(t, 2, added)
	assert.Equal(t, 0, removed)
}

func TestDecode_SkipsHintLines(t *testing.T) {
	// ndiff emits "? " lines marking intraline changes
	d := "- abc\n? ^\n+ xbc\n? ^\n"
	got, err := Apply("abc\n", d)
	require.NoError(t, err)
	assert.Equal(t, "xbc\n", got)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		diff string
	}{
		{"unknown prefix", "* nope\n"},
		{"missing space", "+x\n"},
		{"marker first", NoNewline + "\n"},
		{"double marker", "+ a\n" + NoNewline + "\n" + NoNewline + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.diff)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestApply_Misaligned(t *testing.T) {
	d := Create("a\nb\n", "a\nc\n")

	got, err := Apply("a\nz\n", d)
	assert.ErrorIs(t, err, ErrMisaligned)
	assert.Equal(t, "a\n", got, "partial output up to the mismatch")

	_, err = Apply("a\nb\nextra\n", d)
	assert.ErrorIs(t, err, ErrMisaligned, "unconsumed base lines")
}

func TestStat(t *testing.T) {
	lines := Compute("a\nb\nc\n", "a\nc\nd\ne\n")
	added, removed := Stat(lines)
	assert.Equal(t, 2, added)
	assert.Equal(t, 1, removed)
	assert.True(t, Changed(lines))
	assert.False(t, Changed(Compute("same\n", "same\n")))
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a\n", "b"}, SplitLines("a\nb"))
	assert.Equal(t, []string{"a\n", "b\n"}, SplitLines("a\nb\n"))
	assert.Equal(t, []string{"\n"}, SplitLines("\n"))
}

func TestUnified(t *testing.T) {
	out, err := Unified("rev/1", "rev/2", Compute("a\nb\n", "a\nc"))
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, "--- rev/1\n+++ rev/2\n@@ -1,2 +1,2 @@\n"), s)
	assert.Contains(t, s, " a\n-b\n+c\n"+NoNewline+"\n")

	fd, err := godiff.ParseFileDiff(out)
	require.NoError(t, err)
	require.Len(t, fd.Hunks, 1)
	assert.Equal(t, int32(2), fd.Hunks[0].OrigLines)
	assert.Equal(t, int32(2), fd.Hunks[0].NewLines)
}

func TestUnified_FromEmpty(t *testing.T) {
	out, err := Unified("empty", "rev/1", Compute("", "x\n"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "@@ -0,0 +1,1 @@\n+x\n")
}

func TestUnified_Empty(t *testing.T) {
	out, err := Unified("a", "b", nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestColourise(t *testing.T) {
	out := Colourise("  same\n- old\n+ new\n")
	assert.Contains(t, out, "\033[31m- old\033[0m")
	assert.Contains(t, out, "\033[32m+ new\033[0m")
	assert.Contains(t, out, "  same\n")

	out = Colourise("--- a\n+++ b\n")
	assert.NotContains(t, out, "\033[")
}
