package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLogLevel(t *testing.T) {
	defer func() { _ = SetLogLevel("warn") }()

	for _, lvl := range []string{"debug", "info", "warn", "error", "WARN", ""} {
		assert.NoError(t, SetLogLevel(lvl), lvl)
	}
	assert.Error(t, SetLogLevel("loud"))
}

func TestNew_WritesToSink(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})
	require.NoError(t, SetLogLevel("info"))
	defer func() { _ = SetLogLevel("warn") }()

	New("revision", NewField("document", "notes/1")).Infow("recorded", "outcome", "appended")

	out := buf.String()
	assert.Contains(t, out, "revision")
	assert.Contains(t, out, "recorded")
	assert.Contains(t, out, "notes/1")
	assert.Contains(t, out, "appended")
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})
	require.NoError(t, SetLogLevel("warn"))

	l := New("quiet")
	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
