package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uttaparsa/notes-api/internal/logging"
)

func TestMetrics_Counters(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.AddRecord("appended", 0.01)
	m.AddRecord("appended", 0.02)
	m.AddRecord("amended", 0.01)
	m.AddPruned(2)
	m.AddPruned(0)
	m.AddReplayFailure()
	m.AddPruneFailure()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.recordsTotal.WithLabelValues("appended")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recordsTotal.WithLabelValues("amended")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.prunedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.replayFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pruneFailuresTotal))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AddRecord("created", 1)
		m.AddPruned(1)
		m.AddPruneFailure()
		m.AddReplayFailure()
	})
}

func TestServer_Exposes(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	m.AddRecord("created", 0.001)

	srv := NewServer(":0", m, logging.Nop())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `noterev_revisions_records_total{outcome="created"} 1`), body)
	assert.Contains(t, body, "noterev_build_info")
}
