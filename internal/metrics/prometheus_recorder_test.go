package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveStageDuration("parse", 150*time.Millisecond)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncStageResult("parse", ResultSuccess)
	pr.IncRunOutcome(RunWarning)
	pr.AddAnchors(3)
	pr.AddAnchors(0)
	pr.AddLinks("internal", 2)
	pr.AddLinks("unresolved", 1)
	pr.IncDiagnostic("unresolved_link")
	pr.AddFilesWritten("html", 4)

	require.InDelta(t, 3, testutil.ToFloat64(pr.anchors), 0)
	require.InDelta(t, 2, testutil.ToFloat64(pr.links.WithLabelValues("internal")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.links.WithLabelValues("unresolved")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.runOutcomes.WithLabelValues("warning")), 0)
	require.InDelta(t, 4, testutil.ToFloat64(pr.filesWritten.WithLabelValues("html")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.ObserveStageDuration("parse", time.Second)
		pr.AddLinks("internal", 1)
		pr.IncDiagnostic("x")
	})
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).AddAnchors(1)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "dulynoted_anchors_declared_total 1")
}

var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)
