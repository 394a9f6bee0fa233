package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric family %q not gathered", name)
	return nil
}

func TestRecordAnalysis(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordAnalysis("static", OutcomeSuccess, 1500*time.Millisecond)
	m.RecordAnalysis("static", OutcomeSuccess, 500*time.Millisecond)
	m.RecordAnalysis("rendered", OutcomeError, time.Second)

	total := findFamily(t, reg, "seoanalyser_analyses_total")
	require.Len(t, total.GetMetric(), 2)

	counts := map[string]float64{}
	for _, metric := range total.GetMetric() {
		var mode, outcome string
		for _, l := range metric.GetLabel() {
			switch l.GetName() {
			case "mode":
				mode = l.GetValue()
			case "outcome":
				outcome = l.GetValue()
			}
		}
		counts[mode+"/"+outcome] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"static/success": 2, "rendered/error": 1}, counts)

	dur := findFamily(t, reg, "seoanalyser_analysis_duration_seconds")
	var samples uint64
	for _, metric := range dur.GetMetric() {
		samples += metric.GetHistogram().GetSampleCount()
	}
	assert.Equal(t, uint64(3), samples)
}

func TestRecordLinkCheckAndScore(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordLinkCheck(12, 3)
	m.RecordLinkCheck(0, 0)
	m.RecordScore(85)

	checked := findFamily(t, reg, "seoanalyser_links_checked_total")
	assert.InDelta(t, 12, checked.GetMetric()[0].GetCounter().GetValue(), 1e-9)

	broken := findFamily(t, reg, "seoanalyser_links_broken_total")
	assert.InDelta(t, 3, broken.GetMetric()[0].GetCounter().GetValue(), 1e-9)

	score := findFamily(t, reg, "seoanalyser_analysis_score")
	assert.Equal(t, uint64(1), score.GetMetric()[0].GetHistogram().GetSampleCount())
	assert.InDelta(t, 85, score.GetMetric()[0].GetHistogram().GetSampleSum(), 1e-9)
}

func TestHandler_ServesExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.RecordAnalysis("static", OutcomeSuccess, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `seoanalyser_analyses_total{mode="static",outcome="success"} 1`)
}
