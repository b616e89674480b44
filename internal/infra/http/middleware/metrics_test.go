package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Post("/leads/{email}/replay", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/leads/a@b.com/replay", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)

	out := scrape(t)
	assert.Contains(t, out, `http_requests_total{method="POST",path="/leads/{email}/replay",status="202"} 1`)
	assert.NotContains(t, out, "a@b.com")
}

func TestStepMetrics(t *testing.T) {
	StepMetrics{}.RecordStep("metrics_test_step", "failed")
	StepMetrics{}.RecordStep("metrics_test_step", "failed")
	RecordSubmission("metrics_test")

	out := scrape(t)
	assert.Contains(t, out, `sync_steps_total{status="failed",step="metrics_test_step"} 2`)
	assert.Contains(t, out, `wizard_submissions_total{result="metrics_test"} 1`)
}
