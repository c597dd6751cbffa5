package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/novalift/novaliftcom/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestMetrics(t *testing.T) {
	metricsManager, registry := metrics.NewTestManagerAndRegistry()

	handler := RequestMetrics(metricsManager)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusTeapot, rr.Code)

	counter, err := metricsManager.CounterRequests.GetMetricWith(prometheus.Labels{
		"method": "GET",
		"status": "418",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))

	histCount, err := testutil.GatherAndCount(registry, "backend_test_server_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, histCount)
}

func TestRequestMetrics_defaultStatusOK(t *testing.T) {
	metricsManager := metrics.NewTestManager()

	handler := RequestMetrics(metricsManager)(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))

	counter, err := metricsManager.CounterRequests.GetMetricWith(prometheus.Labels{
		"method": "POST",
		"status": "200",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))
}
