package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/novalift/novaliftcom/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/go-redis/redismock/v8"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain will run goleak after all tests have been run in the package
// to detect any goroutine leaks
func TestMain(m *testing.M) {
	m.Run()
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

type rateLimiterStub struct {
	allowed int
}

func (l *rateLimiterStub) Allow(_ context.Context, _ string, _ redis_rate.Limit) (*redis_rate.Result, error) {
	return &redis_rate.Result{Allowed: l.allowed, RetryAfter: time.Minute}, nil
}

func rateLimitedHandler(limiter RequestRateLimiter, metricsManager *metrics.Manager, next http.Handler) http.Handler {
	return RateLimit(limiter, "test-route", 5, metricsManager)(next)
}

func TestRateLimit_allowed(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	var nextCalled bool
	handler := rateLimitedHandler(
		&rateLimiterStub{allowed: 1},
		metricsManager,
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { nextCalled = true }),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(0), testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))
}

func TestRateLimit_denied(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	var nextCalled bool
	handler := rateLimitedHandler(
		&rateLimiterStub{allowed: 0},
		metricsManager,
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { nextCalled = true }),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), "retry after")
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))
}

func TestRateLimit_optionsBypass(t *testing.T) {
	var nextCalled bool
	handler := rateLimitedHandler(
		&rateLimiterStub{allowed: 0},
		metrics.NewTestManager(),
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { nextCalled = true }),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("OPTIONS", "/", nil))

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimit_limiterError(t *testing.T) {
	// a redis client with no expectations errors on every command, which
	// the middleware must surface as an internal error
	db, _ := redismock.NewClientMock()
	limiter := redis_rate.NewLimiter(db)

	var nextCalled bool
	handler := rateLimitedHandler(
		limiter,
		metrics.NewTestManager(),
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { nextCalled = true }),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))

	require.False(t, nextCalled)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
