package observability

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	registry := prometheus.NewRegistry()
	return NewMetrics(registry), registry
}

func TestNewMetricsRegistersEverything(t *testing.T) {
	m, registry := newTestMetrics(t)

	// Touch one series per collector so Gather reports them all.
	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/products", "200").Inc()
	m.HTTPRequestDuration.WithLabelValues("GET", "/api/v1/products").Observe(0.01)
	m.StorageOperationsTotal.WithLabelValues("insert", "products", "ok").Inc()
	m.StorageOperationDuration.WithLabelValues("insert", "products").Observe(0.002)
	m.StorageErrorsTotal.WithLabelValues("insert", "products").Inc()
	m.LoginAttemptsTotal.WithLabelValues("success").Inc()
	m.SignupsTotal.WithLabelValues("success").Inc()
	m.TokensIssuedTotal.Inc()
	m.CacheHitsTotal.WithLabelValues("l1", "products").Inc()
	m.CacheMissesTotal.WithLabelValues("redis", "products").Inc()
	m.DBConnectionsActive.Set(2)
	m.DBConnectionsIdle.Set(3)

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}

	expected := []string{
		"stockroom_http_requests_total",
		"stockroom_http_request_duration_seconds",
		"stockroom_storage_operations_total",
		"stockroom_storage_operation_duration_seconds",
		"stockroom_storage_errors_total",
		"stockroom_login_attempts_total",
		"stockroom_signups_total",
		"stockroom_tokens_issued_total",
		"stockroom_cache_hits_total",
		"stockroom_cache_misses_total",
		"stockroom_db_connections_active",
		"stockroom_db_connections_idle",
	}
	for _, name := range expected {
		assert.True(t, names[name], "metric %s should be registered", name)
	}
}

func TestObserveStorageOperation(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.ObserveStorageOperation("get", "products", 5*time.Millisecond, nil)
	m.ObserveStorageOperation("get", "products", 5*time.Millisecond, errors.New("boom"))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.StorageOperationsTotal.WithLabelValues("get", "products", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StorageOperationsTotal.WithLabelValues("get", "products", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StorageErrorsTotal.WithLabelValues("get", "products")))
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	m, _ := newTestMetrics(t)

	handler := HTTPMetricsMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/signup", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/signup", "201")))
}

func TestHTTPMetricsMiddlewareDefaultsToOK(t *testing.T) {
	m, _ := newTestMetrics(t)

	handler := HTTPMetricsMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/healthz", "200")))
}

func TestRegisterMetricsEndpoint(t *testing.T) {
	m, registry := newTestMetrics(t)
	m.TokensIssuedTotal.Inc()

	mux := http.NewServeMux()
	RegisterMetricsEndpoint(mux, registry)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "stockroom_tokens_issued_total 1")
}
