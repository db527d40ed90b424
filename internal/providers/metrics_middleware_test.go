package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"votekiosk/internal/structures"

	"github.com/stretchr/testify/assert"
)

type mockMetrics struct {
	requestEndpoint string
	requestStatus   int
	requestCalls    int
	durationCalls   int
}

func (m *mockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestEndpoint = endpoint
	m.requestStatus = status
	m.requestCalls++
}
func (m *mockMetrics) ObserveRequestDuration(_ string, _ time.Duration) { m.durationCalls++ }
func (m *mockMetrics) IncCacheHits(_ string)                            {}
func (m *mockMetrics) IncCacheMisses(_ string)                          {}
func (m *mockMetrics) IncCacheEvictions(_ string)                       {}
func (m *mockMetrics) IncVerifications(_ string)                        {}
func (m *mockMetrics) IncVotes(_ string)                                {}
func (m *mockMetrics) IncTransitions(_, _ string)                       {}
func (m *mockMetrics) IncDisplayFailures()                              {}
func (m *mockMetrics) ObserveBackendDuration(_ string, _ time.Duration) {}

type levelCountingLogger struct {
	cacheTestLogger
	warnings int
	debugs   int
}

func (l *levelCountingLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  { l.warnings++ }
func (l *levelCountingLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) { l.debugs++ }

var kioskRoutes = []structures.Route{{Url: "/ballot"}, {Url: "/session"}}

func TestMetricsMiddleware_CapturesStatusAndEndpoint(t *testing.T) {
	metrics := &mockMetrics{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	serve(MetricsMiddleware(metrics, &cacheTestLogger{}, kioskRoutes, handler), http.MethodGet, "/ballot")

	assert.Equal(t, 1, metrics.requestCalls)
	assert.Equal(t, "/ballot", metrics.requestEndpoint)
	assert.Equal(t, http.StatusConflict, metrics.requestStatus)
	assert.Equal(t, 1, metrics.durationCalls)
}

func TestMetricsMiddleware_DefaultStatus200(t *testing.T) {
	metrics := &mockMetrics{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	rr := serve(MetricsMiddleware(metrics, &cacheTestLogger{}, kioskRoutes, handler), http.MethodGet, "/session")

	assert.Equal(t, http.StatusOK, metrics.requestStatus)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestMetricsMiddleware_UnknownPathIsUnmatched(t *testing.T) {
	metrics := &mockMetrics{}

	serve(MetricsMiddleware(metrics, &cacheTestLogger{}, kioskRoutes, http.NotFoundHandler()), http.MethodGet, "/wp-login.php")

	assert.Equal(t, unmatchedEndpoint, metrics.requestEndpoint)
	assert.Equal(t, http.StatusNotFound, metrics.requestStatus)
}

func TestMetricsMiddleware_ServerErrorsLogAsWarnings(t *testing.T) {
	logger := &levelCountingLogger{}
	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	serve(MetricsMiddleware(&mockMetrics{}, logger, kioskRoutes, failing), http.MethodPost, "/ballot")
	serve(MetricsMiddleware(&mockMetrics{}, logger, kioskRoutes, ok), http.MethodGet, "/session")

	assert.Equal(t, 1, logger.warnings)
	assert.Equal(t, 1, logger.debugs)
}

func TestResponseRecorder_TracksStatusAndBytes(t *testing.T) {
	rr := httptest.NewRecorder()
	rec := &responseRecorder{ResponseWriter: rr, status: http.StatusOK}

	rec.WriteHeader(http.StatusNotFound)
	_, _ = rec.Write([]byte("missing"))

	assert.Equal(t, http.StatusNotFound, rec.status)
	assert.Equal(t, 7, rec.bytes)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, rr, rec.Unwrap())
}
