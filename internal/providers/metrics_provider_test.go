package providers

import (
	"testing"
	"time"
	"votekiosk/internal/models"
	"votekiosk/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimal store for the residency gauge
type metricsTestStore struct {
	session *models.VoterSession
}

func (s *metricsTestStore) Write(session *models.VoterSession) error {
	s.session = session
	return nil
}
func (s *metricsTestStore) Read() (*models.VoterSession, bool) { return s.session, s.session != nil }
func (s *metricsTestStore) Clear() error {
	s.session = nil
	return nil
}

func useTestRegistry(t *testing.T) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	})
	return reg
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf, &metricsTestStore{})
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	m.IncRequestsTotal("/session", 200)
	m.ObserveRequestDuration("/session", time.Millisecond)
	m.IncCacheHits("image")
	m.IncCacheMisses("parties")
	m.IncCacheEvictions("image")
	m.IncVerifications("success")
	m.IncVotes("rejected")
	m.IncTransitions("Idle", "Capturing")
	m.IncDisplayFailures()
	m.ObserveBackendDuration("/vote", time.Millisecond)
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	useTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestStore{})
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_Counters(t *testing.T) {
	useTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestStore{}).(*MetricsProvider)

	m.IncVerifications("success")
	m.IncVerifications("rejected")
	m.IncVerifications("rejected")
	m.IncVotes("success")
	m.IncTransitions("Submitting", "Voted")
	m.IncDisplayFailures()
	m.IncRequestsTotal("/ballot", 409)
	m.ObserveBackendDuration("/verify", 20*time.Millisecond)
	m.IncCacheHits("image")
	m.IncCacheMisses("image")
	m.IncCacheMisses("image")
	m.IncCacheEvictions("image")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.verifications.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.votes.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("Submitting", "Voted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.displayFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/ballot", "4xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("image", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("image", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheEvictions.WithLabelValues("image")))
}

func TestMetricsProvider_SessionResidentGauge(t *testing.T) {
	reg := useTestRegistry(t)

	store := &metricsTestStore{}
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	NewMetricsProvider(conf, store)

	gaugeValue := func() float64 {
		families, err := reg.Gather()
		require.NoError(t, err)
		for _, f := range families {
			if f.GetName() == "kiosk_session_resident" {
				return f.GetMetric()[0].GetGauge().GetValue()
			}
		}
		t.Fatal("kiosk_session_resident not registered")
		return -1
	}

	assert.Equal(t, 0.0, gaugeValue())
	require.NoError(t, store.Write(&models.VoterSession{UniqueID: "V123", ECID: "EC45"}))
	assert.Equal(t, 1.0, gaugeValue())
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{409, "4xx"},
		{500, "5xx"},
		{502, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
