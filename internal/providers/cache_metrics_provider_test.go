package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type cacheMetricsTestMetrics struct {
	hits      map[string]int
	misses    map[string]int
	evictions map[string]int
}

func newCacheMetricsTestMetrics() *cacheMetricsTestMetrics {
	return &cacheMetricsTestMetrics{
		hits:      map[string]int{},
		misses:    map[string]int{},
		evictions: map[string]int{},
	}
}

func (m *cacheMetricsTestMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *cacheMetricsTestMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *cacheMetricsTestMetrics) IncCacheHits(kind string)                         { m.hits[kind]++ }
func (m *cacheMetricsTestMetrics) IncCacheMisses(kind string)                       { m.misses[kind]++ }
func (m *cacheMetricsTestMetrics) IncCacheEvictions(kind string)                    { m.evictions[kind]++ }
func (m *cacheMetricsTestMetrics) IncVerifications(_ string)                        {}
func (m *cacheMetricsTestMetrics) IncVotes(_ string)                                {}
func (m *cacheMetricsTestMetrics) IncTransitions(_, _ string)                       {}
func (m *cacheMetricsTestMetrics) IncDisplayFailures()                              {}
func (m *cacheMetricsTestMetrics) ObserveBackendDuration(_ string, _ time.Duration) {}

type cacheMetricsTestInner struct {
	data map[string][]byte
}

func (c *cacheMetricsTestInner) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}
func (c *cacheMetricsTestInner) Set(key string, value []byte) {
	c.data[key] = value
}
func (c *cacheMetricsTestInner) Del(key string) {
	delete(c.data, key)
}

func newTestInstrumentedCache(data map[string][]byte) (*InstrumentedCache, *cacheMetricsTestInner, *cacheMetricsTestMetrics) {
	inner := &cacheMetricsTestInner{data: data}
	metrics := newCacheMetricsTestMetrics()
	return &InstrumentedCache{inner: inner, metrics: metrics, logger: &cacheTestLogger{}}, inner, metrics
}

func TestInstrumentedCache_CountsByKind(t *testing.T) {
	cache, _, metrics := newTestInstrumentedCache(map[string][]byte{"image:s1": []byte("jpeg")})

	val, ok := cache.Get("image:s1")
	assert.True(t, ok)
	assert.Equal(t, []byte("jpeg"), val)

	_, ok = cache.Get("image:s2")
	assert.False(t, ok)
	_, ok = cache.Get("parties")
	assert.False(t, ok)

	assert.Equal(t, map[string]int{"image": 1}, metrics.hits)
	assert.Equal(t, map[string]int{"image": 1, "parties": 1}, metrics.misses)
}

func TestInstrumentedCache_DelEvictsAndCounts(t *testing.T) {
	cache, inner, metrics := newTestInstrumentedCache(map[string][]byte{})

	cache.Set("image:s1", []byte("jpeg"))
	_, ok := inner.Get("image:s1")
	assert.True(t, ok)

	cache.Del("image:s1")
	_, ok = inner.Get("image:s1")
	assert.False(t, ok)
	assert.Equal(t, 1, metrics.evictions["image"])
}

func TestCacheKind(t *testing.T) {
	assert.Equal(t, "image", cacheKind("image:0b5c"))
	assert.Equal(t, "parties", cacheKind("parties"))
	assert.Equal(t, "", cacheKind(":odd"))
}

func TestNewInstrumentedCacheProvider_DisabledIsNotWrapped(t *testing.T) {
	conf := cacheConfig(false, 1, time.Minute)
	c := NewInstrumentedCacheProvider(conf, &cacheTestLogger{}, newCacheMetricsTestMetrics())
	assert.IsType(t, &noopCache{}, c)
}

func TestNewInstrumentedCacheProvider_EnabledIsWrapped(t *testing.T) {
	conf := cacheConfig(true, 1, time.Minute)
	c := NewInstrumentedCacheProvider(conf, &cacheTestLogger{}, newCacheMetricsTestMetrics())
	assert.IsType(t, &InstrumentedCache{}, c)
}
