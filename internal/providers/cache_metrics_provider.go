package providers

import (
	"strings"
	"votekiosk/internal/structures"
)

// InstrumentedCache counts lookups and evictions per entry kind. The kind is
// the key prefix before the first ':' ("image:<session>" is an image), or the
// whole key for singletons such as "parties".
type InstrumentedCache struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
	logger  Logger
}

func (c *InstrumentedCache) Get(key string) ([]byte, bool) {
	kind := cacheKind(key)
	val, ok := c.inner.Get(key)
	if !ok {
		c.metrics.IncCacheMisses(kind)
		return nil, false
	}
	c.metrics.IncCacheHits(kind)
	return val, true
}

func (c *InstrumentedCache) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

// Del drops an entry ahead of its TTL, e.g. the photo of a voter who has left.
func (c *InstrumentedCache) Del(key string) {
	c.inner.Del(key)
	c.metrics.IncCacheEvictions(cacheKind(key))
	c.logger.Debugf(TypeApp, "Evicted cache entry %s", key)
}

func cacheKind(key string) string {
	if kind, _, found := strings.Cut(key, ":"); found {
		return kind
	}
	return key
}

// NewInstrumentedCacheProvider builds the kiosk cache. A disabled cache is
// returned bare so it does not report misses for lookups it never served.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if !conf.Cache.Enabled {
		return inner
	}
	return &InstrumentedCache{
		inner:   inner,
		metrics: metrics,
		logger:  logger,
	}
}
