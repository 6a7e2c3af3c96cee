package providers

import "rpd/internal/structures"

// MetricsCacheProvider wraps a CacheProviderInterface and increments
// hit/miss counters on every Get call.
type MetricsCacheProvider struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *MetricsCacheProvider) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		c.metrics.IncCacheHits()
	} else {
		c.metrics.IncCacheMisses()
	}
	return val, ok
}

func (c *MetricsCacheProvider) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

func NewMetricsCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	return wrapCacheWithMetrics(conf, inner, metrics)
}

func wrapCacheWithMetrics(conf *structures.Config, inner CacheProviderInterface, metrics MetricsProviderInterface) CacheProviderInterface {
	if !conf.Metrics.Enabled || !conf.Cache.Enabled {
		return inner
	}
	return &MetricsCacheProvider{inner: inner, metrics: metrics}
}
