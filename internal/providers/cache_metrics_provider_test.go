package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rpd/internal/structures"
)

type stubCache struct {
	data map[string][]byte
}

func newStubCache() *stubCache                     { return &stubCache{data: make(map[string][]byte)} }
func (s *stubCache) Get(key string) ([]byte, bool) { v, ok := s.data[key]; return v, ok }
func (s *stubCache) Set(key string, value []byte)  { s.data[key] = value }

func metricsCacheConfig(metricsOn, cacheOn bool) *structures.Config {
	return &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: metricsOn},
		Cache:   structures.CacheConfig{Enabled: cacheOn, Size: 1},
		Tracker: structures.TrackerConfig{SaveInterval: 5 * time.Second},
	}
}

func TestMetricsCache_CountsHitsAndMisses(t *testing.T) {
	inner := newStubCache()
	metrics := &mockMetrics{}
	c := wrapCacheWithMetrics(metricsCacheConfig(true, true), inner, metrics)

	_, ok := c.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, metrics.cacheMisses)

	c.Set("key", []byte("value"))
	val, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, []byte("value"), val)
	assert.Equal(t, 1, metrics.cacheHits)
}

func TestMetricsCache_PassthroughWhenMetricsDisabled(t *testing.T) {
	inner := newStubCache()
	c := wrapCacheWithMetrics(metricsCacheConfig(false, true), inner, &mockMetrics{})
	assert.Equal(t, CacheProviderInterface(inner), c)
}

func TestMetricsCache_PassthroughWhenCacheDisabled(t *testing.T) {
	inner := newStubCache()
	c := wrapCacheWithMetrics(metricsCacheConfig(true, false), inner, &mockMetrics{})
	assert.Equal(t, CacheProviderInterface(inner), c)
}

func TestNewMetricsCacheProvider_WrapsRealCache(t *testing.T) {
	metrics := &mockMetrics{}
	c := NewMetricsCacheProvider(metricsCacheConfig(true, true), &cacheTestLogger{}, metrics)

	assert.IsType(t, &MetricsCacheProvider{}, c)
	c.Set("k", []byte("v"))
	_, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 1, metrics.cacheHits)
}
