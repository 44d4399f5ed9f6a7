package providers

import (
	"warden/internal/models"
	"warden/internal/structures"
)

// MetricsMessageCache wraps a MessageCacheInterface and counts hits and
// misses on every lookup.
type MetricsMessageCache struct {
	inner   MessageCacheInterface
	metrics MetricsProviderInterface
}

func (c *MetricsMessageCache) Put(msg models.CachedMessage) {
	c.inner.Put(msg)
}

func (c *MetricsMessageCache) Get(messageID string) (models.CachedMessage, bool) {
	msg, ok := c.inner.Get(messageID)
	if ok {
		c.metrics.IncCacheHits()
	} else {
		c.metrics.IncCacheMisses()
	}
	return msg, ok
}

// NewInstrumentedMessageCache wraps the message cache with hit/miss counters.
// A disabled cache stays unwrapped so phantom misses are not counted.
func NewInstrumentedMessageCache(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) MessageCacheInterface {
	inner := NewMessageCache(conf, logger)
	if !conf.Cache.Enabled {
		return inner
	}
	return &MetricsMessageCache{
		inner:   inner,
		metrics: metrics,
	}
}
