package providers

import (
	"unsafe"

	"github.com/coocood/freecache"
	json "github.com/goccy/go-json"

	"warden/internal/models"
	"warden/internal/structures"
)

// MessageCacheInterface holds recently-seen message snapshots so that edit and
// delete events (which carry no content) can be reported with the original
// text and attachments.
type MessageCacheInterface interface {
	Put(msg models.CachedMessage)
	Get(messageID string) (models.CachedMessage, bool)
}

type MessageCache struct {
	cache *freecache.Cache
	ttl   int
}

func NewMessageCache(conf *structures.Config, logger Logger) MessageCacheInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Message cache disabled")
		return &noopMessageCache{}
	}

	sizeBytes := conf.Cache.Size * 1024 * 1024
	ttl := int(conf.Cache.Window.Seconds())
	if ttl < 60 {
		ttl = 60
	}

	logger.Infof(TypeApp, "Message cache initialized: %dMB, TTL=%ds", conf.Cache.Size, ttl)

	return &MessageCache{
		cache: freecache.NewCache(sizeBytes),
		ttl:   ttl,
	}
}

// unsafeStringToBytes converts string to []byte without allocation.
// Safe when the result is only read (not modified), which is the case
// for freecache — it copies keys internally.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *MessageCache) Put(msg models.CachedMessage) {
	snapshot := msg.Truncated()
	data, err := json.Marshal(&snapshot)
	if err != nil {
		return
	}
	_ = c.cache.Set(unsafeStringToBytes(msg.ID), data, c.ttl)
}

func (c *MessageCache) Get(messageID string) (models.CachedMessage, bool) {
	data, err := c.cache.Get(unsafeStringToBytes(messageID))
	if err != nil {
		return models.CachedMessage{}, false
	}
	var msg models.CachedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return models.CachedMessage{}, false
	}
	return msg, true
}

type noopMessageCache struct{}

func (n *noopMessageCache) Put(_ models.CachedMessage) {}
func (n *noopMessageCache) Get(_ string) (models.CachedMessage, bool) {
	return models.CachedMessage{}, false
}
