package providers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"warden/internal/models"
	"warden/internal/structures"
)

// local mock logger to avoid import cycle with testutil
type cacheTestLogger struct{}

func (l *cacheTestLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) {}
func (l *cacheTestLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (l *cacheTestLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (l *cacheTestLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (l *cacheTestLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (l *cacheTestLogger) Close()                                        {}

func cacheConfig(enabled bool) *structures.Config {
	return &structures.Config{
		Cache: structures.CacheConfig{
			Enabled: enabled,
			Size:    1,
			Window:  5 * time.Minute,
		},
	}
}

func TestNewMessageCache_Disabled(t *testing.T) {
	cache := NewMessageCache(cacheConfig(false), &cacheTestLogger{})

	assert.IsType(t, &noopMessageCache{}, cache)

	cache.Put(models.CachedMessage{ID: "m1", Content: "hello"})
	_, ok := cache.Get("m1")
	assert.False(t, ok)
}

func TestNewMessageCache_ZeroSize(t *testing.T) {
	conf := cacheConfig(true)
	conf.Cache.Size = 0

	cache := NewMessageCache(conf, &cacheTestLogger{})
	assert.IsType(t, &noopMessageCache{}, cache)
}

func TestMessageCache_PutGet(t *testing.T) {
	cache := NewMessageCache(cacheConfig(true), &cacheTestLogger{})

	cache.Put(models.CachedMessage{
		ID:         "m1",
		ChannelID:  "c1",
		AuthorID:   "u1",
		AuthorName: "alice",
		Content:    "hello world",
	})

	got, ok := cache.Get("m1")
	assert.True(t, ok)
	assert.Equal(t, "c1", got.ChannelID)
	assert.Equal(t, "u1", got.AuthorID)
	assert.Equal(t, "hello world", got.Content)
}

func TestMessageCache_GetMissing(t *testing.T) {
	cache := NewMessageCache(cacheConfig(true), &cacheTestLogger{})

	_, ok := cache.Get("nope")
	assert.False(t, ok)
}

func TestMessageCache_PutOverwrites(t *testing.T) {
	cache := NewMessageCache(cacheConfig(true), &cacheTestLogger{})

	cache.Put(models.CachedMessage{ID: "m1", Content: "before"})
	cache.Put(models.CachedMessage{ID: "m1", Content: "after"})

	got, ok := cache.Get("m1")
	assert.True(t, ok)
	assert.Equal(t, "after", got.Content)
}

func TestMessageCache_TruncatesLongContent(t *testing.T) {
	cache := NewMessageCache(cacheConfig(true), &cacheTestLogger{})

	long := strings.Repeat("x", models.MaxCachedContent+100)
	cache.Put(models.CachedMessage{ID: "m1", Content: long})

	got, ok := cache.Get("m1")
	assert.True(t, ok)
	assert.Len(t, got.Content, models.MaxCachedContent)
}

func TestMessageCache_MinimumTTL(t *testing.T) {
	conf := cacheConfig(true)
	conf.Cache.Window = time.Second

	cache := NewMessageCache(conf, &cacheTestLogger{})

	mc, ok := cache.(*MessageCache)
	assert.True(t, ok)
	assert.Equal(t, 60, mc.ttl)
}

func TestUnsafeStringToBytes(t *testing.T) {
	assert.Nil(t, unsafeStringToBytes(""))
	assert.Equal(t, []byte("abc"), unsafeStringToBytes("abc"))
}
