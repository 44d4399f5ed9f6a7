package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"warden/internal/structures"
)

type staticStats struct {
	users int
	mutes int
}

func (s *staticStats) TrackedUsers() int { return s.users }
func (s *staticStats) ActiveMutes() int  { return s.mutes }

func TestNewMetricsProvider_Disabled(t *testing.T) {
	conf := &structures.Config{}

	m := NewMetricsProvider(conf, &staticStats{})
	assert.IsType(t, &noopMetrics{}, m)

	// no-op implementation must not panic
	m.IncRequestsTotal("/leaderboard", 200)
	m.ObserveRequestDuration("/leaderboard", time.Millisecond)
	m.IncEventsTotal("message_create")
	m.IncCommandsTotal("rmute")
	m.IncPresenceTransitions("online")
	m.IncAuditLookups("hit")
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(time.Millisecond)
}

// Registers against the default prometheus registry, so the enabled
// constructor runs exactly once per test binary.
func TestNewMetricsProvider_Enabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}

	m := NewMetricsProvider(conf, &staticStats{users: 3, mutes: 1})
	assert.IsType(t, &MetricsProvider{}, m)

	m.IncRequestsTotal("/user", 404)
	m.ObserveRequestDuration("/user", 2*time.Millisecond)
	m.IncEventsTotal("message_delete")
	m.IncCommandsTotal("tlb")
	m.IncPresenceTransitions("offline")
	m.IncAuditLookups("miss")
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(5 * time.Millisecond)
}

func TestHttpStatusBucket(t *testing.T) {
	cases := map[int]string{
		100: "1xx",
		200: "2xx",
		204: "2xx",
		301: "3xx",
		404: "4xx",
		500: "5xx",
		503: "5xx",
	}
	for code, want := range cases {
		assert.Equal(t, want, httpStatusBucket(code), "status %d", code)
	}
}
