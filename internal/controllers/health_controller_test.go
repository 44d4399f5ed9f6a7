package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warden/internal/models"
	"warden/internal/platform"
	"warden/internal/store"
	"warden/internal/testutil"
)

type staticReadiness bool

func (r staticReadiness) Ready() bool { return bool(r) }

func TestHealth_ReturnsOK(t *testing.T) {
	st := store.NewStore(nil, &testutil.MockLogger{})
	st.MutateUser("u1", func(*models.UserRecord) {})
	st.AddMute(models.NewMuteRecord("u1", "mod", "", 60, time.Unix(1000, 0)))
	hc := NewHealthController(st, staticReadiness(true))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "connected", resp["gateway"])
	assert.Contains(t, resp, "uptime")
	assert.Contains(t, resp, "uptime_seconds")
	assert.Equal(t, float64(1), resp["tracked_users"])
	assert.Equal(t, float64(1), resp["active_mutes"])
}

func TestHealth_GatewayDisconnected(t *testing.T) {
	st := store.NewStore(nil, &testutil.MockLogger{})
	hc := NewHealthController(st, staticReadiness(false))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "disconnected", resp["gateway"])
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	st := store.NewStore(nil, &testutil.MockLogger{})
	hc := NewHealthController(st, staticReadiness(true))

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

// noReady hides the fake's Ready method behind the bare client interface.
type noReady struct{ platform.Client }

func TestNewReadinessSource(t *testing.T) {
	fake := testutil.NewFakeClient()
	src := NewReadinessSource(fake)
	assert.False(t, src.Ready())
	require.NoError(t, fake.Open(context.Background()))
	assert.True(t, src.Ready())

	// A client without a Ready method counts as always ready.
	assert.True(t, NewReadinessSource(noReady{fake}).Ready())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"zero", 0, "0h0m0s"},
		{"one minute", 60 * time.Second, "0h1m0s"},
		{"one hour", time.Hour, "1h0m0s"},
		{"mixed", time.Hour + time.Minute + time.Second, "1h1m1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatDuration(tt.duration))
		})
	}
}
