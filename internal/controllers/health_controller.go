package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"warden/internal/platform"
	"warden/internal/store"
)

// ReadinessSource reports whether the gateway event stream is connected.
type ReadinessSource interface {
	Ready() bool
}

type HealthController struct {
	store     *store.Store
	readiness ReadinessSource
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Gateway       string  `json:"gateway"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	TrackedUsers  int     `json:"tracked_users"`
	ActiveMutes   int     `json:"active_mutes"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	gateway := "connected"
	if !hc.readiness.Ready() {
		gateway = "disconnected"
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Gateway:       gateway,
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		TrackedUsers:  hc.store.TrackedUsers(),
		ActiveMutes:   hc.store.ActiveMutes(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(st *store.Store, readiness ReadinessSource) *HealthController {
	return &HealthController{
		store:     st,
		readiness: readiness,
		startTime: time.Now(),
	}
}

// NewReadinessSource derives readiness from the platform client when it can
// report it; other client implementations count as always ready.
func NewReadinessSource(client platform.Client) ReadinessSource {
	if src, ok := client.(ReadinessSource); ok {
		return src
	}
	return alwaysReady{}
}

type alwaysReady struct{}

func (alwaysReady) Ready() bool { return true }
