package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warden/internal/notify"
	"warden/internal/platform"
	"warden/internal/store"
	"warden/internal/structures"
	"warden/internal/testutil"
)

func reconcilerFixture(t *testing.T) (*Reconciler, *testutil.FakeClient, *store.Store, *testutil.FakeClock) {
	t.Helper()
	conf := &structures.Config{
		Platform: structures.PlatformConfig{LogChannelID: "log-channel"},
		Audit: structures.AuditConfig{
			Lookback:    24 * time.Hour,
			SearchLimit: 50,
		},
	}
	logger := &testutil.MockLogger{}
	client := testutil.NewFakeClient()
	st := store.NewStore(nil, logger)
	clk := testutil.NewFakeClock(time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	notifier := notify.NewNotifier(client, conf, logger)
	return NewReconciler(client, st, notifier, logger, conf, clk), client, st, clk
}

func TestReconciler_ReportsEntriesAfterCheckpoint(t *testing.T) {
	r, client, st, clk := reconcilerFixture(t)
	checkpoint := clk.Now().Add(-2 * time.Hour)
	st.SetCheckpoint(checkpoint)

	client.AuditByKind[platform.AuditMemberRoleUpdate] = []platform.AuditEntry{
		{ID: "3", TargetID: "u1", CreatedAt: clk.Now().Add(-time.Hour)},
		{ID: "2", TargetID: "u2", CreatedAt: clk.Now().Add(-90 * time.Minute)},
		{ID: "1", TargetID: "u3", CreatedAt: clk.Now().Add(-3 * time.Hour)}, // before checkpoint
	}

	r.ReconcileSince(context.Background())

	assert.Len(t, client.Sent, 2)
	assert.Equal(t, clk.Now(), st.Checkpoint())
}

func TestReconciler_StopsAtFirstOldEntry(t *testing.T) {
	r, client, st, clk := reconcilerFixture(t)
	st.SetCheckpoint(clk.Now().Add(-time.Hour))

	// Newest-first ordering: once an old entry is seen the rest of the list
	// is never inspected, even if a later element looked new.
	client.AuditByKind[platform.AuditRoleUpdate] = []platform.AuditEntry{
		{ID: "3", CreatedAt: clk.Now().Add(-30 * time.Minute)},
		{ID: "2", CreatedAt: clk.Now().Add(-2 * time.Hour)},
		{ID: "1", CreatedAt: clk.Now().Add(-10 * time.Minute)},
	}

	r.ReconcileSince(context.Background())

	assert.Len(t, client.Sent, 1)
}

func TestReconciler_LookbackCapsZeroCheckpoint(t *testing.T) {
	r, client, st, clk := reconcilerFixture(t)
	// Fresh document: zero checkpoint, boundary falls back to now-lookback.

	client.AuditByKind[platform.AuditChannelUpdate] = []platform.AuditEntry{
		{ID: "2", CreatedAt: clk.Now().Add(-time.Hour)},
		{ID: "1", CreatedAt: clk.Now().Add(-48 * time.Hour)},
	}

	r.ReconcileSince(context.Background())

	assert.Len(t, client.Sent, 1)
	assert.Equal(t, clk.Now(), st.Checkpoint())
}

func TestReconciler_ScanFailureStillAdvancesCheckpoint(t *testing.T) {
	r, client, st, clk := reconcilerFixture(t)
	st.SetCheckpoint(clk.Now().Add(-time.Hour))
	client.AuditErr = platform.ErrRateLimited

	r.ReconcileSince(context.Background())

	assert.Empty(t, client.Sent)
	assert.Equal(t, clk.Now(), st.Checkpoint())
}

func TestReconciler_CoversEveryMonitoredAction(t *testing.T) {
	r, client, st, clk := reconcilerFixture(t)
	st.SetCheckpoint(clk.Now().Add(-time.Hour))

	for _, action := range platform.MonitoredAuditActions {
		client.AuditByKind[action] = []platform.AuditEntry{
			{ID: string(action), Action: action, CreatedAt: clk.Now().Add(-10 * time.Minute)},
		}
	}

	r.ReconcileSince(context.Background())

	require.Len(t, client.Sent, len(platform.MonitoredAuditActions))
}
