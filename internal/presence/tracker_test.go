package presence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warden/internal/models"
	"warden/internal/notify"
	"warden/internal/platform"
	"warden/internal/store"
	"warden/internal/structures"
	"warden/internal/testutil"
)

func testConfig() *structures.Config {
	return &structures.Config{
		Platform: structures.PlatformConfig{
			LogChannelID:   "log-channel",
			TrackedRoleIDs: []string{"tracked"},
		},
		Presence: structures.PresenceConfig{
			PollInterval: 5 * time.Second,
			OfflineDelay: 30 * time.Second,
		},
	}
}

type trackerFixture struct {
	tracker *Tracker
	client  *testutil.FakeClient
	store   *store.Store
	clock   *testutil.FakeClock
	metrics *testutil.MockMetrics
}

func newFixture(t *testing.T) *trackerFixture {
	t.Helper()
	conf := testConfig()
	logger := &testutil.MockLogger{}
	client := testutil.NewFakeClient()
	st := store.NewStore(nil, logger)
	clk := testutil.NewFakeClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	metrics := &testutil.MockMetrics{}
	notifier := notify.NewNotifier(client, conf, logger)
	return &trackerFixture{
		tracker: NewTracker(client, st, notifier, logger, metrics, conf, clk),
		client:  client,
		store:   st,
		clock:   clk,
		metrics: metrics,
	}
}

// tick advances simulated time by one poll interval and runs the poll.
func (f *trackerFixture) tick() {
	f.clock.Advance(5 * time.Second)
	f.tracker.Tick(context.Background())
}

func trackedMember(id string) *platform.Member {
	return &platform.Member{ID: id, Username: id, Roles: []string{"tracked"}}
}

func TestTracker_OnlineFlipIsImmediateAndUncredited(t *testing.T) {
	f := newFixture(t)
	f.client.AddMember(trackedMember("u1"), platform.StatusOnline)

	f.tick()

	rec, ok := f.store.User("u1")
	require.True(t, ok)
	assert.Equal(t, models.StateOnline, rec.Status)
	assert.Zero(t, rec.TotalOnline)
	assert.Equal(t, 1, f.metrics.Transitions["online"])
	require.Len(t, f.client.Sent, 1)
	assert.Equal(t, "Member online", f.client.Sent[0].Embed.Title)
}

func TestTracker_OnlineTickCredits(t *testing.T) {
	f := newFixture(t)
	f.client.AddMember(trackedMember("u1"), platform.StatusOnline)

	f.tick() // flip, no credit
	f.tick()
	f.tick()

	rec, _ := f.store.User("u1")
	assert.Equal(t, int64(10), rec.TotalOnline)
	assert.Equal(t, int64(10), rec.Daily[models.DayKey(f.clock.Now())])
}

func TestTracker_OfflineDebounce(t *testing.T) {
	f := newFixture(t)
	f.client.AddMember(trackedMember("u1"), platform.StatusOnline)
	f.tick()

	f.client.Presences["u1"] = platform.StatusOffline
	for i := 0; i < 5; i++ { // 25s accumulated, below the 30s delay
		f.tick()
		rec, _ := f.store.User("u1")
		require.Equal(t, models.StateOnline, rec.Status, "tick %d", i)
	}

	f.tick() // 30s reached
	rec, _ := f.store.User("u1")
	assert.Equal(t, models.StateOffline, rec.Status)
	assert.Zero(t, rec.OfflineTimer)
	assert.Equal(t, 1, f.metrics.Transitions["offline"])
}

func TestTracker_BlipResetsDebounce(t *testing.T) {
	f := newFixture(t)
	f.client.AddMember(trackedMember("u1"), platform.StatusOnline)
	f.tick()

	f.client.Presences["u1"] = platform.StatusOffline
	f.tick()
	f.tick()

	// Back online before the delay elapses: the timer resets, no offline
	// notice is ever sent.
	f.client.Presences["u1"] = platform.StatusOnline
	f.tick()

	rec, _ := f.store.User("u1")
	assert.Equal(t, models.StateOnline, rec.Status)
	assert.Zero(t, rec.OfflineTimer)
	assert.Equal(t, 0, f.metrics.Transitions["offline"])
}

func TestTracker_IdleAndDndCountAsOnline(t *testing.T) {
	f := newFixture(t)
	f.client.AddMember(trackedMember("u1"), platform.StatusIdle)
	f.tick()
	f.client.Presences["u1"] = platform.StatusBusy
	f.tick()

	rec, _ := f.store.User("u1")
	assert.Equal(t, models.StateOnline, rec.Status)
	assert.Equal(t, int64(5), rec.TotalOnline)
}

func TestTracker_SkipsBotsAndUntracked(t *testing.T) {
	f := newFixture(t)
	f.client.AddMember(&platform.Member{ID: "bot", Bot: true, Roles: []string{"tracked"}}, platform.StatusOnline)
	f.client.AddMember(&platform.Member{ID: "untracked", Roles: []string{"other"}}, platform.StatusOnline)

	f.tick()

	assert.Zero(t, f.store.TrackedUsers())
}

func TestTracker_PresenceLookupFailureSkipsMember(t *testing.T) {
	f := newFixture(t)
	f.client.AddMember(trackedMember("u1"), platform.StatusOnline)
	f.client.AddMember(trackedMember("u2"), platform.StatusOnline)
	f.client.PresenceErr["u1"] = platform.ErrRateLimited

	f.tick()

	_, ok := f.store.User("u1")
	assert.False(t, ok)
	rec, ok := f.store.User("u2")
	require.True(t, ok)
	assert.Equal(t, models.StateOnline, rec.Status)
}

func TestTracker_PingOptOutUsesPlainName(t *testing.T) {
	f := newFixture(t)
	f.client.AddMember(trackedMember("u1"), platform.StatusOnline)
	f.store.TogglePing("u1")

	f.tick()

	require.Len(t, f.client.Sent, 1)
	assert.NotContains(t, f.client.Sent[0].Embed.Description, "<@u1>")
	assert.Contains(t, f.client.Sent[0].Embed.Description, "u1")
}

func TestTracker_NotifyOffSuppressesOnlineNotice(t *testing.T) {
	f := newFixture(t)
	f.client.AddMember(trackedMember("u1"), platform.StatusOnline)
	f.store.MutateUser("u1", func(rec *models.UserRecord) {
		rec.Notify = false
	})

	f.tick()

	rec, _ := f.store.User("u1")
	assert.Equal(t, models.StateOnline, rec.Status)
	assert.Empty(t, f.client.Sent)
	assert.Equal(t, 1, f.metrics.Transitions["online"])
}

// Twelve crediting ticks at five-second polls put exactly one minute on the
// books; the flip tick itself never counts.
func TestTracker_MinuteOfOnlineTime(t *testing.T) {
	f := newFixture(t)
	f.client.AddMember(trackedMember("u1"), platform.StatusOnline)

	f.tick()
	for i := 0; i < 12; i++ {
		f.tick()
	}

	rec, _ := f.store.User("u1")
	assert.Equal(t, int64(60), rec.TotalOnline)
}

func TestTracker_OfflineNoticeReportsSessionLength(t *testing.T) {
	f := newFixture(t)
	f.client.AddMember(trackedMember("u1"), platform.StatusOnline)
	f.tick()
	f.tick()

	f.client.Presences["u1"] = platform.StatusOffline
	for i := 0; i < 6; i++ {
		f.tick()
	}

	last := f.client.LastSent()
	require.NotNil(t, last)
	assert.Equal(t, "Member offline", last.Embed.Title)
	assert.Contains(t, last.Embed.Description, "went offline")
}

func TestTracker_Maintenance_Prunes(t *testing.T) {
	f := newFixture(t)
	f.store.MutateUser("u1", func(rec *models.UserRecord) {
		rec.Daily[models.DayKey(f.clock.Now().Add(-200*24*time.Hour))] = 100
		rec.Daily[models.DayKey(f.clock.Now())] = 50
	})

	f.tracker.Maintenance()

	rec, _ := f.store.User("u1")
	assert.Len(t, rec.Daily, 1)
}

func TestTracker_MemberListFailureIsNonFatal(t *testing.T) {
	f := newFixture(t)
	f.client.MemberErr = platform.ErrRateLimited

	f.tracker.Tick(context.Background())

	assert.Zero(t, f.store.TrackedUsers())
}
