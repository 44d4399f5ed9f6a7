// Package presence implements the poll-driven online/offline state machine
// with debounced offline transitions and online-time accounting.
package presence

import (
	"context"
	"time"

	"warden/internal/clock"
	"warden/internal/models"
	"warden/internal/notify"
	"warden/internal/platform"
	"warden/internal/providers"
	"warden/internal/store"
	"warden/internal/structures"
)

type Tracker struct {
	client   platform.Client
	store    *store.Store
	notifier *notify.Notifier
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	conf     *structures.Config
	clock    clock.Clock
}

func NewTracker(client platform.Client, st *store.Store, notifier *notify.Notifier, logger providers.Logger, metrics providers.MetricsProviderInterface, conf *structures.Config, clk clock.Clock) *Tracker {
	return &Tracker{
		client:   client,
		store:    st,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
		conf:     conf,
		clock:    clk,
	}
}

// Tick re-evaluates every tracked member's live presence. Members who gained
// or lost a tracked role since the last poll are picked up or dropped here
// with no explicit transition event.
func (t *Tracker) Tick(ctx context.Context) {
	members, err := t.client.Members(ctx)
	if err != nil {
		t.logger.Warnf(providers.TypeEvent, "presence poll: member list failed: %s", err)
		return
	}

	now := t.clock.Now()
	for _, member := range members {
		if member.Bot || !member.HasAnyRole(t.conf.Platform.TrackedRoleIDs) {
			continue
		}

		status, err := t.client.Presence(ctx, member.ID)
		if err != nil {
			t.logger.Debugf(providers.TypeEvent, "presence lookup for %s failed: %s", member.ID, err)
			continue
		}
		t.observe(ctx, member, status != platform.StatusOffline, now)
	}
}

func (t *Tracker) observe(ctx context.Context, member *platform.Member, online bool, now time.Time) {
	interval := int64(t.conf.Presence.PollInterval.Seconds())
	delay := int64(t.conf.Presence.OfflineDelay.Seconds())

	var (
		wentOnline   bool
		wentOffline  bool
		shouldNotify bool
		onlineFor    time.Duration
	)

	t.store.MutateUser(member.ID, func(rec *models.UserRecord) {
		switch {
		case rec.Status == models.StateOffline && online:
			// Immediate flip; the tick that flips does not credit time.
			rec.Status = models.StateOnline
			rec.OnlineSince = now
			rec.OfflineTimer = 0
			wentOnline = true
			shouldNotify = rec.Notify

		case rec.Status == models.StateOnline && online:
			rec.OfflineTimer = 0
			rec.Credit(now, interval)

		case rec.Status == models.StateOnline && !online:
			rec.OfflineTimer += interval
			if rec.OfflineTimer >= delay {
				rec.Status = models.StateOffline
				rec.OfflineSince = now
				rec.OfflineTimer = 0
				onlineFor = now.Sub(rec.OnlineSince)
				wentOffline = true
			}
		}
	})

	if wentOnline {
		t.metrics.IncPresenceTransitions("online")
		if shouldNotify {
			t.notifier.MemberOnline(ctx, member, t.store.PingDisabled(member.ID), now)
		}
	}
	if wentOffline {
		t.metrics.IncPresenceTransitions("offline")
		t.notifier.MemberOffline(ctx, member, onlineFor, now)
	}
}

// Maintenance prunes daily accounting entries older than the retention
// window across all users. Runs once a day from the scheduler.
func (t *Tracker) Maintenance() {
	now := t.clock.Now()
	pruned := 0
	t.store.MutateAllUsers(func(_ string, rec *models.UserRecord) {
		pruned += rec.PruneDaily(now)
	})
	if pruned > 0 {
		t.logger.Infof(providers.TypeApp, "maintenance: pruned %d stale daily entries", pruned)
	}
}
