package audit

import (
	"context"

	"warden/internal/clock"
	"warden/internal/notify"
	"warden/internal/platform"
	"warden/internal/providers"
	"warden/internal/store"
	"warden/internal/structures"
)

// Reconciler replays audit entries missed while the process was down and
// posts a notice for each. A failed scan of one action kind is logged and
// skipped, never retried within the same sweep; that window's notices are
// lost, which the design accepts.
type Reconciler struct {
	client   platform.Client
	store    *store.Store
	notifier *notify.Notifier
	logger   providers.Logger
	conf     *structures.Config
	clock    clock.Clock
}

func NewReconciler(client platform.Client, st *store.Store, notifier *notify.Notifier, logger providers.Logger, conf *structures.Config, clk clock.Clock) *Reconciler {
	return &Reconciler{
		client:   client,
		store:    st,
		notifier: notifier,
		logger:   logger,
		conf:     conf,
		clock:    clk,
	}
}

// ReconcileSince walks every monitored action kind newest-first and stops at
// the first entry older than the boundary (the trail is time-ordered). The
// checkpoint always advances to "now" at the end, even when individual scans
// errored.
func (r *Reconciler) ReconcileSince(ctx context.Context) {
	now := r.clock.Now()
	boundary := r.store.Checkpoint()
	if lookbackFloor := now.Add(-r.conf.Audit.Lookback); boundary.Before(lookbackFloor) {
		boundary = lookbackFloor
	}

	missed := 0
	for _, action := range platform.MonitoredAuditActions {
		entries, err := r.client.AuditLog(ctx, action, r.conf.Audit.SearchLimit)
		if err != nil {
			r.logger.Warnf(providers.TypeApp, "reconciliation scan for %s failed, skipping: %s", action, err)
			continue
		}
		for _, entry := range entries {
			if !entry.CreatedAt.After(boundary) {
				break
			}
			r.notifier.MissedEvent(ctx, entry)
			missed++
		}
	}

	r.store.SetCheckpoint(now)
	r.logger.Infof(providers.TypeApp, "reconciliation sweep complete: %d missed events since %s", missed, boundary.Format("2006-01-02 15:04:05"))
}
