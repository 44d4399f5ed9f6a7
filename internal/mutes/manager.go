// Package mutes manages the timed mute lifecycle: apply, scheduled expiry,
// externally-observed removal, and recovery of persisted records at startup.
package mutes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"warden/internal/clock"
	"warden/internal/models"
	"warden/internal/notify"
	"warden/internal/platform"
	"warden/internal/providers"
	"warden/internal/store"
	"warden/internal/structures"
)

type Manager struct {
	client   platform.Client
	store    *store.Store
	notifier *notify.Notifier
	logger   providers.Logger
	conf     *structures.Config
	clock    clock.Clock

	mu     sync.Mutex
	timers map[string]clock.Timer // mute record id -> pending expiry timer
}

func NewManager(client platform.Client, st *store.Store, notifier *notify.Notifier, logger providers.Logger, conf *structures.Config, clk clock.Clock) *Manager {
	return &Manager{
		client:   client,
		store:    st,
		notifier: notifier,
		logger:   logger,
		conf:     conf,
		clock:    clk,
		timers:   make(map[string]clock.Timer),
	}
}

// Apply mutes every target for the parsed duration. An invalid duration
// aborts before any mutation; per-target failures are logged and the batch
// continues.
func (m *Manager) Apply(ctx context.Context, targets []string, durationToken, reason, moderator string) (int, error) {
	seconds, err := ParseDuration(durationToken)
	if err != nil {
		return 0, err
	}

	muted := 0
	for _, target := range targets {
		if err := m.muteOne(ctx, target, seconds, reason, moderator); err != nil {
			m.logger.Warnf(providers.TypeCmd, "mute of %s skipped: %s", target, err)
			continue
		}
		muted++
	}
	return muted, nil
}

func (m *Manager) muteOne(ctx context.Context, target string, seconds int64, reason, moderator string) error {
	if err := m.client.AddRole(ctx, target, m.conf.Platform.MuteRoleID); err != nil {
		return fmt.Errorf("add mute role: %w", err)
	}

	// Re-muting replaces the active record; the old expiry must not fire.
	if prev, ok := m.store.ActiveMute(target); ok {
		m.cancelTimer(prev.ID)
	}

	now := m.clock.Now()
	rec := models.NewMuteRecord(target, moderator, reason, seconds, now)
	m.store.AddMute(rec)
	m.store.IncRmuteUsage(moderator)

	// DMs disabled or closed is not an error worth surfacing.
	dm := fmt.Sprintf("You were muted for %s", time.Duration(seconds)*time.Second)
	if reason != "" {
		dm += ": " + reason
	}
	if err := m.client.SendDM(ctx, target, dm); err != nil {
		m.logger.Debugf(providers.TypeCmd, "mute DM to %s dropped: %s", target, err)
	}

	targetName := "<@" + target + ">"
	if member, err := m.client.Member(ctx, target); err == nil {
		targetName = member.DisplayName()
	}
	m.notifier.MuteApplied(ctx, rec, targetName)
	m.store.AppendLog("mute", moderator, target, reason, now)

	m.schedule(rec, time.Duration(seconds)*time.Second)
	return nil
}

func (m *Manager) schedule(rec *models.MuteRecord, in time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := rec.ID
	user := rec.User
	m.timers[id] = m.clock.AfterFunc(in, func() {
		m.expire(id, user)
	})
}

// expire is the scheduled path. The store's take-by-id check makes sure only
// one removal path wins; if the external path already cleared the record this
// is a no-op.
func (m *Manager) expire(muteID, userID string) {
	m.mu.Lock()
	delete(m.timers, muteID)
	m.mu.Unlock()

	rec, ok := m.store.TakeMute(userID, muteID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	member, err := m.client.Member(ctx, userID)
	switch {
	case errors.Is(err, platform.ErrNotFound):
		// Member left; the record is already cleared, nothing to remove.
	case err != nil:
		m.logger.Warnf(providers.TypeEvent, "expiry lookup for %s failed: %s", userID, err)
	case member.HasRole(m.conf.Platform.MuteRoleID):
		if err := m.client.RemoveRole(ctx, userID, m.conf.Platform.MuteRoleID); err != nil {
			m.logger.Errorf(providers.TypeEvent, "failed to remove mute role from %s: %s", userID, err)
		}
	}

	now := m.clock.Now()
	m.notifier.AutoUnmuted(ctx, rec, now)
	m.store.AppendLog("auto_unmute", "", userID, rec.Reason, now)
}

// ExternalRoleRemoved handles a mute role that disappeared through any path
// other than the expiry timer. actorLabel carries the audit-resolved actor.
func (m *Manager) ExternalRoleRemoved(ctx context.Context, userID, actorLabel string) {
	rec, ok := m.store.TakeMuteByUser(userID)
	if !ok {
		return
	}
	m.cancelTimer(rec.ID)

	now := m.clock.Now()
	m.notifier.Unmuted(ctx, rec, actorLabel, now)
	m.store.AppendLog("unmute", actorLabel, userID, rec.Reason, now)
}

// Unmute is the explicit command path: remove the role, then clear the record
// through the external-removal flow with a known moderator.
func (m *Manager) Unmute(ctx context.Context, userID, moderator string) error {
	if err := m.client.RemoveRole(ctx, userID, m.conf.Platform.MuteRoleID); err != nil && !errors.Is(err, platform.ErrNotFound) {
		return err
	}
	m.ExternalRoleRemoved(ctx, userID, "<@"+moderator+">")
	return nil
}

// Recover re-arms persisted mutes after a restart. Past-due records are
// resolved immediately, future ones get a timer for the remainder.
func (m *Manager) Recover(ctx context.Context) {
	now := m.clock.Now()
	rearmed, resolved := 0, 0
	for _, rec := range m.store.Mutes() {
		remaining := rec.Unmute.Sub(now)
		if remaining <= 0 {
			m.expire(rec.ID, rec.User)
			resolved++
			continue
		}
		m.schedule(rec, remaining)
		rearmed++
	}
	if rearmed+resolved > 0 {
		m.logger.Infof(providers.TypeApp, "mute recovery: %d re-armed, %d resolved past-due", rearmed, resolved)
	}
}

// Stop cancels all pending expiry timers; records stay persisted for the
// next recovery pass.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, timer := range m.timers {
		timer.Stop()
		delete(m.timers, id)
	}
}

func (m *Manager) cancelTimer(muteID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if timer, ok := m.timers[muteID]; ok {
		timer.Stop()
		delete(m.timers, muteID)
	}
}
