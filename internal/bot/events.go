// Package bot translates gateway events into the moderation engine:
// message snapshot caching, edit/delete reporting, role-change attribution,
// and command dispatch.
package bot

import (
	"context"
	"time"

	"warden/internal/audit"
	"warden/internal/clock"
	"warden/internal/commands"
	"warden/internal/models"
	"warden/internal/mutes"
	"warden/internal/notify"
	"warden/internal/platform"
	"warden/internal/providers"
	"warden/internal/store"
	"warden/internal/structures"
)

const handlerTimeout = 30 * time.Second

type Bot struct {
	client     platform.Client
	store      *store.Store
	cache      providers.MessageCacheInterface
	dispatcher *commands.Dispatcher
	mutes      *mutes.Manager
	resolver   *audit.Resolver
	notifier   *notify.Notifier
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	conf       *structures.Config
	clock      clock.Clock
}

func NewBot(client platform.Client, st *store.Store, cache providers.MessageCacheInterface, dispatcher *commands.Dispatcher, muteMgr *mutes.Manager, resolver *audit.Resolver, notifier *notify.Notifier, logger providers.Logger, metrics providers.MetricsProviderInterface, conf *structures.Config, clk clock.Clock) *Bot {
	return &Bot{
		client:     client,
		store:      st,
		cache:      cache,
		dispatcher: dispatcher,
		mutes:      muteMgr,
		resolver:   resolver,
		notifier:   notifier,
		logger:     logger,
		metrics:    metrics,
		conf:       conf,
		clock:      clk,
	}
}

func handlerContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), handlerTimeout)
}

func (b *Bot) HandleReady(now time.Time) {
	b.logger.Infof(providers.TypeEvent, "gateway ready at %s", now.UTC().Format(time.RFC3339))
}

func (b *Bot) HandleMessageCreate(msg platform.Message) {
	b.metrics.IncEventsTotal("message_create")
	ctx, cancel := handlerContext()
	defer cancel()

	if !msg.AuthorBot {
		b.cache.Put(models.CachedMessage{
			ID:          msg.ID,
			ChannelID:   msg.ChannelID,
			AuthorID:    msg.AuthorID,
			AuthorName:  msg.AuthorName,
			Content:     msg.Content,
			Attachments: msg.Attachments,
			Timestamp:   msg.Timestamp,
		})
		b.store.MutateUser(msg.AuthorID, func(rec *models.UserRecord) {
			rec.LastMessage = msg.Timestamp
		})
	}

	b.dispatcher.Dispatch(ctx, msg)
}

func (b *Bot) HandleMessageUpdate(ev platform.MessageUpdate) {
	b.metrics.IncEventsTotal("message_update")
	ctx, cancel := handlerContext()
	defer cancel()

	cached, ok := b.cache.Get(ev.ID)
	authorID := ev.AuthorID
	if ok && authorID == "" {
		authorID = cached.AuthorID
	}
	if authorID != "" {
		b.store.MutateUser(authorID, func(rec *models.UserRecord) {
			rec.LastEdit = ev.Timestamp
		})
	}

	if ok {
		b.notifier.MessageEdited(ctx, cached, ev.NewContent, ev.Timestamp)
		// Keep the snapshot current so a later delete reports the final text.
		cached.Content = ev.NewContent
		b.cache.Put(cached)
	}
}

func (b *Bot) HandleMessageDelete(ev platform.MessageDelete) {
	b.metrics.IncEventsTotal("message_delete")
	ctx, cancel := handlerContext()
	defer cancel()

	now := b.clock.Now()
	cached, ok := b.cache.Get(ev.ID)
	if !ok {
		b.notifier.UnknownMessageDeleted(ctx, ev, now)
		return
	}

	b.store.MutateUser(cached.AuthorID, func(rec *models.UserRecord) {
		rec.LastDelete = now
	})
	b.store.AppendLog("deletion", "", cached.AuthorID, cached.Content, now)
	b.notifier.MessageDeleted(ctx, cached, now)
}

func (b *Bot) HandleMessageBulkDelete(ev platform.MessageBulkDelete) {
	b.metrics.IncEventsTotal("message_bulk_delete")
	ctx, cancel := handlerContext()
	defer cancel()

	attribution := b.resolver.ResolveActor(ctx, ev.ChannelID, platform.AuditMessageBulkDelete, b.conf.Audit.SearchLimit)
	now := b.clock.Now()
	for _, id := range ev.MessageIDs {
		if cached, ok := b.cache.Get(id); ok {
			b.store.AppendLog("deletion", attribution.ActorID, cached.AuthorID, cached.Content, now)
		}
	}
	b.notifier.BulkDelete(ctx, ev.ChannelID, len(ev.MessageIDs), attribution.Label(), now)
}

func (b *Bot) HandleMemberUpdate(ev platform.MemberUpdate) {
	b.metrics.IncEventsTotal("member_update")
	ctx, cancel := handlerContext()
	defer cancel()

	added := diffRoles(ev.NewRoles, ev.OldRoles)
	removed := diffRoles(ev.OldRoles, ev.NewRoles)
	if len(added) == 0 && len(removed) == 0 {
		return
	}

	attribution := b.resolver.ResolveActor(ctx, ev.UserID, platform.AuditMemberRoleUpdate, b.conf.Audit.SearchLimit)

	for _, roleID := range removed {
		if roleID == b.conf.Platform.MuteRoleID {
			b.mutes.ExternalRoleRemoved(ctx, ev.UserID, attribution.Label())
		}
	}

	b.notifier.RolesChanged(ctx, ev.UserID, b.roleNames(ctx, added), b.roleNames(ctx, removed), attribution.Label(), b.clock.Now())
}

func (b *Bot) HandleRoleUpdate(ev platform.RoleUpdate) {
	b.metrics.IncEventsTotal("role_update")
	ctx, cancel := handlerContext()
	defer cancel()

	attribution := b.resolver.ResolveActor(ctx, ev.RoleID, platform.AuditRoleUpdate, b.conf.Audit.SearchLimit)
	b.notifier.RoleUpdated(ctx, ev, attribution.Label(), b.clock.Now())
}

func (b *Bot) HandleChannelUpdate(ev platform.ChannelUpdate) {
	b.metrics.IncEventsTotal("channel_update")
	ctx, cancel := handlerContext()
	defer cancel()

	attribution := b.resolver.ResolveActor(ctx, ev.ChannelID, platform.AuditChannelUpdate, b.conf.Audit.SearchLimit)
	b.notifier.ChannelUpdated(ctx, ev, attribution.Label(), b.clock.Now())
}

func (b *Bot) roleNames(ctx context.Context, roleIDs []string) []string {
	names := make([]string, 0, len(roleIDs))
	for _, id := range roleIDs {
		if role, err := b.client.Role(ctx, id); err == nil {
			names = append(names, role.Name)
			continue
		}
		names = append(names, id)
	}
	return names
}

// diffRoles returns the elements of a that are missing from b.
func diffRoles(a, b []string) []string {
	seen := make(map[string]struct{}, len(b))
	for _, id := range b {
		seen[id] = struct{}{}
	}
	var out []string
	for _, id := range a {
		if _, ok := seen[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
