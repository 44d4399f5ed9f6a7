// Package notify renders log-channel notifications. Every send is
// best-effort: delivery failures are logged and swallowed, never surfaced to
// the operation that triggered the notice.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"warden/internal/models"
	"warden/internal/platform"
	"warden/internal/providers"
	"warden/internal/structures"
)

const (
	colorGreen  = 0x2ecc71
	colorRed    = 0xe74c3c
	colorOrange = 0xe67e22
	colorBlue   = 0x3498db
	colorGrey   = 0x95a5a6
)

// UnknownActor is the label used when audit attribution came up empty.
const UnknownActor = "unknown"

type Notifier struct {
	client platform.Client
	conf   *structures.Config
	logger providers.Logger
}

func NewNotifier(client platform.Client, conf *structures.Config, logger providers.Logger) *Notifier {
	return &Notifier{client: client, conf: conf, logger: logger}
}

func (n *Notifier) send(ctx context.Context, embed *platform.Embed) {
	if err := n.client.SendEmbed(ctx, n.conf.Platform.LogChannelID, embed); err != nil {
		n.logger.Warnf(providers.TypeEvent, "notification dropped: %s", err)
	}
}

// timestampLine renders "now" in UTC plus every configured display zone.
func (n *Notifier) timestampLine(now time.Time) string {
	parts := []string{"UTC " + now.UTC().Format("15:04:05")}
	for _, name := range n.conf.Presence.Timezones {
		loc, err := time.LoadLocation(name)
		if err != nil {
			continue
		}
		parts = append(parts, name+" "+now.In(loc).Format("15:04:05"))
	}
	return strings.Join(parts, " | ")
}

func mention(userID string) string { return "<@" + userID + ">" }

// MemberOnline announces an offline-to-online flip. The member's own ping
// opt-out decides between a mention and a plain name.
func (n *Notifier) MemberOnline(ctx context.Context, member *platform.Member, pingOptOut bool, now time.Time) {
	who := mention(member.ID)
	if pingOptOut {
		who = member.DisplayName()
	}
	n.send(ctx, &platform.Embed{
		Title:       "Member online",
		Description: who + " is now online",
		Color:       colorGreen,
		Footer:      n.timestampLine(now),
		Timestamp:   now,
	})
}

func (n *Notifier) MemberOffline(ctx context.Context, member *platform.Member, onlineFor time.Duration, now time.Time) {
	n.send(ctx, &platform.Embed{
		Title:       "Member offline",
		Description: fmt.Sprintf("%s went offline after %s online", member.DisplayName(), onlineFor.Round(time.Second)),
		Color:       colorGrey,
		Footer:      n.timestampLine(now),
		Timestamp:   now,
	})
}

func (n *Notifier) MuteApplied(ctx context.Context, rec *models.MuteRecord, targetName string) {
	reason := rec.Reason
	if reason == "" {
		reason = "no reason given"
	}
	n.send(ctx, &platform.Embed{
		Title: "Member muted",
		Color: colorRed,
		Fields: []platform.EmbedField{
			{Name: "Member", Value: targetName, Inline: true},
			{Name: "Moderator", Value: mention(rec.Moderator), Inline: true},
			{Name: "Duration", Value: (time.Duration(rec.Duration) * time.Second).String(), Inline: true},
			{Name: "Reason", Value: reason},
		},
		Timestamp: rec.Start,
	})
}

func (n *Notifier) AutoUnmuted(ctx context.Context, rec *models.MuteRecord, now time.Time) {
	n.send(ctx, &platform.Embed{
		Title:       "Member auto-unmuted",
		Description: fmt.Sprintf("%s mute expired after %s", mention(rec.User), (time.Duration(rec.Duration) * time.Second)),
		Color:       colorGreen,
		Timestamp:   now,
	})
}

// Unmuted reports a mute ended by any path other than scheduled expiry.
// actorLabel is the audit-resolved actor; attribution is best-effort, so the
// label is qualified as "likely".
func (n *Notifier) Unmuted(ctx context.Context, rec *models.MuteRecord, actorLabel string, now time.Time) {
	desc := fmt.Sprintf("%s was unmuted", mention(rec.User))
	if actorLabel != UnknownActor && actorLabel != "" {
		desc += ", likely by " + actorLabel
	}
	n.send(ctx, &platform.Embed{
		Title:       "Member unmuted",
		Description: desc,
		Color:       colorGreen,
		Timestamp:   now,
	})
}

func (n *Notifier) MessageEdited(ctx context.Context, cached models.CachedMessage, newContent string, now time.Time) {
	n.send(ctx, &platform.Embed{
		Title: "Message edited",
		Color: colorBlue,
		Fields: []platform.EmbedField{
			{Name: "Author", Value: mention(cached.AuthorID), Inline: true},
			{Name: "Channel", Value: "<#" + cached.ChannelID + ">", Inline: true},
			{Name: "Before", Value: orPlaceholder(cached.Content)},
			{Name: "After", Value: orPlaceholder(models.TruncateContent(newContent, models.MaxCachedContent))},
		},
		Timestamp: now,
	})
}

func (n *Notifier) MessageDeleted(ctx context.Context, cached models.CachedMessage, now time.Time) {
	fields := []platform.EmbedField{
		{Name: "Author", Value: mention(cached.AuthorID), Inline: true},
		{Name: "Channel", Value: "<#" + cached.ChannelID + ">", Inline: true},
		{Name: "Content", Value: orPlaceholder(cached.Content)},
	}
	if len(cached.Attachments) > 0 {
		fields = append(fields, platform.EmbedField{Name: "Attachments", Value: strings.Join(cached.Attachments, "\n")})
	}
	n.send(ctx, &platform.Embed{
		Title:     "Message deleted",
		Color:     colorOrange,
		Fields:    fields,
		Timestamp: now,
	})
}

func (n *Notifier) UnknownMessageDeleted(ctx context.Context, ev platform.MessageDelete, now time.Time) {
	n.send(ctx, &platform.Embed{
		Title:       "Message deleted",
		Description: fmt.Sprintf("uncached message %s removed in <#%s>", ev.ID, ev.ChannelID),
		Color:       colorOrange,
		Timestamp:   now,
	})
}

func (n *Notifier) BulkDelete(ctx context.Context, channelID string, count int, actorLabel string, now time.Time) {
	n.send(ctx, &platform.Embed{
		Title:       "Bulk message delete",
		Description: fmt.Sprintf("%d messages removed in <#%s>, likely by %s", count, channelID, actorLabel),
		Color:       colorRed,
		Timestamp:   now,
	})
}

func (n *Notifier) RolesChanged(ctx context.Context, userID string, added, removed []string, actorLabel string, now time.Time) {
	fields := []platform.EmbedField{
		{Name: "Member", Value: mention(userID), Inline: true},
		{Name: "Likely by", Value: actorLabel, Inline: true},
	}
	if len(added) > 0 {
		fields = append(fields, platform.EmbedField{Name: "Added", Value: strings.Join(added, ", ")})
	}
	if len(removed) > 0 {
		fields = append(fields, platform.EmbedField{Name: "Removed", Value: strings.Join(removed, ", ")})
	}
	n.send(ctx, &platform.Embed{
		Title:     "Member roles changed",
		Color:     colorBlue,
		Fields:    fields,
		Timestamp: now,
	})
}

func (n *Notifier) RoleUpdated(ctx context.Context, ev platform.RoleUpdate, actorLabel string, now time.Time) {
	n.send(ctx, &platform.Embed{
		Title:       "Role updated",
		Description: fmt.Sprintf("role %s changed, likely by %s", ev.Name, actorLabel),
		Fields:      changeFields(ev.Changes),
		Color:       colorBlue,
		Timestamp:   now,
	})
}

func (n *Notifier) ChannelUpdated(ctx context.Context, ev platform.ChannelUpdate, actorLabel string, now time.Time) {
	n.send(ctx, &platform.Embed{
		Title:       "Channel updated",
		Description: fmt.Sprintf("channel %s changed, likely by %s", ev.Name, actorLabel),
		Fields:      changeFields(ev.Changes),
		Color:       colorBlue,
		Timestamp:   now,
	})
}

// MissedEvent summarizes an audit entry found by the reconciliation sweep.
func (n *Notifier) MissedEvent(ctx context.Context, entry platform.AuditEntry) {
	n.send(ctx, &platform.Embed{
		Title: "Missed event",
		Description: fmt.Sprintf("%s on %s by %s while offline",
			entry.Action, entry.TargetID, mention(entry.ActorID)),
		Fields:    changeFields(entry.Changes),
		Color:     colorOrange,
		Timestamp: entry.CreatedAt,
	})
}

func changeFields(changes map[string]string) []platform.EmbedField {
	if len(changes) == 0 {
		return nil
	}
	fields := make([]platform.EmbedField, 0, len(changes))
	for k, v := range changes {
		fields = append(fields, platform.EmbedField{Name: k, Value: v, Inline: true})
	}
	return fields
}

func orPlaceholder(s string) string {
	if s == "" {
		return "(empty)"
	}
	return s
}
