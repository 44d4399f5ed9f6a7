package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"warden/internal/models"
	"warden/internal/mutes"
	"warden/internal/platform"
	"warden/internal/providers"
)

const leaderboardSize = 10

func (d *Dispatcher) cmdRmute(ctx context.Context, inv *Invocation) {
	if !inv.Member.Can(platform.PermManageMessages) {
		d.reply(ctx, inv.Msg.ChannelID, "You are not allowed to mute members.")
		return
	}

	targets, rest := parseMentions(inv.Args)
	if len(targets) == 0 || len(rest) == 0 {
		d.reply(ctx, inv.Msg.ChannelID, "Usage: "+d.conf.Platform.CommandPrefix+"rmute <mentions> <duration> [reason]")
		return
	}

	duration := rest[0]
	reason := strings.Join(rest[1:], " ")

	muted, err := d.mutes.Apply(ctx, targets, duration, reason, inv.Msg.AuthorID)
	if errors.Is(err, mutes.ErrInvalidDuration) {
		d.reply(ctx, inv.Msg.ChannelID, "Invalid duration "+duration+", expected something like 90s, 5m, 2h or 1d.")
		return
	}
	d.reply(ctx, inv.Msg.ChannelID, fmt.Sprintf("Muted %d of %d member(s) for %s.", muted, len(targets), duration))
}

func (d *Dispatcher) cmdRunmute(ctx context.Context, inv *Invocation) {
	if !inv.Member.Can(platform.PermManageMessages) {
		d.reply(ctx, inv.Msg.ChannelID, "You are not allowed to unmute members.")
		return
	}

	targets, rest := parseMentions(inv.Args)
	if len(targets) != 1 || len(rest) == 0 {
		d.reply(ctx, inv.Msg.ChannelID, "Usage: "+d.conf.Platform.CommandPrefix+"runmute <mention> <duration> [reason]")
		return
	}
	if _, err := mutes.ParseDuration(rest[0]); err != nil {
		d.reply(ctx, inv.Msg.ChannelID, "Invalid duration "+rest[0]+", expected something like 90s, 5m, 2h or 1d.")
		return
	}

	if err := d.mutes.Unmute(ctx, targets[0], inv.Msg.AuthorID); err != nil {
		d.logger.Warnf(providers.TypeCmd, "runmute of %s failed: %s", targets[0], err)
		d.reply(ctx, inv.Msg.ChannelID, "Could not unmute that member.")
		return
	}
	d.reply(ctx, inv.Msg.ChannelID, "Unmuted <@"+targets[0]+">.")
}

func (d *Dispatcher) cmdRmlb(ctx context.Context, inv *Invocation) {
	usage := d.store.RmuteUsage()
	if len(usage) == 0 {
		d.reply(ctx, inv.Msg.ChannelID, "Nobody has used rmute yet.")
		return
	}

	type row struct {
		id    string
		count int64
	}
	rows := make([]row, 0, len(usage))
	for id, count := range usage {
		rows = append(rows, row{id: id, count: count})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].count > rows[j].count })

	var b strings.Builder
	for i, r := range rows {
		if i >= leaderboardSize {
			break
		}
		fmt.Fprintf(&b, "%d. <@%s> — %d mute(s)\n", i+1, r.id, r.count)
	}
	d.replyEmbed(ctx, inv.Msg.ChannelID, &platform.Embed{
		Title:       "rmute leaderboard",
		Description: b.String(),
		Timestamp:   d.clock.Now(),
	})
}

func (d *Dispatcher) cmdRcache(ctx context.Context, inv *Invocation) {
	if !inv.Member.HasAnyRole(d.conf.Platform.CacheViewerRoleIDs) {
		d.reply(ctx, inv.Msg.ChannelID, "You are not allowed to view the deletion cache.")
		return
	}

	entries := d.store.RecentLogs("deletion", leaderboardSize)
	if len(entries) == 0 {
		d.reply(ctx, inv.Msg.ChannelID, "The deletion cache is empty.")
		return
	}

	fields := make([]platform.EmbedField, 0, len(entries))
	for _, e := range entries {
		fields = append(fields, platform.EmbedField{
			Name:  fmt.Sprintf("<@%s> at %s", e.Target, e.Time.UTC().Format("2006-01-02 15:04:05")),
			Value: orEmptyNote(e.Detail),
		})
	}
	d.replyEmbed(ctx, inv.Msg.ChannelID, &platform.Embed{
		Title:     "Recent deletions",
		Fields:    fields,
		Timestamp: d.clock.Now(),
	})
}

func (d *Dispatcher) cmdTlb(ctx context.Context, inv *Invocation) {
	users := d.store.Users()
	type row struct {
		id    string
		total int64
	}
	rows := make([]row, 0, len(users))
	for id, rec := range users {
		rows = append(rows, row{id: id, total: rec.TotalOnline})
	}
	if len(rows) == 0 {
		d.reply(ctx, inv.Msg.ChannelID, "No online time recorded yet.")
		return
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].total > rows[j].total })

	var b strings.Builder
	for i, r := range rows {
		if i >= leaderboardSize {
			break
		}
		fmt.Fprintf(&b, "%d. <@%s> — %s\n", i+1, r.id, formatSeconds(r.total))
	}
	d.replyEmbed(ctx, inv.Msg.ChannelID, &platform.Embed{
		Title:       "Online time leaderboard",
		Description: b.String(),
		Timestamp:   d.clock.Now(),
	})
}

func (d *Dispatcher) cmdRhelp(ctx context.Context, inv *Invocation) {
	prefix := d.conf.Platform.CommandPrefix
	d.replyEmbed(ctx, inv.Msg.ChannelID, &platform.Embed{
		Title: "Commands",
		Fields: []platform.EmbedField{
			{Name: prefix + "rmute <mentions> <duration> [reason]", Value: "Mute members for a time (90s, 5m, 2h, 1d)"},
			{Name: prefix + "runmute <mention> <duration> [reason]", Value: "Lift a mute early"},
			{Name: prefix + "rmlb", Value: "Mute usage leaderboard"},
			{Name: prefix + "rcache", Value: "Recent deleted messages (restricted)"},
			{Name: prefix + "tlb", Value: "Online time leaderboard"},
			{Name: prefix + "timetrack [user] / " + prefix + "tt", Value: "Online time for a member"},
			{Name: prefix + "rping", Value: "Toggle being mentioned in presence notices"},
			{Name: prefix + "rpurge <count>", Value: "Bulk delete recent messages (restricted)"},
			{Name: prefix + "rdump", Value: "Dump the tracking document (restricted)"},
		},
		Timestamp: d.clock.Now(),
	})
}

func (d *Dispatcher) cmdTimetrack(ctx context.Context, inv *Invocation) {
	target := inv.Msg.AuthorID
	if ids, rest := parseMentions(inv.Args); len(ids) > 0 {
		target = ids[0]
	} else if len(rest) > 0 {
		target = rest[0]
	}

	rec, ok := d.store.User(target)
	if !ok {
		d.reply(ctx, inv.Msg.ChannelID, "No presence record for <@"+target+"> yet.")
		return
	}

	now := d.clock.Now()
	d.replyEmbed(ctx, inv.Msg.ChannelID, &platform.Embed{
		Title: "Time tracking",
		Fields: []platform.EmbedField{
			{Name: "Member", Value: "<@" + target + ">", Inline: true},
			{Name: "Status", Value: string(rec.Status), Inline: true},
			{Name: "Total", Value: formatSeconds(rec.TotalOnline), Inline: true},
			{Name: "Today", Value: formatSeconds(rec.Daily[models.DayKey(now)]), Inline: true},
			{Name: "This week", Value: formatSeconds(rec.Weekly[models.WeekKey(now)]), Inline: true},
			{Name: "This month", Value: formatSeconds(rec.Monthly[models.MonthKey(now)]), Inline: true},
			{Name: "Daily average", Value: formatSeconds(int64(rec.AverageOnline)), Inline: true},
		},
		Timestamp: now,
	})
}

func (d *Dispatcher) cmdRping(ctx context.Context, inv *Invocation) {
	if d.store.TogglePing(inv.Msg.AuthorID) {
		d.reply(ctx, inv.Msg.ChannelID, "You will no longer be mentioned in presence notices.")
		return
	}
	d.reply(ctx, inv.Msg.ChannelID, "You will be mentioned in presence notices again.")
}

func (d *Dispatcher) cmdRpurge(ctx context.Context, inv *Invocation) {
	if !inv.Member.Can(platform.PermManageMessages) {
		d.reply(ctx, inv.Msg.ChannelID, "You are not allowed to purge messages.")
		return
	}

	count := 0
	if len(inv.Args) > 0 {
		count = cast.ToInt(inv.Args[0])
	}
	if count < 1 || count > 100 {
		d.reply(ctx, inv.Msg.ChannelID, "Usage: "+d.conf.Platform.CommandPrefix+"rpurge <1-100>")
		return
	}

	if err := d.client.PurgeMessages(ctx, inv.Msg.ChannelID, count); err != nil {
		d.logger.Warnf(providers.TypeCmd, "purge in %s failed: %s", inv.Msg.ChannelID, err)
		d.reply(ctx, inv.Msg.ChannelID, "Purge failed.")
		return
	}
	d.store.AppendLog("purge", inv.Msg.AuthorID, inv.Msg.ChannelID, cast.ToString(count), d.clock.Now())
}

// cmdRdump writes the full document to a temp file, ships it as an
// attachment, and removes the local copy regardless of outcome.
func (d *Dispatcher) cmdRdump(ctx context.Context, inv *Invocation) {
	if !inv.Member.Can(platform.PermAdministrator) {
		d.reply(ctx, inv.Msg.ChannelID, "You are not allowed to dump the document.")
		return
	}

	data, err := json.MarshalIndent(d.store.Snapshot(), "", "  ")
	if err != nil {
		d.reply(ctx, inv.Msg.ChannelID, "Dump failed.")
		return
	}

	tmp, err := os.CreateTemp("", "warden-dump-*.json")
	if err != nil {
		d.reply(ctx, inv.Msg.ChannelID, "Dump failed.")
		return
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		d.reply(ctx, inv.Msg.ChannelID, "Dump failed.")
		return
	}
	tmp.Close()

	name := fmt.Sprintf("warden-%s.json", d.clock.Now().UTC().Format("20060102-150405"))
	if err := d.client.SendFile(ctx, inv.Msg.ChannelID, name, bytes.NewReader(data)); err != nil {
		d.logger.Warnf(providers.TypeCmd, "dump upload failed: %s", err)
		d.reply(ctx, inv.Msg.ChannelID, "Dump upload failed.")
	}
}

func formatSeconds(seconds int64) string {
	return (time.Duration(seconds) * time.Second).String()
}

func orEmptyNote(s string) string {
	if s == "" {
		return "(no content)"
	}
	return s
}
