package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warden/internal/models"
	"warden/internal/platform"
	"warden/internal/structures"
	"warden/internal/testutil"
)

func testNotifier(t *testing.T) (*Notifier, *testutil.FakeClient) {
	t.Helper()
	client := testutil.NewFakeClient()
	conf := &structures.Config{
		Platform: structures.PlatformConfig{
			LogChannelID: "log-channel",
		},
		Presence: structures.PresenceConfig{
			Timezones: []string{"Europe/Berlin"},
		},
	}
	return NewNotifier(client, conf, &testutil.MockLogger{}), client
}

func lastEmbed(t *testing.T, client *testutil.FakeClient) *platform.Embed {
	t.Helper()
	require.NotEmpty(t, client.Sent)
	msg := client.Sent[len(client.Sent)-1]
	assert.Equal(t, "log-channel", msg.ChannelID)
	require.NotNil(t, msg.Embed)
	return msg.Embed
}

func TestTimestampLine(t *testing.T) {
	n, _ := testNotifier(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	line := n.timestampLine(now)

	assert.Contains(t, line, "UTC 12:00:00")
	// Berlin is UTC+2 in June
	assert.Contains(t, line, "Europe/Berlin 14:00:00")
}

func TestTimestampLine_BadZoneSkipped(t *testing.T) {
	n, _ := testNotifier(t)
	n.conf.Presence.Timezones = []string{"Nowhere/Land"}

	line := n.timestampLine(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "UTC 12:00:00", line)
}

func TestMemberOnline_MentionVsPlainName(t *testing.T) {
	n, client := testNotifier(t)
	member := &platform.Member{ID: "u1", Username: "alice"}

	n.MemberOnline(context.Background(), member, false, time.Now())
	assert.Contains(t, lastEmbed(t, client).Description, "<@u1>")

	n.MemberOnline(context.Background(), member, true, time.Now())
	embed := lastEmbed(t, client)
	assert.Contains(t, embed.Description, "alice")
	assert.NotContains(t, embed.Description, "<@u1>")
}

func TestMemberOffline_ReportsOnlineDuration(t *testing.T) {
	n, client := testNotifier(t)
	member := &platform.Member{ID: "u1", Username: "alice"}

	n.MemberOffline(context.Background(), member, 90*time.Second, time.Now())

	embed := lastEmbed(t, client)
	assert.Contains(t, embed.Description, "alice")
	assert.Contains(t, embed.Description, "1m30s")
}

func TestMuteApplied_EmptyReasonPlaceholder(t *testing.T) {
	n, client := testNotifier(t)
	rec := &models.MuteRecord{
		User:      "u1",
		Moderator: "mod",
		Duration:  300,
		Start:     time.Now(),
	}

	n.MuteApplied(context.Background(), rec, "alice")

	embed := lastEmbed(t, client)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "alice", embed.Fields[0].Value)
	assert.Equal(t, "<@mod>", embed.Fields[1].Value)
	assert.Equal(t, "5m0s", embed.Fields[2].Value)
	assert.Equal(t, "no reason given", embed.Fields[3].Value)
}

func TestUnmuted_QualifiesKnownActor(t *testing.T) {
	n, client := testNotifier(t)
	rec := &models.MuteRecord{User: "u1"}

	n.Unmuted(context.Background(), rec, "<@mod>", time.Now())
	assert.Contains(t, lastEmbed(t, client).Description, "likely by <@mod>")
}

func TestUnmuted_UnknownActorOmitsAttribution(t *testing.T) {
	n, client := testNotifier(t)
	rec := &models.MuteRecord{User: "u1"}

	n.Unmuted(context.Background(), rec, UnknownActor, time.Now())

	desc := lastEmbed(t, client).Description
	assert.Contains(t, desc, "<@u1> was unmuted")
	assert.NotContains(t, desc, "likely by")
}

func TestMessageDeleted_IncludesAttachments(t *testing.T) {
	n, client := testNotifier(t)

	n.MessageDeleted(context.Background(), models.CachedMessage{
		AuthorID:    "u1",
		ChannelID:   "c1",
		Content:     "",
		Attachments: []string{"https://cdn.example/a.png"},
	}, time.Now())

	embed := lastEmbed(t, client)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "(empty)", embed.Fields[2].Value)
	assert.Contains(t, embed.Fields[3].Value, "a.png")
}

func TestSend_DeliveryFailureSwallowed(t *testing.T) {
	n, client := testNotifier(t)
	client.SendErr = assert.AnError

	n.MemberOffline(context.Background(), &platform.Member{ID: "u1"}, time.Minute, time.Now())
	// no panic, nothing delivered
	assert.Empty(t, client.Sent)
}
