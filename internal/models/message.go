package models

import (
	"time"
	"unicode/utf8"
)

// MaxCachedContent truncates message bodies before they go into the snapshot
// cache, so a single oversized message cannot crowd out the ring buffer.
const MaxCachedContent = 400

// CachedMessage is the snapshot stored when a message is first seen, consulted
// later when the platform reports an edit or deletion (those events carry no
// content of their own).
type CachedMessage struct {
	ID          string    `json:"id"`
	ChannelID   string    `json:"channel_id"`
	AuthorID    string    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	Content     string    `json:"content"`
	Attachments []string  `json:"attachments,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func (c *CachedMessage) Truncated() CachedMessage {
	cp := *c
	cp.Content = TruncateContent(cp.Content, MaxCachedContent)
	return cp
}

// TruncateContent cuts s to at most max bytes, backing off to a rune boundary
// so a split multi-byte sequence never reaches an embed.
func TruncateContent(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
