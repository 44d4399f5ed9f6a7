package platform

import (
	"context"
	"io"
)

// Client is the boundary to the chat platform for a single guild. The REST
// half covers every outbound call the bot makes; Subscribe/Open/Close cover
// the inbound event stream.
type Client interface {
	// Messaging.
	SendMessage(ctx context.Context, channelID, content string) error
	SendEmbed(ctx context.Context, channelID string, embed *Embed) error
	SendFile(ctx context.Context, channelID, name string, r io.Reader) error
	SendDM(ctx context.Context, userID, content string) error
	PurgeMessages(ctx context.Context, channelID string, count int) error

	// Guild state.
	Member(ctx context.Context, userID string) (*Member, error)
	Members(ctx context.Context) ([]*Member, error)
	Role(ctx context.Context, roleID string) (*Role, error)
	Channel(ctx context.Context, channelID string) (*Channel, error)
	Presence(ctx context.Context, userID string) (PresenceStatus, error)

	// Role mutation.
	AddRole(ctx context.Context, userID, roleID string) error
	RemoveRole(ctx context.Context, userID, roleID string) error

	// Audit trail, newest first, at most limit entries.
	AuditLog(ctx context.Context, action AuditAction, limit int) ([]AuditEntry, error)

	// Event stream.
	Subscribe(h EventHandler)
	Open(ctx context.Context) error
	Close() error
}
