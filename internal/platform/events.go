package platform

import "time"

type Message struct {
	ID          string    `json:"id"`
	ChannelID   string    `json:"channel_id"`
	AuthorID    string    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	AuthorBot   bool      `json:"author_bot"`
	Content     string    `json:"content"`
	Attachments []string  `json:"attachments,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type MessageUpdate struct {
	ID         string    `json:"id"`
	ChannelID  string    `json:"channel_id"`
	AuthorID   string    `json:"author_id"`
	NewContent string    `json:"new_content"`
	Timestamp  time.Time `json:"timestamp"`
}

type MessageDelete struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
}

type MessageBulkDelete struct {
	ChannelID  string   `json:"channel_id"`
	MessageIDs []string `json:"message_ids"`
}

// MemberUpdate carries both role sets; the gateway collaborator resolves the
// previous state from its own cache before delivering the event. No actor is
// included, attribution goes through the audit trail.
type MemberUpdate struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	OldRoles []string `json:"old_roles"`
	NewRoles []string `json:"new_roles"`
}

type RoleUpdate struct {
	RoleID  string            `json:"role_id"`
	Name    string            `json:"name"`
	Changes map[string]string `json:"changes,omitempty"`
}

type ChannelUpdate struct {
	ChannelID string            `json:"channel_id"`
	Name      string            `json:"name"`
	Changes   map[string]string `json:"changes,omitempty"`
}

// EventHandler receives gateway events. All callbacks run on the client's
// event loop; handlers must not block indefinitely.
type EventHandler interface {
	HandleReady(now time.Time)
	HandleMessageCreate(msg Message)
	HandleMessageUpdate(ev MessageUpdate)
	HandleMessageDelete(ev MessageDelete)
	HandleMessageBulkDelete(ev MessageBulkDelete)
	HandleMemberUpdate(ev MemberUpdate)
	HandleRoleUpdate(ev RoleUpdate)
	HandleChannelUpdate(ev ChannelUpdate)
}
