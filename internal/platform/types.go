package platform

import "time"

type PresenceStatus string

const (
	StatusOnline  PresenceStatus = "online"
	StatusIdle    PresenceStatus = "idle"
	StatusBusy    PresenceStatus = "dnd"
	StatusOffline PresenceStatus = "offline"
)

// Member permission bits, as reported by the platform.
const (
	PermManageMessages int64 = 1 << 13
	PermAdministrator  int64 = 1 << 3
)

type Member struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Nick        string `json:"nick,omitempty"`
	Bot         bool   `json:"bot"`
	Roles       []string
	Permissions int64 `json:"permissions"`
}

func (m *Member) DisplayName() string {
	if m.Nick != "" {
		return m.Nick
	}
	return m.Username
}

func (m *Member) HasRole(roleID string) bool {
	for _, r := range m.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}

func (m *Member) HasAnyRole(roleIDs []string) bool {
	for _, r := range roleIDs {
		if m.HasRole(r) {
			return true
		}
	}
	return false
}

func (m *Member) Can(perm int64) bool {
	return m.Permissions&PermAdministrator != 0 || m.Permissions&perm != 0
}

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      string       `json:"footer,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

type AuditAction string

const (
	AuditMemberRoleUpdate  AuditAction = "member_role_update"
	AuditRoleUpdate        AuditAction = "role_update"
	AuditChannelUpdate     AuditAction = "channel_update"
	AuditMessageBulkDelete AuditAction = "message_bulk_delete"
)

// MonitoredAuditActions are the action kinds the reconciliation sweep and the
// attribution resolver care about.
var MonitoredAuditActions = []AuditAction{
	AuditMemberRoleUpdate,
	AuditRoleUpdate,
	AuditChannelUpdate,
	AuditMessageBulkDelete,
}

type AuditEntry struct {
	ID        string            `json:"id"`
	Action    AuditAction       `json:"action"`
	ActorID   string            `json:"actor_id"`
	TargetID  string            `json:"target_id"`
	Reason    string            `json:"reason,omitempty"`
	Changes   map[string]string `json:"changes,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
