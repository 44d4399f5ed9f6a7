package models

import "time"

const DocumentVersion = 2

// MaxLogEntries bounds the moderation log namespace; AppendLog trims oldest.
const MaxLogEntries = 500

type LogEntry struct {
	ID     string    `json:"id"`
	Kind   string    `json:"kind"`
	Actor  string    `json:"actor"`
	Target string    `json:"target"`
	Detail string    `json:"detail"`
	Time   time.Time `json:"time"`
}

// Document is the single persisted object. Namespaces mirror the flat file
// layout: users, mutes, logs, rmute_usage, rping_disabled_users,
// last_audit_check.
type Document struct {
	Version        int                    `json:"version"`
	Users          map[string]*UserRecord `json:"users"`
	Mutes          map[string]*MuteRecord `json:"mutes"`
	MuteIndex      map[string]string      `json:"mute_index"` // user id -> active mute record id
	Logs           []LogEntry             `json:"logs"`
	RmuteUsage     map[string]int64       `json:"rmute_usage"`
	RpingDisabled  map[string]bool        `json:"rping_disabled_users"`
	LastAuditCheck time.Time              `json:"last_audit_check"`
}

func NewDocument() *Document {
	return &Document{
		Version:       DocumentVersion,
		Users:         make(map[string]*UserRecord),
		Mutes:         make(map[string]*MuteRecord),
		MuteIndex:     make(map[string]string),
		Logs:          make([]LogEntry, 0),
		RmuteUsage:    make(map[string]int64),
		RpingDisabled: make(map[string]bool),
	}
}

// Normalize fills in nil maps after unmarshalling an older or partial file and
// rebuilds the mute index from the mute table when it is missing.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = make(map[string]*UserRecord)
	}
	if d.Mutes == nil {
		d.Mutes = make(map[string]*MuteRecord)
	}
	if d.RmuteUsage == nil {
		d.RmuteUsage = make(map[string]int64)
	}
	if d.RpingDisabled == nil {
		d.RpingDisabled = make(map[string]bool)
	}
	if d.Logs == nil {
		d.Logs = make([]LogEntry, 0)
	}
	if d.MuteIndex == nil {
		d.MuteIndex = make(map[string]string, len(d.Mutes))
		for id, rec := range d.Mutes {
			d.MuteIndex[rec.User] = id
		}
	}
	for _, u := range d.Users {
		if u.Daily == nil {
			u.Daily = make(map[string]int64)
		}
		if u.Weekly == nil {
			u.Weekly = make(map[string]int64)
		}
		if u.Monthly == nil {
			u.Monthly = make(map[string]int64)
		}
	}
	d.Version = DocumentVersion
}

func (d *Document) Clone() *Document {
	cp := NewDocument()
	cp.LastAuditCheck = d.LastAuditCheck
	for id, u := range d.Users {
		cp.Users[id] = u.Clone()
	}
	for id, m := range d.Mutes {
		cp.Mutes[id] = m.Clone()
	}
	for user, id := range d.MuteIndex {
		cp.MuteIndex[user] = id
	}
	cp.Logs = append(cp.Logs, d.Logs...)
	for k, v := range d.RmuteUsage {
		cp.RmuteUsage[k] = v
	}
	for k, v := range d.RpingDisabled {
		cp.RpingDisabled[k] = v
	}
	return cp
}
