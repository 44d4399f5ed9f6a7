package models

import (
	"fmt"
	"time"
)

type MuteRecord struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Moderator string    `json:"moderator"` // empty when the mute was applied outside the bot
	Reason    string    `json:"reason"`
	Duration  int64     `json:"duration_seconds"`
	Start     time.Time `json:"start_time"`
	Unmute    time.Time `json:"unmute_time"`
	Auto      bool      `json:"auto"`
}

// MuteID builds the record key: member id plus creation epoch.
func MuteID(userID string, start time.Time) string {
	return fmt.Sprintf("%s-%d", userID, start.Unix())
}

func NewMuteRecord(userID, moderator, reason string, seconds int64, start time.Time) *MuteRecord {
	return &MuteRecord{
		ID:        MuteID(userID, start),
		User:      userID,
		Moderator: moderator,
		Reason:    reason,
		Duration:  seconds,
		Start:     start,
		Unmute:    start.Add(time.Duration(seconds) * time.Second),
		Auto:      true,
	}
}

func (m *MuteRecord) Clone() *MuteRecord {
	cp := *m
	return &cp
}
