package models

import "time"

type PresenceState string

const (
	StateOnline  PresenceState = "online"
	StateOffline PresenceState = "offline"
)

// DailyRetention is how long per-day accounting entries are kept before the
// maintenance sweep removes them.
const DailyRetention = 120 * 24 * time.Hour

type UserRecord struct {
	Status        PresenceState    `json:"status"`
	OnlineSince   time.Time        `json:"online_since"`
	OfflineSince  time.Time        `json:"offline_since"`
	OfflineTimer  int64            `json:"offline_timer"`
	TotalOnline   int64            `json:"total_online_seconds"`
	Daily         map[string]int64 `json:"daily_seconds"`
	Weekly        map[string]int64 `json:"weekly_seconds"`
	Monthly       map[string]int64 `json:"monthly_seconds"`
	AverageOnline float64          `json:"average_online"`
	LastMessage   time.Time        `json:"last_message"`
	LastEdit      time.Time        `json:"last_edit"`
	LastDelete    time.Time        `json:"last_delete"`
	Notify        bool             `json:"notify"`
	PingOptOut    bool             `json:"ping_opt_out"`
}

func NewUserRecord() *UserRecord {
	return &UserRecord{
		Status:  StateOffline,
		Daily:   make(map[string]int64),
		Weekly:  make(map[string]int64),
		Monthly: make(map[string]int64),
		Notify:  true,
	}
}

// Credit adds one poll tick worth of online time to every counter and
// recomputes the running daily average.
func (u *UserRecord) Credit(now time.Time, seconds int64) {
	if u.Daily == nil {
		u.Daily = make(map[string]int64)
	}
	if u.Weekly == nil {
		u.Weekly = make(map[string]int64)
	}
	if u.Monthly == nil {
		u.Monthly = make(map[string]int64)
	}

	u.TotalOnline += seconds
	u.Daily[DayKey(now)] += seconds
	u.Weekly[WeekKey(now)] += seconds
	u.Monthly[MonthKey(now)] += seconds
	u.recomputeAverage()
}

func (u *UserRecord) recomputeAverage() {
	days := len(u.Daily)
	if days < 1 {
		days = 1
	}
	u.AverageOnline = float64(u.TotalOnline) / float64(days)
}

// PruneDaily drops daily entries older than DailyRetention. Keys that fail to
// parse are treated as stale and removed as well. An empty map stays a valid
// empty map.
func (u *UserRecord) PruneDaily(now time.Time) int {
	pruned := 0
	for key := range u.Daily {
		day, err := ParseDayKey(key)
		if err != nil || now.Sub(day) > DailyRetention {
			delete(u.Daily, key)
			pruned++
		}
	}
	if pruned > 0 {
		u.recomputeAverage()
	}
	return pruned
}

// Clone returns a deep copy, safe to hand out of the store.
func (u *UserRecord) Clone() *UserRecord {
	cp := *u
	cp.Daily = copyCounters(u.Daily)
	cp.Weekly = copyCounters(u.Weekly)
	cp.Monthly = copyCounters(u.Monthly)
	return &cp
}

func copyCounters(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
