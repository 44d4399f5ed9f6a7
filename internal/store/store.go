// Package store holds the single persisted document in memory behind one
// reader-writer lock. Handlers mutate through typed accessors; the scheduler
// flushes to disk on a timer and at clean shutdown.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"warden/internal/models"
	"warden/internal/providers"
)

type Store struct {
	mu     sync.RWMutex
	doc    *models.Document
	fm     *FileManager
	logger providers.Logger
}

func NewStore(fm *FileManager, logger providers.Logger) *Store {
	return &Store{
		doc:    models.NewDocument(),
		fm:     fm,
		logger: logger,
	}
}

func (s *Store) Load() error {
	doc, err := s.fm.Load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

func (s *Store) Save() error {
	s.mu.RLock()
	snapshot := s.doc.Clone()
	s.mu.RUnlock()
	return s.fm.Save(snapshot)
}

// Snapshot returns a deep copy for dumps and leaderboards.
func (s *Store) Snapshot() *models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// MutateUser runs fn on the live record for id, creating a default record on
// first sight.
func (s *Store) MutateUser(id string, fn func(*models.UserRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.doc.Users[id]
	if !ok {
		rec = models.NewUserRecord()
		s.doc.Users[id] = rec
	}
	fn(rec)
}

// MutateAllUsers runs fn over every live record; used by the maintenance
// sweep.
func (s *Store) MutateAllUsers(fn func(id string, rec *models.UserRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.doc.Users {
		fn(id, rec)
	}
}

func (s *Store) User(id string) (*models.UserRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.doc.Users[id]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

func (s *Store) Users() map[string]*models.UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*models.UserRecord, len(s.doc.Users))
	for id, rec := range s.doc.Users {
		out[id] = rec.Clone()
	}
	return out
}

// AddMute stores the record and points the user's index entry at it. A
// superseded mute for the same user is dropped here so its record cannot
// outlive the index entry.
func (s *Store) AddMute(rec *models.MuteRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.doc.MuteIndex[rec.User]; ok {
		delete(s.doc.Mutes, prev)
	}
	s.doc.Mutes[rec.ID] = rec.Clone()
	s.doc.MuteIndex[rec.User] = rec.ID
}

// TakeMute removes the record with the given id, but only while the index
// still maps the user to it. The first deletion path (scheduled expiry or
// externally-observed role removal) wins; the loser sees an index miss and
// becomes a no-op, so duplicate unmute notices cannot happen.
func (s *Store) TakeMute(userID, muteID string) (*models.MuteRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.doc.MuteIndex[userID]
	if !ok || current != muteID {
		return nil, false
	}
	rec := s.doc.Mutes[muteID]
	delete(s.doc.Mutes, muteID)
	delete(s.doc.MuteIndex, userID)
	if rec == nil {
		return nil, false
	}
	return rec, true
}

// TakeMuteByUser removes whatever active record the index holds for the user.
func (s *Store) TakeMuteByUser(userID string) (*models.MuteRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	muteID, ok := s.doc.MuteIndex[userID]
	if !ok {
		return nil, false
	}
	rec := s.doc.Mutes[muteID]
	delete(s.doc.Mutes, muteID)
	delete(s.doc.MuteIndex, userID)
	if rec == nil {
		return nil, false
	}
	return rec, true
}

func (s *Store) ActiveMute(userID string) (*models.MuteRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	muteID, ok := s.doc.MuteIndex[userID]
	if !ok {
		return nil, false
	}
	rec, ok := s.doc.Mutes[muteID]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

func (s *Store) Mutes() []*models.MuteRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.MuteRecord, 0, len(s.doc.Mutes))
	for _, rec := range s.doc.Mutes {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func (s *Store) IncRmuteUsage(moderator string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.RmuteUsage[moderator]++
	return s.doc.RmuteUsage[moderator]
}

func (s *Store) RmuteUsage() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int64, len(s.doc.RmuteUsage))
	for k, v := range s.doc.RmuteUsage {
		out[k] = v
	}
	return out
}

// TogglePing flips the ping opt-out flag and reports the new state (true =
// pings disabled).
func (s *Store) TogglePing(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.RpingDisabled[userID] {
		delete(s.doc.RpingDisabled, userID)
		return false
	}
	s.doc.RpingDisabled[userID] = true
	return true
}

func (s *Store) PingDisabled(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.RpingDisabled[userID]
}

func (s *Store) AppendLog(kind, actor, target, detail string, at time.Time) models.LogEntry {
	entry := models.LogEntry{
		ID:     uuid.NewString(),
		Kind:   kind,
		Actor:  actor,
		Target: target,
		Detail: detail,
		Time:   at,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Logs = append(s.doc.Logs, entry)
	if over := len(s.doc.Logs) - models.MaxLogEntries; over > 0 {
		s.doc.Logs = append(s.doc.Logs[:0:0], s.doc.Logs[over:]...)
	}
	return entry
}

// RecentLogs returns up to n entries of the given kind, newest first. An
// empty kind matches everything.
func (s *Store) RecentLogs(kind string, n int) []models.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.LogEntry, 0, n)
	for i := len(s.doc.Logs) - 1; i >= 0 && len(out) < n; i-- {
		if kind == "" || s.doc.Logs[i].Kind == kind {
			out = append(out, s.doc.Logs[i])
		}
	}
	return out
}

func (s *Store) Checkpoint() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.LastAuditCheck
}

func (s *Store) SetCheckpoint(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.LastAuditCheck = t
}

// TrackedUsers implements providers.StatsSource.
func (s *Store) TrackedUsers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.doc.Users)
}

// ActiveMutes implements providers.StatsSource.
func (s *Store) ActiveMutes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.doc.Mutes)
}
