package testutil

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"warden/internal/models"
	"warden/internal/platform"
	"warden/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were recorded at the given level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface and counts
// calls. The zero value is ready to use.
type MockMetrics struct {
	mu          sync.Mutex
	Requests    int
	Events      map[string]int
	Commands    map[string]int
	Transitions map[string]int
	Audits      map[string]int
	CacheHits   int
	CacheMisses int
	Persists    int
}

func bump(m map[string]int, key string) map[string]int {
	if m == nil {
		m = make(map[string]int)
	}
	m[key]++
	return m
}

func (m *MockMetrics) IncRequestsTotal(string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(string, time.Duration) {}
func (m *MockMetrics) IncEventsTotal(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = bump(m.Events, kind)
}
func (m *MockMetrics) IncCommandsTotal(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = bump(m.Commands, name)
}
func (m *MockMetrics) IncPresenceTransitions(direction string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transitions = bump(m.Transitions, direction)
}
func (m *MockMetrics) IncAuditLookups(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Audits = bump(m.Audits, outcome)
}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObservePersistenceDuration(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persists++
}

// MockMessageCache implements providers.MessageCacheInterface with a plain map.
type MockMessageCache struct {
	mu   sync.Mutex
	Data map[string]models.CachedMessage
}

func NewMockMessageCache() *MockMessageCache {
	return &MockMessageCache{Data: make(map[string]models.CachedMessage)}
}

func (m *MockMessageCache) Put(msg models.CachedMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[msg.ID] = msg.Truncated()
}

func (m *MockMessageCache) Get(messageID string) (models.CachedMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.Data[messageID]
	return msg, ok
}

// SentMessage records an outgoing text or embed from the fake client.
type SentMessage struct {
	ChannelID string
	Content   string
	Embed     *platform.Embed
}

// RoleChange records an AddRole or RemoveRole call.
type RoleChange struct {
	UserID string
	RoleID string
	Added  bool
}

// FakeClient implements platform.Client with injectable state. Zero value is
// usable: no members, empty audit log, every call succeeds.
type FakeClient struct {
	mu sync.Mutex

	MembersByID map[string]*platform.Member
	Presences   map[string]platform.PresenceStatus
	Roles       map[string]*platform.Role
	Channels    map[string]*platform.Channel
	AuditByKind map[platform.AuditAction][]platform.AuditEntry

	// Injectable failures, keyed by user/role id. Errors returned verbatim.
	MemberErr   error
	PresenceErr map[string]error
	AddRoleErr  error
	AuditErr    error
	SendErr     error

	Sent       []SentMessage
	DMs        []SentMessage
	Files      []string
	Purges     []int
	Changes    []RoleChange
	Subscribed platform.EventHandler
	Opened     bool
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		MembersByID: make(map[string]*platform.Member),
		Presences:   make(map[string]platform.PresenceStatus),
		Roles:       make(map[string]*platform.Role),
		Channels:    make(map[string]*platform.Channel),
		AuditByKind: make(map[platform.AuditAction][]platform.AuditEntry),
		PresenceErr: make(map[string]error),
	}
}

// AddMember registers a member and its presence in one step.
func (f *FakeClient) AddMember(m *platform.Member, status platform.PresenceStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MembersByID[m.ID] = m
	f.Presences[m.ID] = status
}

func (f *FakeClient) SendMessage(_ context.Context, channelID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return f.SendErr
	}
	f.Sent = append(f.Sent, SentMessage{ChannelID: channelID, Content: content})
	return nil
}

func (f *FakeClient) SendEmbed(_ context.Context, channelID string, embed *platform.Embed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return f.SendErr
	}
	f.Sent = append(f.Sent, SentMessage{ChannelID: channelID, Embed: embed})
	return nil
}

func (f *FakeClient) SendFile(_ context.Context, channelID, name string, r io.Reader) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, _ = io.ReadAll(r)
	f.Files = append(f.Files, name)
	return nil
}

func (f *FakeClient) SendDM(_ context.Context, userID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DMs = append(f.DMs, SentMessage{ChannelID: userID, Content: content})
	return nil
}

func (f *FakeClient) PurgeMessages(_ context.Context, channelID string, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Purges = append(f.Purges, count)
	return nil
}

func (f *FakeClient) Member(_ context.Context, userID string) (*platform.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MemberErr != nil {
		return nil, f.MemberErr
	}
	m, ok := f.MembersByID[userID]
	if !ok {
		return nil, platform.ErrNotFound
	}
	return m, nil
}

func (f *FakeClient) Members(_ context.Context) ([]*platform.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MemberErr != nil {
		return nil, f.MemberErr
	}
	out := make([]*platform.Member, 0, len(f.MembersByID))
	for _, m := range f.MembersByID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeClient) Role(_ context.Context, roleID string) (*platform.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.Roles[roleID]
	if !ok {
		return nil, platform.ErrNotFound
	}
	return r, nil
}

func (f *FakeClient) Channel(_ context.Context, channelID string) (*platform.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.Channels[channelID]
	if !ok {
		return nil, platform.ErrNotFound
	}
	return c, nil
}

func (f *FakeClient) Presence(_ context.Context, userID string) (platform.PresenceStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.PresenceErr[userID]; err != nil {
		return "", err
	}
	status, ok := f.Presences[userID]
	if !ok {
		return platform.StatusOffline, nil
	}
	return status, nil
}

func (f *FakeClient) AddRole(_ context.Context, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AddRoleErr != nil {
		return f.AddRoleErr
	}
	f.Changes = append(f.Changes, RoleChange{UserID: userID, RoleID: roleID, Added: true})
	if m, ok := f.MembersByID[userID]; ok {
		m.Roles = append(m.Roles, roleID)
	}
	return nil
}

func (f *FakeClient) RemoveRole(_ context.Context, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Changes = append(f.Changes, RoleChange{UserID: userID, RoleID: roleID, Added: false})
	if m, ok := f.MembersByID[userID]; ok {
		kept := m.Roles[:0]
		for _, r := range m.Roles {
			if r != roleID {
				kept = append(kept, r)
			}
		}
		m.Roles = kept
	}
	return nil
}

func (f *FakeClient) AuditLog(_ context.Context, action platform.AuditAction, limit int) ([]platform.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AuditErr != nil {
		return nil, f.AuditErr
	}
	entries := f.AuditByKind[action]
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]platform.AuditEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func (f *FakeClient) Subscribe(h platform.EventHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Subscribed = h
}

func (f *FakeClient) Open(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Opened = true
	return nil
}

func (f *FakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Opened = false
	return nil
}

func (f *FakeClient) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Opened
}

// LastSent returns the most recent message, or nil when nothing was sent.
func (f *FakeClient) LastSent() *SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Sent) == 0 {
		return nil
	}
	return &f.Sent[len(f.Sent)-1]
}
