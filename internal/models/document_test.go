package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocument_Normalize_RebuildsMuteIndex(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	rec := NewMuteRecord("u1", "mod", "", 600, start)

	doc := &Document{
		Mutes: map[string]*MuteRecord{rec.ID: rec},
	}
	doc.Normalize()

	assert.Equal(t, rec.ID, doc.MuteIndex["u1"])
	assert.NotNil(t, doc.Users)
	assert.NotNil(t, doc.RmuteUsage)
	assert.NotNil(t, doc.RpingDisabled)
	assert.NotNil(t, doc.Logs)
	assert.Equal(t, DocumentVersion, doc.Version)
}

func TestDocument_Normalize_FillsUserMaps(t *testing.T) {
	doc := &Document{
		Users: map[string]*UserRecord{"u1": {Status: StateOnline}},
	}
	doc.Normalize()

	u := doc.Users["u1"]
	assert.NotNil(t, u.Daily)
	assert.NotNil(t, u.Weekly)
	assert.NotNil(t, u.Monthly)
}

func TestDocument_Clone_Independent(t *testing.T) {
	doc := NewDocument()
	doc.Users["u1"] = NewUserRecord()
	doc.RmuteUsage["mod"] = 3

	cp := doc.Clone()
	cp.Users["u1"].TotalOnline = 42
	cp.RmuteUsage["mod"] = 99

	assert.Zero(t, doc.Users["u1"].TotalOnline)
	assert.Equal(t, int64(3), doc.RmuteUsage["mod"])
}

func TestMuteID(t *testing.T) {
	start := time.Unix(1700000000, 0)
	rec := NewMuteRecord("u9", "mod", "spam", 300, start)

	assert.Equal(t, "u9-1700000000", rec.ID)
	assert.Equal(t, start.Add(5*time.Minute), rec.Unmute)
	assert.True(t, rec.Auto)
}
