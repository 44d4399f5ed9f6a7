package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"warden/internal/structures"
)

func validConfig() *structures.Config {
	return &structures.Config{
		Platform: structures.PlatformConfig{
			BaseURL:        "https://example.com/api",
			GuildID:        "guild",
			LogChannelID:   "log-channel",
			MuteRoleID:     "mute-role",
			TrackedRoleIDs: []string{"tracked"},
		},
		Presence: structures.PresenceConfig{
			PollInterval: 5 * time.Second,
			OfflineDelay: 30 * time.Second,
		},
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Persistence: structures.Persistence{
			FilePath:        "/tmp/warden.json",
			BackupDir:       "/tmp/backups",
			BackupRetention: 5,
			SaveInterval:    30 * time.Second,
		},
		Audit: structures.AuditConfig{
			Lookback:    24 * time.Hour,
			SearchLimit: 25,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_MissingGuild(t *testing.T) {
	c := validConfig()
	c.Platform.GuildID = ""
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_MissingMuteRole(t *testing.T) {
	c := validConfig()
	c.Platform.MuteRoleID = ""
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_NoTrackedRoles(t *testing.T) {
	c := validConfig()
	c.Platform.TrackedRoleIDs = nil
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_ZeroBackupRetention(t *testing.T) {
	c := validConfig()
	c.Persistence.BackupRetention = 0
	assert.Error(t, NewCnfValidator(c).Validate())
}
