package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type PlatformConfig struct {
	Token              string        // env only, never read from the config file
	BaseURL            string        `yaml:"baseUrl" validate:"required"`
	GuildID            string        `yaml:"guildId" validate:"required"`
	LogChannelID       string        `yaml:"logChannelId" validate:"required"`
	MuteRoleID         string        `yaml:"muteRoleId" validate:"required"`
	TrackedRoleIDs     []string      `yaml:"trackedRoleIds" validate:"required"`
	CacheViewerRoleIDs []string      `yaml:"cacheViewerRoleIds"`
	CommandPrefix      string        `yaml:"commandPrefix"`
	RequestTimeout     time.Duration `yaml:"requestTimeout"`
}

type PresenceConfig struct {
	PollInterval time.Duration `yaml:"pollInterval" validate:"required|min:1"`
	OfflineDelay time.Duration `yaml:"offlineDelay" validate:"required|min:1"`
	Timezones    []string      `yaml:"timezones"`
}

type Persistence struct {
	FilePath        string        `yaml:"filePath" validate:"required|unixPath"`
	BackupDir       string        `yaml:"backupDir" validate:"required|unixPath"`
	BackupRetention int           `yaml:"backupRetention" validate:"required|uint|min:1"`
	SaveInterval    time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type AuditConfig struct {
	Lookback    time.Duration `yaml:"lookback" validate:"required|min:1"`
	SearchLimit int           `yaml:"searchLimit" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	Window  time.Duration `yaml:"window"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Platform    PlatformConfig `yaml:"platform"`
	Presence    PresenceConfig `yaml:"presence"`
	WebServer   Server         `yaml:"webServer"`
	Persistence Persistence    `yaml:"persistence"`
	Audit       AuditConfig    `yaml:"audit"`
	Logger      LoggerConfig   `yaml:"logger"`
	Cache       CacheConfig    `yaml:"cache"`
	Metrics     MetricsConfig  `yaml:"metrics"`
}
