package providers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"warden/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "WARDEN_LOG_LEVEL")
	viper.BindEnv("presence.pollInterval", "WARDEN_POLL_INTERVAL")
	viper.BindEnv("presence.offlineDelay", "WARDEN_OFFLINE_DELAY")
	viper.BindEnv("persistence.saveInterval", "WARDEN_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "WARDEN_CACHE_ENABLED")
	viper.BindEnv("cache.size", "WARDEN_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	// The token never lives in the config file.
	conf.Platform.Token = os.Getenv("WARDEN_TOKEN")

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	if conf.Platform.CommandPrefix == "" {
		conf.Platform.CommandPrefix = "!"
	}

	conf.AppName = "warden"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
