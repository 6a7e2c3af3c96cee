package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"rpd/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.SetDefault("tracker.pageReadSeconds", 20)
	viper.SetDefault("tracker.pageReadInteractions", 3)
	viper.SetDefault("tracker.interactionThrottle", "300ms")
	viper.SetDefault("tracker.saveInterval", "10s")
	viper.SetDefault("tracker.pulseDuration", "3s")
	viper.SetDefault("tracker.sessionTTL", "2m")
	viper.SetDefault("tracker.sweepInterval", "30s")
	viper.SetDefault("leaderboard.timeout", "5s")
	viper.SetDefault("persistence.backend", "file")

	viper.BindEnv("logger.level", "RPD_LOG_LEVEL")
	viper.BindEnv("tracker.saveInterval", "RPD_SAVE_INTERVAL")
	viper.BindEnv("tracker.sessionTTL", "RPD_SESSION_TTL")
	viper.BindEnv("persistence.backend", "RPD_STORAGE_BACKEND")
	viper.BindEnv("leaderboard.remoteUrl", "RPD_LEADERBOARD_URL")
	viper.BindEnv("cache.enabled", "RPD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "RPD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "ReadingProgressDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
