package providers

import (
	"fmt"
	"path/filepath"
	"playtrack/internal/structures"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "playtrack.db")
	v.SetDefault("database.queryTimeout", 5*time.Second)
	v.SetDefault("steam.baseUrl", "https://api.steampowered.com")
	v.SetDefault("steam.timeout", 10*time.Second)
	v.SetDefault("steam.retryCount", 2)
	v.SetDefault("scheduler.ingestInterval", time.Hour)
	v.SetDefault("scheduler.summaryInterval", 6*time.Hour)
	v.SetDefault("persistence.saveInterval", 30*time.Minute)

	v.BindEnv("logger.level", "PT_LOG_LEVEL")
	v.BindEnv("database.driver", "PT_DB_DRIVER")
	v.BindEnv("database.dsn", "PT_DB_DSN")
	v.BindEnv("steam.apiKey", "PT_STEAM_API_KEY")
	v.BindEnv("steam.steamId", "PT_STEAM_ID")
	v.BindEnv("admin.token", "PT_ADMIN_TOKEN")
	v.BindEnv("cache.enabled", "PT_CACHE_ENABLED")
	v.BindEnv("cache.size", "PT_CACHE_SIZE")
	v.BindEnv("referenceDate", "PT_REFERENCE_DATE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	conf.Debug = flags.DebugMode
	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "PlaytimeTracker"
	conf.Path = flags.ConfigPath

	return &conf, nil
}
