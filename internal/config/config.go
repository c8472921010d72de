package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// JournalConfig holds mission journal storage settings.
type JournalConfig struct {
	Type string `json:"type" mapstructure:"type"`
}

// SqliteConfig holds settings for the local SQLite fallback.
type SqliteConfig struct {
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
	DumpPath     string        `json:"dumpPath" mapstructure:"dumpPath"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("catalog.path", "./dat/missions.json")
	viper.SetDefault("starmap.path", "./dat/starmap.json")

	viper.SetDefault("journal.type", "memory")
	viper.SetDefault("journal.sqlite.dumpInterval", "3m")
	viper.SetDefault("journal.sqlite.dumpPath", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "halcyon")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "halcyon-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName("missions.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetJournalConfig returns the journal storage configuration.
func GetJournalConfig() JournalConfig {
	return JournalConfig{
		Type: viper.GetString("journal.type"),
	}
}

// GetSqliteConfig returns the SQLite fallback configuration.
func GetSqliteConfig() SqliteConfig {
	return SqliteConfig{
		DumpInterval: viper.GetDuration("journal.sqlite.dumpInterval"),
		DumpPath:     viper.GetString("journal.sqlite.dumpPath"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
