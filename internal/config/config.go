package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// EconomyConfig holds the credit ledger settings.
type EconomyConfig struct {
	StartingBalance float64 `json:"startingBalance" mapstructure:"startingBalance"`
	UnlimitedFunds  bool    `json:"unlimitedFunds" mapstructure:"unlimitedFunds"`
}

// StorageConfig holds persistence backend settings.
type StorageConfig struct {
	Type      string `json:"type" mapstructure:"type"`
	OutputDir string `json:"outputDir" mapstructure:"outputDir"`
}

// InfluxConfig holds the InfluxDB metrics sink settings.
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
}

// GraylogConfig holds the optional GELF log shipping settings.
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// Load reads configuration from a JSON file and sets default values.
// configDir is the directory containing the config file. A missing config
// file is not an error; defaults apply.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./garagelogs")

	viper.SetDefault("economy.startingBalance", 50000.0)
	viper.SetDefault("economy.unlimitedFunds", false)

	viper.SetDefault("garage.maxSavedBuilds", 10)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.outputDir", "./garagedata")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "garage")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "garage-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName("garage.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetEconomyConfig returns the economy section.
func GetEconomyConfig() EconomyConfig {
	return EconomyConfig{
		StartingBalance: viper.GetFloat64("economy.startingBalance"),
		UnlimitedFunds:  viper.GetBool("economy.unlimitedFunds"),
	}
}

// GetStorageConfig returns the storage section.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:      viper.GetString("storage.type"),
		OutputDir: viper.GetString("storage.outputDir"),
	}
}

// GetInfluxConfig returns the influx section.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Protocol: viper.GetString("influx.protocol"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
	}
}

// GetGraylogConfig returns the graylog section.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
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

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
