package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config maps the entire application configuration.
// Values come from configs/config.yaml with environment variable overrides
// (dots replaced by underscores, e.g. SERVER_PORT).
type Config struct {
	// Server configuration for the HTTP layer.
	Server struct {
		Port    int    `mapstructure:"port"`     // HTTP server port
		BaseURL string `mapstructure:"base_url"` // Origin used to build public short links
	} `mapstructure:"server"`

	// Database configuration for the SQLite store.
	Database struct {
		Name string `mapstructure:"name"` // SQLite database file name
	} `mapstructure:"database"`

	// Shortener configuration for code generation.
	Shortener struct {
		CodeLength int `mapstructure:"code_length"` // Length of generated short codes
	} `mapstructure:"shortener"`

	// Logging configuration for the remote structured event sink.
	// An empty endpoint disables remote delivery entirely.
	Logging struct {
		Endpoint    string `mapstructure:"endpoint"`     // Sink URL; empty means disabled
		Token       string `mapstructure:"token"`        // Bearer token, optional
		BufferSize  int    `mapstructure:"buffer_size"`  // Event channel buffer
		WorkerCount int    `mapstructure:"worker_count"` // Delivery goroutines
	} `mapstructure:"logging"`

	// Monitor configuration for the long-URL reachability checker.
	Monitor struct {
		Enabled         bool `mapstructure:"enabled"`
		IntervalMinutes int  `mapstructure:"interval_minutes"`
	} `mapstructure:"monitor"`
}

// LoadConfig loads the application configuration using Viper.
// Missing files are not fatal; defaults cover every key.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.AddConfigPath("./configs")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.base_url", "http://localhost:8080")
	viper.SetDefault("database.name", "url_shortener.db")
	viper.SetDefault("shortener.code_length", 6)
	viper.SetDefault("logging.endpoint", "")
	viper.SetDefault("logging.token", "")
	viper.SetDefault("logging.buffer_size", 1000)
	viper.SetDefault("logging.worker_count", 5)
	viper.SetDefault("monitor.enabled", true)
	viper.SetDefault("monitor.interval_minutes", 5)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found, using default values")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	log.Printf("Configuration loaded: Server Port=%d, DB Name=%s, Code Length=%d, Monitor Enabled=%t",
		cfg.Server.Port, cfg.Database.Name, cfg.Shortener.CodeLength, cfg.Monitor.Enabled)

	return &cfg, nil
}
