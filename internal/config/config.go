package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreDriverMongoDB = "mongodb"
	StoreDriverMemory  = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Store   StoreConfig
	Log     LogConfig
	History HistoryConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
	// Transactions requires a replica set or sharded cluster.
	Transactions bool
}

// StoreConfig selects the repository implementation
type StoreConfig struct {
	Driver string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// HistoryConfig holds recent-history query configuration
type HistoryConfig struct {
	Limit int
}

var envBindings = map[string]string{
	"Server.Port":           "PORT",
	"Server.GinMode":        "GIN_MODE",
	"Server.AllowedOrigins": "CORS_ALLOWED_ORIGINS",
	"MongoDB.URI":           "MONGO_URI",
	"MongoDB.Database":      "MONGODB_DATABASE",
	"MongoDB.Transactions":  "MONGODB_TRANSACTIONS",
	"Store.Driver":          "STORE_DRIVER",
	"Log.Level":             "LOG_LEVEL",
	"Log.Format":            "LOG_FORMAT",
	"History.Limit":         "HISTORY_LIMIT",
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// CORS_ALLOWED_ORIGINS arrives as one comma-separated string
	cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins)
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings the application cannot start with
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGO_URI is required when STORE_DRIVER=mongodb")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Server.Port == "" {
		return errors.New("PORT must not be empty")
	}
	return nil
}

// Address returns the listen address for the HTTP server
func (c *Config) Address() string {
	return ":" + c.Server.Port
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "5000")
	v.SetDefault("Server.GinMode", "release")
	v.SetDefault("Server.AllowedOrigins", []string{"*"})
	v.SetDefault("MongoDB.URI", "")
	v.SetDefault("MongoDB.Database", "leaderboard")
	v.SetDefault("MongoDB.Transactions", false)
	v.SetDefault("Store.Driver", StoreDriverMongoDB)
	v.SetDefault("Log.Level", "info")
	v.SetDefault("Log.Format", "json")
	v.SetDefault("History.Limit", 10)
}

func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
