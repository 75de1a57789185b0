// Package config loads server configuration from an optional YAML file and
// SPLITLEDGER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Log         LogConfig
	Ledger      LedgerConfig
	Storage     StorageConfig
	Access      AccessConfig
	Events      EventsConfig
	Attachments AttachmentsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// LedgerConfig holds the fixed participant roster
type LedgerConfig struct {
	Participants []string
}

// StorageConfig selects the expense store backend
type StorageConfig struct {
	Driver string
	Name   string
}

// AccessConfig configures the access gate. With neither Secret nor
// SecretHash set, the gate is open.
type AccessConfig struct {
	Secret     string
	SecretHash string        `mapstructure:"secret_hash"`
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// EventsConfig configures event publishing. No brokers disables it.
type EventsConfig struct {
	Brokers []string
	Topic   string
}

// AttachmentsConfig holds the draft attachment policy applied at the RPC boundary
type AttachmentsConfig struct {
	SinglePerDraft bool `mapstructure:"single_per_draft"`
}

// Roster returns the configured participants.
func (c *Config) Roster() []models.Participant {
	roster := make([]models.Participant, len(c.Ledger.Participants))
	for i, p := range c.Ledger.Participants {
		roster[i] = models.Participant(strings.TrimSpace(p))
	}
	return roster
}

// GateEnabled reports whether a secret is configured.
func (c *Config) GateEnabled() bool {
	return c.Access.Secret != "" || c.Access.SecretHash != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("ledger.participants", []string{"Ada", "John", "Wicko"})
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.name", "splitledger")
	v.SetDefault("access.secret", "")
	v.SetDefault("access.secret_hash", "")
	v.SetDefault("access.signing_key", "")
	v.SetDefault("access.token_ttl", 24*time.Hour)
	v.SetDefault("events.brokers", []string{})
	v.SetDefault("events.topic", "expense_committed")
	v.SetDefault("attachments.single_per_draft", true)
}

// Load loads configuration from configPath (optional) and the environment.
// Environment variables use the SPLITLEDGER_ prefix with dots replaced by
// underscores, e.g. SPLITLEDGER_SERVER_PORT.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("splitledger")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// LOG_LEVEL is also honored so pkg/logging and the server agree.
	_ = v.BindEnv("log.level", "SPLITLEDGER_LOG_LEVEL", "LOG_LEVEL")

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal config into struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Lists from the environment arrive as one comma-separated string.
	cfg.Ledger.Participants = splitList(cfg.Ledger.Participants)
	cfg.Events.Brokers = splitList(cfg.Events.Brokers)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if err := ledger.ValidateRoster(c.Roster()); err != nil {
		return fmt.Errorf("ledger.participants: %w", err)
	}
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite:
	default:
		return fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: %d out of range", c.Server.Port)
	}
	if c.Access.TokenTTL <= 0 {
		return errors.New("access.token_ttl must be positive")
	}
	if c.Access.Secret != "" && c.Access.SecretHash != "" {
		return errors.New("access: set either secret or secret_hash, not both")
	}
	if len(c.Events.Brokers) > 0 && c.Events.Topic == "" {
		return errors.New("events.topic is required when brokers are set")
	}
	return nil
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
