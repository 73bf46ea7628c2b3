// Package config loads server configuration from environment variables and
// an optional YAML file. Environment variables win over file values.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultResourceID scopes all conversation memory for this deployment.
	DefaultResourceID = "glyphic-chat"
	// DefaultThreadID is the thread used when a chat request names none.
	DefaultThreadID = "default-thread"

	defaultPort    = 8080
	defaultAgentID = "sales-agent"
)

// Config is the resolved server configuration.
type Config struct {
	Port int `mapstructure:"port"`

	// AgentURL is the base URL of the agent runtime. Required.
	AgentURL string `mapstructure:"agent_url"`
	// AgentID names the agent to call on the runtime.
	AgentID string `mapstructure:"agent_id"`
	// ResourceID scopes conversation memory.
	ResourceID string `mapstructure:"resource_id"`

	// DatabaseURL enables postgres thread storage when set. Without it the
	// server keeps threads in memory and loses them on restart.
	DatabaseURL string `mapstructure:"database_url"`

	// AllowedOrigins is the CORS allowlist. Empty means allow all origins.
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from GLYCALL_* environment variables and, when
// configFile is non-empty, the named YAML file.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("port", defaultPort)
	v.SetDefault("agent_id", defaultAgentID)
	v.SetDefault("resource_id", DefaultResourceID)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("GLYCALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env-only keys through Unmarshal,
	// so every key is bound explicitly.
	for _, key := range []string{"port", "agent_url", "agent_id", "resource_id", "database_url", "allowed_origins", "log_level"} {
		_ = v.BindEnv(key)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// Viper splits comma-separated env lists but leaves whitespace behind.
	cfg.AllowedOrigins = trimOrigins(cfg.AllowedOrigins)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.AgentURL == "" {
		return fmt.Errorf("agent_url is required (set GLYCALL_AGENT_URL)")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}

func trimOrigins(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	origins := make([]string, 0, len(raw))
	for _, o := range raw {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// Redacted returns a loggable summary without connection secrets.
func (c *Config) Redacted() string {
	db := "unset"
	if c.DatabaseURL != "" {
		db = "set"
	}
	return fmt.Sprintf("port=%d agent_url=%s agent_id=%s resource_id=%s database_url=%s log_level=%s",
		c.Port, c.AgentURL, c.AgentID, c.ResourceID, db, c.LogLevel)
}
