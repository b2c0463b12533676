// Package config loads server and engine settings from defaults, an
// optional config file and OTHELLO_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Addr        string        `mapstructure:"addr"`
	AIDepth     int           `mapstructure:"ai_depth"`
	WeightsPath string        `mapstructure:"weights_path"`
	LogLevel    string        `mapstructure:"log_level"`
	PrettyLogs  bool          `mapstructure:"pretty_logs"`
	Heartbeat   time.Duration `mapstructure:"heartbeat"`
}

// Load reads settings. path may be empty, in which case only defaults and
// the environment apply. Environment variables take precedence over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("ai_depth", 4)
	v.SetDefault("weights_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("pretty_logs", false)
	v.SetDefault("heartbeat", 15*time.Second)

	v.SetEnvPrefix("othello")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.AIDepth < 1 || c.AIDepth > 10 {
		return fmt.Errorf("ai_depth must be between 1 and 10, got %d", c.AIDepth)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Level returns the configured zerolog level.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
