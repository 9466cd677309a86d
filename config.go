package main

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/spf13/viper"
)

// Config holds the settings for the server.
type Config struct {
	Addr               string `json:"addr" mapstructure:"addr"`
	DatabasePath       string `json:"database_path" mapstructure:"database_path"`
	SessionSecret      string `json:"session_secret" mapstructure:"session_secret"`
	SecureCookies      bool   `json:"secure_cookies" mapstructure:"secure_cookies"`
	LogLevel           string `json:"log_level" mapstructure:"log_level"`
	Debug              bool   `json:"debug" mapstructure:"debug"`
	Timezone           string `json:"timezone" mapstructure:"timezone"`
	ShutdownTimeoutSec int    `json:"shutdown_timeout_sec" mapstructure:"shutdown_timeout_sec"`
}

// DefaultConfig returns the configuration used when no file is present. It
// carries no session secret; LoadConfig generates one for a new file.
func DefaultConfig() *Config {
	return &Config{
		Addr:               ":5000",
		DatabasePath:       "texts.db",
		LogLevel:           "info",
		Timezone:           "Local",
		ShutdownTimeoutSec: 10,
	}
}

// LoadConfig reads the configuration from the JSON file at path. If the file
// does not exist it is created with the defaults and a random session secret.
// Any key can be overridden with a TEXTGEN_ prefixed environment variable,
// e.g. TEXTGEN_ADDR.
func LoadConfig(path string) (*Config, error) {
	defaults := DefaultConfig()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		secret, err := newSessionSecret()
		if err != nil {
			return nil, err
		}
		defaults.SessionSecret = secret

		data, err := json.MarshalIndent(defaults, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal default config: %w", err)
		}
		if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	v := viper.New()
	v.SetDefault("addr", defaults.Addr)
	v.SetDefault("database_path", defaults.DatabasePath)
	v.SetDefault("session_secret", defaults.SessionSecret)
	v.SetDefault("secure_cookies", defaults.SecureCookies)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("timezone", defaults.Timezone)
	v.SetDefault("shutdown_timeout_sec", defaults.ShutdownTimeoutSec)

	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix("TEXTGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func newSessionSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Validate checks the values that cannot fall back to a default.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr must not be empty")
	}
	if c.DatabasePath == "" {
		return errors.New("config: database_path must not be empty")
	}
	if c.SessionSecret == "" {
		return errors.New("config: session_secret must not be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone used for the greeting.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ShutdownTimeout is the time allowed for in-flight requests on shutdown.
func (c *Config) ShutdownTimeout() time.Duration {
	if c.ShutdownTimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}
