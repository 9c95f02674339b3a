// Package config loads the server configuration from a YAML file
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is the top-level application configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
	Static StaticConfig `yaml:"static"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int `yaml:"port"`
}

// AuthConfig holds authentication settings
type AuthConfig struct {
	TeachersFile string   `yaml:"teachers_file"` // Path to the teacher credential roster
	SessionTTL   Duration `yaml:"session_ttl"`   // Cookie Max-Age and server-side session lifetime
}

// Duration decodes YAML values like "24h" or "90m" into a time.Duration
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// StaticConfig holds static asset settings
type StaticConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads the configuration from a YAML file. A missing file is not an
// error: defaults apply so the server can run without any configuration.
// A malformed file is fatal to startup.
func Load(filename string) (*Config, error) {
	cfg := &Config{}

	file, err := os.Open(filename)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to open config file %s: %w", filename, err)
		}
	} else {
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", filename, err)
		}
	}

	// Fill in defaults for anything the file left unset
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Auth.TeachersFile == "" {
		cfg.Auth.TeachersFile = "./teachers.json"
	}
	if cfg.Auth.SessionTTL == 0 {
		cfg.Auth.SessionTTL = Duration(24 * time.Hour)
	}
	if cfg.Static.Dir == "" {
		cfg.Static.Dir = "./static"
	}

	// PORT environment variable wins over the file
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT value %q: %w", port, err)
		}
		cfg.Server.Port = p
	}

	return cfg, nil
}
