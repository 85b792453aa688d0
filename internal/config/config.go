// Package config loads the application configuration from a TOML file
// with environment variable overrides for secrets.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Spotify  SpotifyConfig  `toml:"spotify"`
	OpenAI   OpenAIConfig   `toml:"openai"`
	Worker   WorkerConfig   `toml:"worker"`
	Logging  LoggingConfig  `toml:"logging"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host        string `toml:"host"`
	Port        string `toml:"port"`
	ReadTimeout int    `toml:"read_timeout_seconds"`
}

// Addr joins host and port for http.Server.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// DatabaseConfig contains sqlite configuration
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// SpotifyConfig contains catalog credentials. Secrets come from the
// environment, never from the file.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"-"`
	RedirectURL  string `toml:"redirect_url"`
	Market       string `toml:"market"`
}

// OpenAIConfig contains completion service configuration
type OpenAIConfig struct {
	APIKey  string `toml:"-"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// WorkerConfig sizes the explanation worker pool
type WorkerConfig struct {
	Workers   int `toml:"workers"`
	QueueSize int `toml:"queue_size"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        "8080",
			ReadTimeout: 30,
		},
		Database: DatabaseConfig{
			Path: "./moodlist.db",
		},
		Spotify: SpotifyConfig{
			Market: "US",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-3.5-turbo",
		},
		Worker: WorkerConfig{
			Workers:   2,
			QueueSize: 256,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the TOML file at configPath (if it exists), then applies
// environment overrides. A missing file is not an error: the defaults
// plus environment are a complete configuration.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if _, err := toml.DecodeFile(configPath, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.Server.Host, "MOODLIST_HOST")
	setFromEnv(&c.Server.Port, "MOODLIST_PORT")
	setFromEnv(&c.Database.Path, "MOODLIST_DB_PATH")
	setFromEnv(&c.Spotify.ClientID, "SPOTIFY_CLIENT_ID")
	setFromEnv(&c.Spotify.ClientSecret, "SPOTIFY_CLIENT_SECRET")
	setFromEnv(&c.Spotify.RedirectURL, "SPOTIFY_REDIRECT_URL")
	setFromEnv(&c.Spotify.Market, "SPOTIFY_MARKET")
	setFromEnv(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setFromEnv(&c.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setFromEnv(&c.OpenAI.Model, "OPENAI_MODEL")
	setFromEnv(&c.Logging.Level, "MOODLIST_LOG_LEVEL")
	setFromEnv(&c.Logging.Format, "MOODLIST_LOG_FORMAT")
}

func setFromEnv(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return fmt.Errorf("spotify credentials are required (SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET)")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai api key is required (OPENAI_API_KEY)")
	}
	if c.Worker.Workers < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}
	if c.Worker.QueueSize < 1 {
		return fmt.Errorf("worker queue size must be at least 1")
	}
	return nil
}
