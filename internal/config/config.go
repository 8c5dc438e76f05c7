// Package config loads server configuration from defaults, an optional
// config file, a .env file and WEBGAME_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable, e.g. WEBGAME_SERVER_PORT
const EnvPrefix = "WEBGAME"

// Config holds server configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// StorageConfig selects and configures the storage backend
type StorageConfig struct {
	Type            string        `mapstructure:"type"`
	RedisURL        string        `mapstructure:"redis_url"`
	FinishedGameTTL time.Duration `mapstructure:"finished_game_ttl"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Options controls where Load looks for configuration
type Options struct {
	// ConfigFile is an explicit config file path; empty searches for
	// config.{yaml,json,toml} in the working directory
	ConfigFile string
	// EnvFiles are dotenv files loaded before reading the environment.
	// Missing files are ignored. Defaults to ".env".
	EnvFiles []string
}

// New returns a viper instance with defaults and environment binding applied
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.redis_url", "redis://localhost:6379")
	v.SetDefault("storage.finished_game_ttl", 24*time.Hour)
	v.SetDefault("storage.sqlite_path", "data/webgame.db")
	v.SetDefault("log.level", "info")
	return v
}

// Load reads configuration into a Config. Values already set on v (for
// example bound command-line flags) take precedence over everything else.
func Load(v *viper.Viper, opts Options) (Config, error) {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	if err := loadDotEnv(envFiles); err != nil {
		return Config{}, err
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at startup
func (c Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Storage.Type {
	case "memory":
	case "redis":
		if c.Storage.RedisURL == "" {
			return errors.New("storage.redis_url required when storage.type is redis")
		}
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path required when storage.type is sqlite")
		}
	default:
		return fmt.Errorf("storage.type %q must be memory, redis or sqlite", c.Storage.Type)
	}
	return nil
}

// loadDotEnv sets variables from dotenv files without overriding the
// existing environment
func loadDotEnv(files []string) error {
	for _, file := range files {
		vars, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", file, err)
		}
		for key, value := range vars {
			if _, exists := os.LookupEnv(key); !exists {
				if err := os.Setenv(key, value); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
