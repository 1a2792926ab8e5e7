// Package config loads the platform configuration from a YAML file with
// environment overrides. Every value has a usable default so the binary runs
// against a local database with no config file at all.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
	Seed     SeedConfig     `yaml:"seed"`
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// RedisConfig holds the claims-cache connection settings. An empty Addr
// disables the cache; claims refresh notifications become no-ops.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// SeedConfig sizes the demo data set the seed command generates.
type SeedConfig struct {
	Users    int `yaml:"users"`
	Articles int `yaml:"articles"`
	Comments int `yaml:"comments"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "inkwell",
			DBName:  "inkwell",
			SSLMode: "disable",
		},
		Log:  LogConfig{Level: "info"},
		Seed: SeedConfig{Users: 10, Articles: 30, Comments: 90},
	}
}

// Load reads the YAML file at path, falling back to defaults when path is
// empty or the file does not exist, then applies INKWELL_* environment
// overrides on top.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Database.Host = getEnvOrDefault("INKWELL_DB_HOST", c.Database.Host)
	c.Database.Port = getEnvIntOrDefault("INKWELL_DB_PORT", c.Database.Port)
	c.Database.User = getEnvOrDefault("INKWELL_DB_USER", c.Database.User)
	c.Database.Password = getEnvOrDefault("INKWELL_DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnvOrDefault("INKWELL_DB_NAME", c.Database.DBName)
	c.Database.SSLMode = getEnvOrDefault("INKWELL_DB_SSLMODE", c.Database.SSLMode)
	c.Redis.Addr = getEnvOrDefault("INKWELL_REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnvOrDefault("INKWELL_REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvIntOrDefault("INKWELL_REDIS_DB", c.Redis.DB)
	c.Log.Level = getEnvOrDefault("INKWELL_LOG_LEVEL", c.Log.Level)
	c.Log.Path = getEnvOrDefault("INKWELL_LOG_PATH", c.Log.Path)
}

// Validate rejects values no backend could accept.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port <= 0 {
		return fmt.Errorf("database.port must be positive")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database.dbname is required")
	}
	return nil
}

// DSN renders the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
