package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// ErrNotFound is returned by Load when the config file does not exist.
var ErrNotFound = errors.New("config file not found")

type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	API      APIConfig      `yaml:"api"`
}

type InputConfig struct {
	File string `yaml:"file"`
}

type OutputConfig struct {
	SQLFile      string `yaml:"sql_file"`
	HTMLFile     string `yaml:"html_file"`
	HTMLTemplate string `yaml:"html_template"`
	PDFFile      string `yaml:"pdf_file"`
}

type DatabaseConfig struct {
	Driver       string `yaml:"driver"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Name         string `yaml:"name"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	SSLMode      string `yaml:"ssl_mode"`
	Path         string `yaml:"path"`
	CreateSchema bool   `yaml:"create_schema"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type MetricsConfig struct {
	File string `yaml:"file"`
}

type APIConfig struct {
	Port string `yaml:"port"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Input: InputConfig{File: "./post_data.json"},
		Output: OutputConfig{
			SQLFile:  "post_data.sql",
			HTMLFile: "post_data.html",
			PDFFile:  "post_data.pdf",
		},
		Database: DatabaseConfig{
			Driver:  "mysql",
			Host:    "localhost",
			Port:    3306,
			Name:    "tmdp",
			User:    "root",
			SSLMode: "disable",
			Path:    "tmdp.db",
		},
		Logging: LoggingConfig{Level: "info"},
		Metrics: MetricsConfig{File: "data/metrics.json"},
		API:     APIConfig{Port: "8080"},
	}
}

// Load reads configFile over the defaults and applies environment overrides.
// A .env file in the working directory is loaded first when present.
func Load(configFile string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, configFile)
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.ApplyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadOrDefault is Load, except that a missing config file falls back to
// Default with environment overrides applied.
func LoadOrDefault(configFile string) (*Config, error) {
	cfg, err := Load(configFile)
	if !errors.Is(err, ErrNotFound) {
		return cfg, err
	}

	cfg = Default()
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides file values with environment variables if they exist.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("INPUT_FILE"); v != "" {
		c.Input.File = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.Name = v
	}
	if v := os.Getenv("DB_SSL_MODE"); v != "" {
		c.Database.SSLMode = v
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q (want mysql, postgres or sqlite)", c.Database.Driver)
	}
	if c.Input.File == "" {
		return errors.New("input.file must not be empty")
	}
	return nil
}
