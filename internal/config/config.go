package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileEnv names the optional YAML config file.
const FileEnv = "LIFELOG_CONFIG"

var validBackends = []string{"memory", "sqlite", "file"}

type Config struct {
	// HTTP Server
	Port string `yaml:"port"`

	// Storage
	DataBackend    string `yaml:"data_backend"`
	SQLiteDBPath   string `yaml:"sqlite_db_path"`
	DataFilePath   string `yaml:"data_file_path"`
	StoreNamespace string `yaml:"store_namespace"`
	DocumentKey    string `yaml:"document_key"`

	// AMQP, empty URL disables change events
	AMQPURL      string `yaml:"amqp_url"`
	AMQPExchange string `yaml:"amqp_exchange"`
	AMQPQueue    string `yaml:"amqp_queue"`

	// Google Sheets ledger export
	GoogleSpreadsheetID      string `yaml:"google_spreadsheet_id"`
	GoogleSheetName          string `yaml:"google_sheet_name"`
	GoogleServiceAccountFile string `yaml:"google_service_account_file"`
	GoogleServiceAccountJSON string `yaml:"google_service_account_json"`

	// Timers
	RolloverInterval time.Duration `yaml:"rollover_interval"`
	ExportInterval   time.Duration `yaml:"export_interval"`
	SaveTimeout      time.Duration `yaml:"save_timeout"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Port:             "8081",
		DataBackend:      "file",
		SQLiteDBPath:     "./data/lifelog.db",
		DataFilePath:     "./data/lifelog.json",
		StoreNamespace:   "lifelog",
		DocumentKey:      "@myAppData",
		AMQPExchange:     "lifelog",
		AMQPQueue:        "ledger_export",
		GoogleSheetName:  "Ledger",
		RolloverInterval: time.Minute,
		ExportInterval:   5 * time.Minute,
		SaveTimeout:      10 * time.Second,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Load applies, in order, the defaults, the YAML file named by
// LIFELOG_CONFIG and the environment.
func Load() (*Config, error) {
	cfg := Defaults()
	if path := strings.TrimSpace(os.Getenv(FileEnv)); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.mergeEnv()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() {
	c.Port = getEnv("PORT", c.Port)

	c.DataBackend = getEnv("DATA_BACKEND", c.DataBackend)
	c.SQLiteDBPath = getEnv("SQLITE_DB_PATH", c.SQLiteDBPath)
	c.DataFilePath = getEnv("DATA_FILE_PATH", c.DataFilePath)
	c.StoreNamespace = getEnv("STORE_NAMESPACE", c.StoreNamespace)
	c.DocumentKey = getEnv("DOCUMENT_KEY", c.DocumentKey)

	c.AMQPURL = getEnv("AMQP_URL", c.AMQPURL)
	c.AMQPExchange = getEnv("AMQP_EXCHANGE", c.AMQPExchange)
	c.AMQPQueue = getEnv("AMQP_QUEUE", c.AMQPQueue)

	c.GoogleSpreadsheetID = getEnv("GOOGLE_SPREADSHEET_ID", c.GoogleSpreadsheetID)
	c.GoogleSheetName = getEnv("GOOGLE_SHEET_NAME", c.GoogleSheetName)
	c.GoogleServiceAccountFile = getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", c.GoogleServiceAccountFile)
	c.GoogleServiceAccountJSON = getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", c.GoogleServiceAccountJSON)

	c.RolloverInterval = getEnvDuration("ROLLOVER_INTERVAL", c.RolloverInterval)
	c.ExportInterval = getEnvDuration("EXPORT_INTERVAL", c.ExportInterval)
	c.SaveTimeout = getEnvDuration("SAVE_TIMEOUT", c.SaveTimeout)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
}

// SheetsEnabled reports whether a spreadsheet is configured.
func (c *Config) SheetsEnabled() bool {
	return strings.TrimSpace(c.GoogleSpreadsheetID) != ""
}

// EventsEnabled reports whether change events should be published.
func (c *Config) EventsEnabled() bool {
	return strings.TrimSpace(c.AMQPURL) != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLite database path cannot be empty when using sqlite backend")
		} else if msg := ensureDir(c.SQLiteDBPath); msg != "" {
			problems = append(problems, msg)
		}
	case "file":
		if c.DataFilePath == "" {
			problems = append(problems, "data file path cannot be empty when using file backend")
		}
	}

	if strings.TrimSpace(c.DocumentKey) == "" {
		problems = append(problems, "document key cannot be empty")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.GoogleServiceAccountFile != "" {
		if _, err := os.Stat(c.GoogleServiceAccountFile); errors.Is(err, os.ErrNotExist) {
			problems = append(problems, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
		}
	}

	if c.RolloverInterval < time.Second {
		problems = append(problems, fmt.Sprintf("invalid rollover interval %v: must be at least 1 second", c.RolloverInterval))
	} else if c.RolloverInterval > time.Hour {
		problems = append(problems, fmt.Sprintf("invalid rollover interval %v: must be at most 1 hour", c.RolloverInterval))
	}
	if c.ExportInterval < time.Second {
		problems = append(problems, fmt.Sprintf("invalid export interval %v: must be at least 1 second", c.ExportInterval))
	} else if c.ExportInterval > 24*time.Hour {
		problems = append(problems, fmt.Sprintf("invalid export interval %v: must be at most 24 hours", c.ExportInterval))
	}
	if c.SaveTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid save timeout %v: must be positive", c.SaveTimeout))
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func ensureDir(path string) string {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return ""
	}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err)
		}
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
