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

// EnvPrefix prefixes every environment variable hq reads, e.g. HQ_PORT.
const EnvPrefix = "HQ"

// Configuration keys, shared by viper, flags and config files.
const (
	KeyConfigFile       = "config"
	KeyPort             = "port"
	KeyAPIKey           = "api_key"
	KeyLogLevel         = "log_level"
	KeyLogFile          = "log_file"
	KeyFetchTimeout     = "fetch_timeout"
	KeyMaxDocumentBytes = "max_document_bytes"
	KeyUserAgent        = "user_agent"
	KeyStatsWindow      = "stats_window"
)

const (
	defaultPort             = "8091"
	defaultFetchTimeout     = 15 * time.Second
	defaultMaxDocumentBytes = 10 << 20 // 10MB
	defaultUserAgent        = "hq/1.0 (+https://github.com/dgallion1/hq)"
	defaultStatsWindow      = 1 * time.Hour
)

type Config struct {
	// HTTP service
	Port   string
	APIKey string

	// Logging. An empty level lets each command pick its own default.
	LogLevel string
	LogFile  string

	// Document sources
	FetchTimeout     time.Duration
	MaxDocumentBytes int64
	UserAgent        string

	// Rolling query latency window
	StatsWindow time.Duration
}

// NewViper returns a viper instance with defaults applied and HQ_*
// environment variables bound.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyPort, defaultPort)
	v.SetDefault(KeyFetchTimeout, defaultFetchTimeout)
	v.SetDefault(KeyMaxDocumentBytes, defaultMaxDocumentBytes)
	v.SetDefault(KeyUserAgent, defaultUserAgent)
	v.SetDefault(KeyStatsWindow, defaultStatsWindow)
	return v
}

// LoadDotEnv loads environment files into the process environment. A
// missing file is not an error. Without arguments it loads ".env".
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ReadFile merges a YAML, TOML or JSON config file into v.
func ReadFile(v *viper.Viper, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("config file %q: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config file %q is a directory, should be a file", path)
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %q: %w", path, err)
	}
	return nil
}

func Load(v *viper.Viper) Config {
	cfg := Config{
		Port:   v.GetString(KeyPort),
		APIKey: v.GetString(KeyAPIKey),

		LogLevel: strings.ToLower(v.GetString(KeyLogLevel)),
		LogFile:  v.GetString(KeyLogFile),

		FetchTimeout:     v.GetDuration(KeyFetchTimeout),
		MaxDocumentBytes: v.GetInt64(KeyMaxDocumentBytes),
		UserAgent:        v.GetString(KeyUserAgent),

		StatsWindow: v.GetDuration(KeyStatsWindow),
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = defaultStatsWindow
	}

	return cfg
}

func (c Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level %q must be one of debug, info, warn, error", c.LogLevel)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	if c.MaxDocumentBytes <= 0 {
		return fmt.Errorf("max document bytes must be positive, got %d", c.MaxDocumentBytes)
	}
	return nil
}
