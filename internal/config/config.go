package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr      = "127.0.0.1:3000"
	defaultControlAddr     = "127.0.0.1:3001"
	defaultDataFile        = "apps.json"
	defaultStaticDir       = "static"
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
	defaultShutdownTimeout = 5 * time.Second

	envListenAddr      = "APPDECK_LISTEN_ADDR"
	envControlAddr     = "APPDECK_CONTROL_ADDR"
	envDataFile        = "APPDECK_DATA_FILE"
	envStaticDir       = "APPDECK_STATIC_DIR"
	envLogLevel        = "APPDECK_LOG_LEVEL"
	envLogFormat       = "APPDECK_LOG_FORMAT"
	envShutdownTimeout = "APPDECK_SHUTDOWN_TIMEOUT"
)

// Config aggregates addresses, paths and timeouts for the server.
type Config struct {
	ListenAddr      string
	ControlAddr     string
	DataFile        string
	StaticDir       string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:      defaultListenAddr,
		ControlAddr:     defaultControlAddr,
		DataFile:        defaultDataFile,
		StaticDir:       defaultStaticDir,
		LogLevel:        defaultLogLevel,
		LogFormat:       defaultLogFormat,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

// Load builds a Config from an optional JSON, TOML or YAML file plus environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := loadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		if err := raw.apply(&cfg); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// BaseURL is the HTTP address clients use to reach the API.
func (c Config) BaseURL() string {
	return "http://" + c.ListenAddr
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setString(envListenAddr, &cfg.ListenAddr)
	setString(envControlAddr, &cfg.ControlAddr)
	setString(envDataFile, &cfg.DataFile)
	setString(envStaticDir, &cfg.StaticDir)
	setString(envLogLevel, &cfg.LogLevel)
	setString(envLogFormat, &cfg.LogFormat)

	if v := os.Getenv(envShutdownTimeout); v != "" {
		if dur, err := time.ParseDuration(v); err == nil && dur > 0 {
			cfg.ShutdownTimeout = dur
		} else {
			slog.Warn("ignoring invalid duration", "env", envShutdownTimeout, "value", v, "error", err)
		}
	}
}

type fileConfig struct {
	ListenAddr      string `json:"listen_addr" toml:"listen_addr" yaml:"listen_addr"`
	ControlAddr     string `json:"control_addr" toml:"control_addr" yaml:"control_addr"`
	DataFile        string `json:"data_file" toml:"data_file" yaml:"data_file"`
	StaticDir       string `json:"static_dir" toml:"static_dir" yaml:"static_dir"`
	LogLevel        string `json:"log_level" toml:"log_level" yaml:"log_level"`
	LogFormat       string `json:"log_format" toml:"log_format" yaml:"log_format"`
	ShutdownTimeout string `json:"shutdown_timeout" toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

func loadFromFile(path string) (fileConfig, error) {
	var raw fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return raw, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".json", "":
		err = json.Unmarshal(data, &raw)
	default:
		return raw, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return raw, err
}

func (raw fileConfig) apply(cfg *Config) error {
	for _, f := range []struct {
		src string
		dst *string
	}{
		{raw.ListenAddr, &cfg.ListenAddr},
		{raw.ControlAddr, &cfg.ControlAddr},
		{raw.DataFile, &cfg.DataFile},
		{raw.StaticDir, &cfg.StaticDir},
		{raw.LogLevel, &cfg.LogLevel},
		{raw.LogFormat, &cfg.LogFormat},
	} {
		if v := strings.TrimSpace(f.src); v != "" {
			*f.dst = v
		}
	}

	if raw.ShutdownTimeout != "" {
		dur, err := time.ParseDuration(raw.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("parse shutdown_timeout: %w", err)
		}
		if dur <= 0 {
			return errors.New("shutdown_timeout must be > 0")
		}
		cfg.ShutdownTimeout = dur
	}
	return nil
}
