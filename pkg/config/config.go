// Package config loads trackline's settings from <dataDir>/config.yaml,
// with TRACKLINE_* environment variables taking precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stefanpenner/trackline/pkg/kv"
	"github.com/stefanpenner/trackline/pkg/store"
)

const (
	FileName = "config.yaml"
	DirEnv   = "TRACKLINE_DIR"
)

// Backend names a kv.Gateway implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

var (
	ErrUnknownBackend = errors.New("unknown backend")
	ErrExists         = errors.New("config file already exists")
)

// Config captures runtime settings.
type Config struct {
	DataDir            string
	Backend            Backend
	ClockTick          time.Duration
	ReclassifyInterval time.Duration
	WriteTimeout       time.Duration
	LogLevel           string
	LogFile            string
	// LogJSON selects logrus's JSON formatter; config.yaml spells it
	// log_format: json.
	LogJSON bool
	Watch   bool
}

// fileConfig mirrors config.yaml. Durations are Go duration strings.
type fileConfig struct {
	Backend            string `yaml:"backend"`
	ClockTick          string `yaml:"clock_tick"`
	ReclassifyInterval string `yaml:"reclassify_interval"`
	WriteTimeout       string `yaml:"write_timeout"`
	LogLevel           string `yaml:"log_level"`
	LogFile            string `yaml:"log_file"`
	LogFormat          string `yaml:"log_format"`
	Watch              *bool  `yaml:"watch"`
}

// Default returns the settings used when config.yaml is absent.
func Default(dataDir string) Config {
	return Config{
		DataDir:            dataDir,
		Backend:            BackendFile,
		ClockTick:          time.Minute,
		ReclassifyInterval: 30 * time.Second,
		WriteTimeout:       store.DefaultWriteTimeout,
		LogLevel:           "info",
		LogFile:            filepath.Join(dataDir, "trackline.log"),
		Watch:              true,
	}
}

// Load reads dataDir/config.yaml over the defaults. A missing file is not
// an error; a malformed one is.
func Load(dataDir string) (Config, error) {
	cfg := Default(dataDir)

	data, err := os.ReadFile(filepath.Join(dataDir, FileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", FileName, err)
		}
	}

	cfg.Backend = Backend(getEnv("TRACKLINE_BACKEND", orDefault(fc.Backend, string(cfg.Backend))))
	cfg.ClockTick = getDurationEnv("TRACKLINE_CLOCK_TICK", parseDuration(fc.ClockTick, cfg.ClockTick))
	cfg.ReclassifyInterval = getDurationEnv("TRACKLINE_RECLASSIFY_INTERVAL", parseDuration(fc.ReclassifyInterval, cfg.ReclassifyInterval))
	cfg.WriteTimeout = getDurationEnv("TRACKLINE_WRITE_TIMEOUT", parseDuration(fc.WriteTimeout, cfg.WriteTimeout))
	cfg.LogLevel = getEnv("TRACKLINE_LOG_LEVEL", orDefault(fc.LogLevel, cfg.LogLevel))
	cfg.LogFile = getEnv("TRACKLINE_LOG_FILE", orDefault(fc.LogFile, cfg.LogFile))
	cfg.LogJSON = strings.EqualFold(getEnv("TRACKLINE_LOG_FORMAT", orDefault(fc.LogFormat, "text")), "json")
	if fc.Watch != nil {
		cfg.Watch = *fc.Watch
	}
	cfg.Watch = getBoolEnv("TRACKLINE_WATCH", cfg.Watch)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the backend name and that every interval is positive.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	if c.ClockTick <= 0 || c.ReclassifyInterval <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("intervals must be positive")
	}
	return nil
}

// Save writes c back to dataDir/config.yaml.
func (c Config) Save() error {
	watch := c.Watch
	fc := fileConfig{
		Backend:            string(c.Backend),
		ClockTick:          c.ClockTick.String(),
		ReclassifyInterval: c.ReclassifyInterval.String(),
		WriteTimeout:       c.WriteTimeout.String(),
		LogLevel:           c.LogLevel,
		LogFile:            c.LogFile,
		LogFormat:          "text",
		Watch:              &watch,
	}
	if c.LogJSON {
		fc.LogFormat = "json"
	}
	data, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.DataDir, FileName), data, 0o644)
}

// Init writes the default settings to dataDir/config.yaml and returns its
// path. An existing file is left alone and reported as ErrExists.
func Init(dataDir string) (string, error) {
	path := filepath.Join(dataDir, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%w: %s", ErrExists, path)
	}
	return path, Default(dataDir).Save()
}

// OpenGateway opens the configured storage backend. The returned closer
// releases backend resources and is never nil.
func (c Config) OpenGateway() (kv.Gateway, io.Closer, error) {
	switch c.Backend {
	case BackendFile:
		d, err := kv.NewDir(c.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return d, nopCloser{}, nil
	case BackendSQLite:
		if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
			return nil, nil, err
		}
		s, err := kv.OpenSQLite(filepath.Join(c.DataDir, "trackline.db"))
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case BackendMemory:
		return kv.NewMemory(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
}

// ResolveDataDir picks the data directory: TRACKLINE_DIR, then flagDir,
// then the OS default.
func ResolveDataDir(flagDir string) string {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir
	}
	if flagDir != "" {
		return flagDir
	}
	return DefaultDataDir()
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return parseDuration(value, fallback)
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
