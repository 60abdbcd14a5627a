package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/project-report/internal/config"
	"github.com/iwvelando/project-report/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address       string               `yaml:"address"`
	MaxUploadSize string               `yaml:"maxUploadSize"`
	ReadTimeout   string               `yaml:"readTimeout,omitempty"`
	WriteTimeout  string               `yaml:"writeTimeout,omitempty"`
	Logging       config.LoggingConfig `yaml:"logging"`

	uploadSizeBytes int64
	readTimeout     time.Duration
	writeTimeout    time.Duration
}

const (
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
)

func defaultConfig() *Config {
	return &Config{
		Address:         constants.DefaultServerAddress,
		MaxUploadSize:   strconv.FormatInt(constants.DefaultMaxUploadSizeBytes, 10),
		uploadSizeBytes: constants.DefaultMaxUploadSizeBytes,
		readTimeout:     defaultReadTimeout,
		writeTimeout:    defaultWriteTimeout,
	}
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// ReadTimeoutDuration returns the request read timeout.
func (c *Config) ReadTimeoutDuration() time.Duration {
	return c.readTimeout
}

// WriteTimeoutDuration returns the response write timeout.
func (c *Config) WriteTimeoutDuration() time.Duration {
	return c.writeTimeout
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	bytes, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = bytes
	c.MaxUploadSize = strconv.FormatInt(bytes, 10)

	if c.readTimeout, err = parseTimeout(c.ReadTimeout, defaultReadTimeout); err != nil {
		return fmt.Errorf("invalid readTimeout: %w", err)
	}
	if c.writeTimeout, err = parseTimeout(c.WriteTimeout, defaultWriteTimeout); err != nil {
		return fmt.Errorf("invalid writeTimeout: %w", err)
	}
	return nil
}

func parseTimeout(value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return fallback, nil
	}
	return d, nil
}

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into
// bytes. An empty string yields the default upload limit.
func ParseSize(value string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	split := strings.IndexFunc(trimmed, func(r rune) bool { return r < '0' || r > '9' })
	if split < 0 {
		split = len(trimmed)
	}
	if split == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	n, err := strconv.ParseInt(trimmed[:split], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}
	multiplier, ok := sizeUnits[strings.TrimSpace(trimmed[split:])]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q", strings.TrimSpace(trimmed[split:]))
	}
	if n > 0 && n > (1<<63-1)/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}
