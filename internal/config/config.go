// Package config loads the configuration of the eui64d service.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/mdlayher/eui64calc/eui64"
	"github.com/mdlayher/eui64calc/internal/logging"
)

// A Format is a configuration file format.
type Format string

// Supported Format values.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Environment variables which override file configuration.
const (
	EnvListen          = "EUI64_LISTEN"
	EnvPort            = "PORT"
	EnvLogLevel        = "EUI64_LOG_LEVEL"
	EnvRejectMulticast = "EUI64_REJECT_MULTICAST"
)

var errUnsupportedFormat = errors.New("config: unsupported format")

// defaults are loaded before any file or environment values.
var defaults = map[string]any{
	"listen":                  []string{":8080"},
	"shutdown_timeout":        "5s",
	"read_header_timeout":     "5s",
	"policy.reject_multicast": false,
	"policy.reject_host_bits": false,
	"log.level":               "info",
	"log.format":              "text",
	"log.max_size_mb":         10,
	"log.max_backups":         3,
	"metrics.enabled":         true,
}

// Config is the eui64d service configuration.
type Config struct {
	// Listen holds TCP "host:port" addresses and "unix:/path" socket paths.
	Listen            []string       `koanf:"listen"`
	ShutdownTimeout   time.Duration  `koanf:"shutdown_timeout"`
	ReadHeaderTimeout time.Duration  `koanf:"read_header_timeout"`
	Policy            Policy         `koanf:"policy"`
	Log               logging.Config `koanf:"log"`
	Metrics           Metrics        `koanf:"metrics"`
}

// Policy holds the calculation policies applied to every request.
type Policy struct {
	RejectMulticast bool `koanf:"reject_multicast"`
	RejectHostBits  bool `koanf:"reject_host_bits"`
}

// Calculator returns an eui64.Calculator configured with p.
func (p Policy) Calculator() eui64.Calculator {
	var c eui64.Calculator
	if p.RejectMulticast {
		c.Multicast = eui64.RejectMulticast
	}
	if p.RejectHostBits {
		c.HostBits = eui64.RejectHostBits
	}

	return c
}

// Metrics controls the Prometheus endpoint.
type Metrics struct {
	Enabled bool `koanf:"enabled"`
}

// Load reads the configuration file at path, detecting its format by
// extension, and applies environment overrides looked up with getenv. An empty
// path loads only defaults and environment overrides.
func Load(path string, getenv func(string) string) (*Config, error) {
	if path == "" {
		return Parse(nil, FormatYAML, getenv)
	}

	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read: %w", err)
	}

	return Parse(b, format, getenv)
}

// Parse parses configuration data in the given format and applies environment
// overrides looked up with getenv, which may be nil.
func Parse(b []byte, format Format, getenv func(string) string) (*Config, error) {
	k := koanf.New(".")
	for key, v := range defaults {
		if err := k.Set(key, v); err != nil {
			return nil, fmt.Errorf("config: failed to set default %q: %w", key, err)
		}
	}

	if len(b) > 0 {
		var p koanf.Parser
		switch format {
		case FormatYAML:
			p = yaml.Parser()
		case FormatJSON:
			p = json.Parser()
		default:
			return nil, fmt.Errorf("%w: %q", errUnsupportedFormat, format)
		}

		if err := k.Load(rawbytes.Provider(b), p); err != nil {
			return nil, fmt.Errorf("config: failed to parse: %w", err)
		}
	}

	if getenv != nil {
		if err := applyEnv(k, getenv); err != nil {
			return nil, err
		}
	}

	var c Config
	if err := k.UnmarshalWithConf("", &c, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("config: failed to decode: %w", err)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// applyEnv overrides file values with any environment variables that are set.
func applyEnv(k *koanf.Koanf, getenv func(string) string) error {
	// PORT is honored for compatibility; an explicit listen list wins.
	if port := getenv(EnvPort); port != "" {
		if _, err := strconv.ParseUint(port, 10, 16); err != nil {
			return fmt.Errorf("config: invalid %s %q: %w", EnvPort, port, err)
		}
		if err := k.Set("listen", []string{":" + port}); err != nil {
			return err
		}
	}

	if s := getenv(EnvListen); s != "" {
		var addrs []string
		for _, a := range strings.Split(s, ",") {
			if a = strings.TrimSpace(a); a != "" {
				addrs = append(addrs, a)
			}
		}
		if err := k.Set("listen", addrs); err != nil {
			return err
		}
	}

	if s := getenv(EnvLogLevel); s != "" {
		if err := k.Set("log.level", s); err != nil {
			return err
		}
	}

	if s := getenv(EnvRejectMulticast); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("config: invalid %s %q: %w", EnvRejectMulticast, s, err)
		}
		if err := k.Set("policy.reject_multicast", b); err != nil {
			return err
		}
	}

	return nil
}

// validate reports the first invalid key in c.
func (c *Config) validate() error {
	if len(c.Listen) == 0 {
		return errors.New("config: listen: at least one address is required")
	}
	for _, a := range c.Listen {
		if strings.TrimSpace(a) == "" {
			return errors.New("config: listen: empty address")
		}
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: shutdown_timeout: must be positive, got %s", c.ShutdownTimeout)
	}
	if c.ReadHeaderTimeout <= 0 {
		return fmt.Errorf("config: read_header_timeout: must be positive, got %s", c.ReadHeaderTimeout)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format: must be text or json, got %q", c.Log.Format)
	}

	return nil
}

func detectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", errUnsupportedFormat, ext)
	}
}
