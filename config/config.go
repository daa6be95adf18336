package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/andaloo23/music-copilot/constants"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the service configuration
type Config struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	LogLevel       string   `yaml:"log_level"`
}

// CLIFlags holds parsed CLI flags, empty values are ignored
type CLIFlags struct {
	ConfigPath     string
	Addr           string
	AllowedOrigins []string
}

func Default() *Config {
	return &Config{
		Addr:           constants.DefaultAddr,
		AllowedOrigins: []string{constants.DefaultAllowedOrigins},
		LogLevel:       constants.DefaultLogLevel,
	}
}

// Load loads configuration with priority: CLI flags > env vars > config file > default
func Load(flags CLIFlags) (*Config, error) {
	cfg := Default()

	path, explicit := configPath(flags)
	fileConfig, err := loadConfigFile(path)
	switch {
	case err == nil:
		cfg.merge(fileConfig)
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// no config file is fine
	default:
		return nil, err
	}

	cfg.merge(&Config{
		Addr:           os.Getenv("COPILOT_ADDR"),
		AllowedOrigins: parseCommaSeparated(os.Getenv("COPILOT_ALLOWED_ORIGINS")),
		LogLevel:       os.Getenv("COPILOT_LOG_LEVEL"),
	})

	cfg.merge(&Config{
		Addr:           flags.Addr,
		AllowedOrigins: flags.AllowedOrigins,
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr is empty", ErrInvalidConfig)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

func (c *Config) merge(o *Config) {
	if o.Addr != "" {
		c.Addr = o.Addr
	}
	if len(o.AllowedOrigins) > 0 {
		c.AllowedOrigins = o.AllowedOrigins
	}
	if o.LogLevel != "" {
		c.LogLevel = strings.ToLower(o.LogLevel)
	}
}

func configPath(flags CLIFlags) (string, bool) {
	if flags.ConfigPath != "" {
		return flags.ConfigPath, true
	}
	if p := os.Getenv("COPILOT_CONFIG"); p != "" {
		return p, true
	}
	return constants.DefaultConfigFile, false
}

func loadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return &cfg, nil
}

func parseCommaSeparated(s string) []string {
	var res []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
