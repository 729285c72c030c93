// Package config loads onepager settings: defaults, then an optional YAML
// file, then ONEPAGER_* environment variables (a .env file is honoured).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"onepager/internal/compose"
)

// Source kinds.
const (
	SourceStatic = "static"
	SourceHTTP   = "http"
)

// PDF engines.
const (
	EngineNative = "native"
	EngineChrome = "chrome"
)

// Config is the full runtime configuration.
type Config struct {
	Source   SourceConfig     `yaml:"source"`
	Server   ServerConfig     `yaml:"server"`
	Output   OutputConfig     `yaml:"output"`
	Log      LogConfig        `yaml:"log"`
	Branding compose.Branding `yaml:"branding"`
}

// SourceConfig selects where the dataset comes from.
type SourceConfig struct {
	Kind string `yaml:"kind"`
	URL  string `yaml:"url"`
	// Timeout bounds the fetch; zero means none.
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig configures `onepager serve`.
type ServerConfig struct {
	Port int `yaml:"port"`
	// Refresh is how often, in seconds, the loading page re-polls.
	Refresh int `yaml:"refresh"`
}

// OutputConfig configures `onepager render`.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Engine string `yaml:"engine"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

// Default returns the built-in configuration: the compiled-in dataset,
// port 8080 and the native PDF engine.
func Default() *Config {
	return &Config{
		Source:   SourceConfig{Kind: SourceStatic},
		Server:   ServerConfig{Port: 8080, Refresh: 1},
		Output:   OutputConfig{Dir: ".", Engine: EngineNative},
		Log:      LogConfig{Dir: "logs", Level: "info"},
		Branding: compose.DefaultBranding(),
	}
}

// Override adjusts a loaded configuration before validation, e.g. from
// command-line flags.
type Override func(*Config)

// Load builds the configuration. path may be empty; a missing .env file is
// ignored. Overrides run after the environment is applied. The logo, if
// configured, is read into Branding.Logo.
func Load(path string, overrides ...Override) (*Config, error) {
	// Load .env if present
	godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.LoadLogo(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ONEPAGER_SOURCE"); v != "" {
		c.Source.Kind = strings.ToLower(v)
	}
	if v := os.Getenv("ONEPAGER_DATA_URL"); v != "" {
		c.Source.URL = v
		if os.Getenv("ONEPAGER_SOURCE") == "" {
			c.Source.Kind = SourceHTTP
		}
	}
	if v := os.Getenv("ONEPAGER_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ONEPAGER_FETCH_TIMEOUT: %w", err)
		}
		c.Source.Timeout = d
	}
	if v := os.Getenv("ONEPAGER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ONEPAGER_PORT: %w", err)
		}
		c.Server.Port = port
	}
	c.Log.Dir = getEnvOrDefault("ONEPAGER_LOG_DIR", c.Log.Dir)
	c.Log.Level = getEnvOrDefault("ONEPAGER_LOG_LEVEL", c.Log.Level)
	c.Output.Dir = getEnvOrDefault("ONEPAGER_OUTPUT_DIR", c.Output.Dir)
	c.Output.Engine = getEnvOrDefault("ONEPAGER_ENGINE", c.Output.Engine)
	c.Branding.LogoPath = getEnvOrDefault("ONEPAGER_LOGO", c.Branding.LogoPath)
	return nil
}

// LoadLogo reads Branding.LogoPath into Branding.Logo.
func (c *Config) LoadLogo() error {
	if c.Branding.LogoPath == "" {
		c.Branding.Logo = nil
		return nil
	}
	img, err := os.ReadFile(c.Branding.LogoPath)
	if err != nil {
		return fmt.Errorf("read logo: %w", err)
	}
	c.Branding.Logo = img
	return nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error
	switch c.Source.Kind {
	case SourceStatic:
	case SourceHTTP:
		if c.Source.URL == "" {
			errs = append(errs, errors.New("source kind http needs a url"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source kind %q", c.Source.Kind))
	}
	if c.Source.Timeout < 0 {
		errs = append(errs, errors.New("fetch timeout must not be negative"))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Server.Port))
	}
	if c.Output.Engine != EngineNative && c.Output.Engine != EngineChrome {
		errs = append(errs, fmt.Errorf("unknown pdf engine %q", c.Output.Engine))
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
