// Package config provides configuration management for the sprout site
// using Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// Values come from .sprout.yml (or the file named by --config or
// SPROUT_CONFIG_FILE) and can be overridden with SPROUT_<SECTION>_<KEY>
// environment variables, e.g. SPROUT_SERVER_PORT=9000.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	siteerrors "github.com/conneroisu/sprout/internal/errors"
	"github.com/conneroisu/sprout/internal/logging"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Content     ContentConfig     `mapstructure:"content" yaml:"content"`
	Development DevelopmentConfig `mapstructure:"development" yaml:"development"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
	Search      SearchConfig      `mapstructure:"search" yaml:"search"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port" yaml:"port"`
	Host           string   `mapstructure:"host" yaml:"host"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	Environment    string   `mapstructure:"environment" yaml:"environment"`
}

// ContentConfig locates the guide and changelog. An empty Dir selects the
// content embedded in the binary.
type ContentConfig struct {
	Dir       string `mapstructure:"dir" yaml:"dir"`
	Guide     string `mapstructure:"guide" yaml:"guide"`
	Changelog string `mapstructure:"changelog" yaml:"changelog"`
	Highlight string `mapstructure:"highlight_style" yaml:"highlight_style"`
}

type DevelopmentConfig struct {
	HotReload     bool `mapstructure:"hot_reload" yaml:"hot_reload"`
	DebounceMilli int  `mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type SearchConfig struct {
	Enabled    bool `mapstructure:"enabled" yaml:"enabled"`
	MaxResults int  `mapstructure:"max_results" yaml:"max_results"`
}

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// BindEnvironment enables SPROUT_<SECTION>_<KEY> overrides on v.
func BindEnvironment(v *viper.Viper) {
	v.SetEnvPrefix("SPROUT")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.environment", "development")
	v.SetDefault("content.guide", "guide.yaml")
	v.SetDefault("content.changelog", "changelog.yaml")
	v.SetDefault("content.highlight_style", "github")
	v.SetDefault("development.hot_reload", false)
	v.SetDefault("development.debounce_ms", 300)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("search.enabled", true)
	v.SetDefault("search.max_results", 10)
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads the configuration from v, applying defaults for anything
// unset, and validates it.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Flags registered as "log-level" land outside the logging section.
	if v.IsSet("log-level") {
		config.Logging.Level = v.GetString("log-level")
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Addr returns the host:port the server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsProduction reports whether the server runs in the production
// environment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// LoggerConfig derives the logger configuration.
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	level, _ := logging.ParseLevel(c.Logging.Level)
	lc := logging.DefaultConfig()
	lc.Level = level
	lc.Format = c.Logging.Format

	return lc
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := validateContentConfig(&config.Content); err != nil {
		return fmt.Errorf("content config: %w", err)
	}

	if _, err := logging.ParseLevel(config.Logging.Level); err != nil {
		return siteerrors.NewConfigError(siteerrors.ErrCodeConfigInvalid, err.Error())
	}
	if config.Logging.Format != "text" && config.Logging.Format != "json" {
		return siteerrors.NewConfigError(
			siteerrors.ErrCodeConfigInvalid,
			fmt.Sprintf("logging format %q must be text or json", config.Logging.Format),
		)
	}

	if config.Development.DebounceMilli < 0 {
		return siteerrors.NewConfigError(siteerrors.ErrCodeConfigInvalid, "debounce_ms must not be negative")
	}
	if config.Search.MaxResults < 1 {
		config.Search.MaxResults = 10
	}

	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// 0 lets the OS pick a port in tests.
	if config.Port < 0 || config.Port > 65535 {
		return siteerrors.NewConfigError(
			siteerrors.ErrCodeConfigInvalid,
			fmt.Sprintf("port %d is not in valid range 0-65535", config.Port),
		)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return siteerrors.NewConfigError(
					siteerrors.ErrCodeConfigInvalid,
					"host contains dangerous character: "+char,
				)
			}
		}
	}

	return nil
}

// validateContentConfig checks that content file names stay inside the
// content directory.
func validateContentConfig(config *ContentConfig) error {
	for field, name := range map[string]string{"guide": config.Guide, "changelog": config.Changelog} {
		if name == "" {
			return siteerrors.NewConfigError(siteerrors.ErrCodeConfigInvalid, field+" file must be set")
		}
		clean := filepath.Clean(name)
		if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
			return siteerrors.NewConfigError(
				siteerrors.ErrCodeConfigInvalid,
				fmt.Sprintf("%s file %q must be relative to the content directory", field, name),
			)
		}
	}

	return nil
}
