package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. BUCKETEER_BITBUCKET_TOKEN
const EnvPrefix = "BUCKETEER"

// Load loads the configuration from file and the environment. Without an
// explicit path a missing config file is not an error, so a setup driven
// purely by environment variables works.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".bucketeer"))
		}

		// Check /etc
		v.AddConfigPath("/etc/bucketeer/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key is registered so
// that environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	// Bitbucket defaults
	v.SetDefault("bitbucket.url", "")
	v.SetDefault("bitbucket.username", "")
	v.SetDefault("bitbucket.password", "")
	v.SetDefault("bitbucket.token", "")
	v.SetDefault("bitbucket.token_command", "")
	v.SetDefault("bitbucket.trust_ssl", false)
	v.SetDefault("bitbucket.proxy", "")
	v.SetDefault("bitbucket.follow_redirects", true)
	v.SetDefault("bitbucket.timeout", "30s")
	v.SetDefault("bitbucket.page_limit", 0)
	v.SetDefault("bitbucket.max_pages", 0)

	// Output defaults
	v.SetDefault("output.format", "auto")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	bb := cfg.Bitbucket
	if bb.URL == "" {
		return fmt.Errorf("bitbucket.url is required")
	}
	if u, err := url.Parse(bb.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("bitbucket.url must be an absolute http or https URL: %s", bb.URL)
	}

	if bb.Token != "" && bb.TokenCommand != "" {
		return fmt.Errorf("bitbucket.token and bitbucket.token_command are mutually exclusive")
	}
	if (bb.Token != "" || bb.TokenCommand != "") && (bb.Username != "" || bb.Password != "") {
		return fmt.Errorf("bitbucket token auth cannot be combined with username/password")
	}
	if bb.Password != "" && bb.Username == "" {
		return fmt.Errorf("bitbucket.username is required when bitbucket.password is set")
	}

	if bb.Proxy != "" {
		if u, err := url.Parse(bb.Proxy); err != nil || u.Host == "" {
			return fmt.Errorf("invalid bitbucket.proxy: %s", bb.Proxy)
		}
	}
	if bb.Timeout < 0 {
		return fmt.Errorf("bitbucket.timeout must not be negative")
	}
	if bb.PageLimit < 0 {
		return fmt.Errorf("bitbucket.page_limit must not be negative")
	}
	if bb.MaxPages < 0 {
		return fmt.Errorf("bitbucket.max_pages must not be negative")
	}

	for name, expression := range cfg.Filter {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter preset %q is empty", name)
		}
	}

	validOutput := map[string]bool{
		"auto":  true,
		"table": true,
		"json":  true,
	}
	if !validOutput[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s", cfg.Output.Format)
	}

	if err := ValidateLogLevel(cfg.Logging.Level); err != nil {
		return err
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateLogLevel checks level against the supported logging levels
func ValidateLogLevel(level string) error {
	if !validLevels[level] {
		return fmt.Errorf("invalid logging level: %s", level)
	}
	return nil
}
