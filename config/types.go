package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Bitbucket BitbucketConfig `mapstructure:"bitbucket"`
	Filter    FilterConfig    `mapstructure:"filter"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// BitbucketConfig holds Bitbucket Server connection details.
// Username and Password select basic auth; Token or TokenCommand select
// bearer auth. Leaving all of them empty sends anonymous requests.
type BitbucketConfig struct {
	URL          string `mapstructure:"url"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Token        string `mapstructure:"token"`
	TokenCommand string `mapstructure:"token_command"`

	TrustSSL        bool          `mapstructure:"trust_ssl"`
	Proxy           string        `mapstructure:"proxy"`
	FollowRedirects bool          `mapstructure:"follow_redirects"`
	Timeout         time.Duration `mapstructure:"timeout"`

	// PageLimit is the page size requested from the server, 0 for the server default
	PageLimit int `mapstructure:"page_limit"`
	// MaxPages caps list calls, 0 for no cap
	MaxPages int `mapstructure:"max_pages"`
}

// AuthMode names the configured authentication strategy
func (b BitbucketConfig) AuthMode() string {
	switch {
	case b.Token != "" || b.TokenCommand != "":
		return "token"
	case b.Username != "":
		return "basic"
	default:
		return "none"
	}
}

// FilterConfig maps preset names to filter expressions
type FilterConfig map[string]string

// OutputConfig controls how results are printed
type OutputConfig struct {
	// Format is "table", "json" or "auto" (table on a terminal, json otherwise)
	Format string `mapstructure:"format"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
