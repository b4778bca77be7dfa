package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Auth type constants
const (
	AuthTypeNone   = "none"
	AuthTypeBasic  = "basic"
	AuthTypeAPIKey = "apikey"
)

// AuthSettings configuration for SSE transport authentication
type AuthSettings struct {
	Type    string            `mapstructure:"type"` // AuthTypeNone, AuthTypeBasic, or AuthTypeAPIKey
	Basic   BasicAuthSettings `mapstructure:"basic"`
	APIKeys []string          `mapstructure:"api_keys"`
}

// BasicAuthSettings configuration for basic auth
type BasicAuthSettings struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ConduitSettings configuration for the Phabricator Conduit API
type ConduitSettings struct {
	URL     string        `mapstructure:"url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ReviewSettings configuration for feedback presentation
type ReviewSettings struct {
	ContextRadius    int `mapstructure:"context_radius"`
	MaxSearchResults int `mapstructure:"max_search_results"`
}

// Settings application settings
type Settings struct {
	Transport string          `mapstructure:"transport"`
	Host      string          `mapstructure:"host"`
	Port      int             `mapstructure:"port"`
	Auth      AuthSettings    `mapstructure:"auth"`
	Conduit   ConduitSettings `mapstructure:"conduit"`
	Review    ReviewSettings  `mapstructure:"review"`
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// If flags is nil, only env vars and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values
	v.SetDefault("transport", "stdio")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("auth.type", AuthTypeNone)

	v.SetDefault("conduit.url", "https://phabricator.wikimedia.org/api")
	v.SetDefault("conduit.timeout", 30*time.Second)
	v.SetDefault("review.context_radius", 7)
	v.SetDefault("review.max_search_results", 20)

	// Environment variables
	v.SetEnvPrefix("DIFFERENTIAL_MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific env vars for nested config
	_ = v.BindEnv("auth.type", "DIFFERENTIAL_MCP_AUTH_TYPE")
	_ = v.BindEnv("auth.basic.username", "DIFFERENTIAL_MCP_AUTH_BASIC_USERNAME")
	_ = v.BindEnv("auth.basic.password", "DIFFERENTIAL_MCP_AUTH_BASIC_PASSWORD")
	_ = v.BindEnv("auth.api_keys", "DIFFERENTIAL_MCP_AUTH_API_KEYS")

	// The conduit endpoint keeps the env var names the Phabricator ecosystem
	// already uses, with prefixed variants taking precedence.
	_ = v.BindEnv("conduit.url", "DIFFERENTIAL_MCP_CONDUIT_URL", "PHABRICATOR_URL")
	_ = v.BindEnv("conduit.token", "DIFFERENTIAL_MCP_CONDUIT_TOKEN", "PHABRICATOR_TOKEN")
	_ = v.BindEnv("conduit.timeout", "DIFFERENTIAL_MCP_CONDUIT_TIMEOUT")
	_ = v.BindEnv("review.context_radius", "DIFFERENTIAL_MCP_REVIEW_CONTEXT_RADIUS")
	_ = v.BindEnv("review.max_search_results", "DIFFERENTIAL_MCP_REVIEW_MAX_SEARCH_RESULTS")

	// Bind CLI flags if provided (highest priority)
	if flags != nil {
		_ = v.BindPFlag("transport", flags.Lookup("transport"))
		_ = v.BindPFlag("host", flags.Lookup("host"))
		_ = v.BindPFlag("port", flags.Lookup("port"))
		_ = v.BindPFlag("auth.type", flags.Lookup("auth-type"))
		_ = v.BindPFlag("auth.basic.username", flags.Lookup("auth-basic-username"))
		_ = v.BindPFlag("auth.basic.password", flags.Lookup("auth-basic-password"))
		_ = v.BindPFlag("auth.api_keys", flags.Lookup("auth-api-keys"))

		_ = v.BindPFlag("conduit.url", flags.Lookup("conduit-url"))
		_ = v.BindPFlag("conduit.token", flags.Lookup("conduit-token"))
		_ = v.BindPFlag("conduit.timeout", flags.Lookup("conduit-timeout"))
		_ = v.BindPFlag("review.context_radius", flags.Lookup("context-radius"))
		_ = v.BindPFlag("review.max_search_results", flags.Lookup("max-search-results"))
	}

	// Helper to look for .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if .env doesn't exist

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	settings.Auth.APIKeys = splitAndTrim(settings.Auth.APIKeys)

	return &settings, nil
}

// splitAndTrim expands comma-separated entries and trims whitespace, dropping
// empties. Env vars deliver list values as a single comma-joined string.
func splitAndTrim(values []string) []string {
	var result []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
	}
	return result
}

// ValidateSettings checks for conflicting configurations.
// Returns an error if the settings contain mutually exclusive or incomplete config.
func ValidateSettings(s *Settings) error {
	// Validate transport type
	switch s.Transport {
	case "stdio", "sse":
		// valid
	default:
		return errors.New("transport must be 'stdio' or 'sse', got: " + s.Transport)
	}

	hasBasicCreds := s.Auth.Basic.Username != "" || s.Auth.Basic.Password != ""
	hasAPIKeys := len(s.Auth.APIKeys) > 0

	switch s.Auth.Type {
	case AuthTypeNone, "":
		if hasBasicCreds || hasAPIKeys {
			return errors.New("auth-type 'none' is incompatible with auth credentials")
		}
	case AuthTypeBasic:
		if hasAPIKeys {
			return errors.New("auth-type 'basic' is mutually exclusive with auth-api-keys")
		}
		if s.Auth.Basic.Username == "" || s.Auth.Basic.Password == "" {
			return errors.New("auth-type 'basic' requires both username and password")
		}
	case AuthTypeAPIKey:
		if hasBasicCreds {
			return errors.New("auth-type 'apikey' is mutually exclusive with basic auth credentials")
		}
		if !hasAPIKeys {
			return errors.New("auth-type 'apikey' requires at least one API key")
		}
	default:
		return errors.New("unknown auth-type: " + s.Auth.Type)
	}

	return validateReviewSettings(s)
}

func validateReviewSettings(s *Settings) error {
	if s.Conduit.URL == "" {
		return errors.New("conduit-url cannot be empty")
	}
	if s.Conduit.Timeout <= 0 {
		return errors.New("conduit-timeout must be positive")
	}
	if s.Review.ContextRadius < 0 {
		return errors.New("context-radius must be non-negative")
	}
	if s.Review.MaxSearchResults <= 0 {
		return errors.New("max-search-results must be positive")
	}
	return nil
}
