package config

import (
	"fmt"
	"strings"

	"github.com/Layr-Labs/chain-sigverify/pkg/verifier"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for sigverify configuration
const (
	EnvSchemes   = "SIGVERIFY_SCHEMES"
	EnvPort      = "SIGVERIFY_PORT"
	EnvVerbose   = "SIGVERIFY_VERBOSE"
	EnvRateLimit = "SIGVERIFY_RATE_LIMIT"
	EnvRateBurst = "SIGVERIFY_RATE_BURST"
)

const (
	DefaultPort      = 8080
	DefaultRateLimit = 100.0 // requests per second, 0 disables limiting
	DefaultRateBurst = 200
)

// Config represents the runtime configuration of the sigverify binary
type Config struct {
	// EnabledSchemes restricts which compiled-in schemes are registered.
	// An empty list enables every compiled-in scheme.
	EnabledSchemes []verifier.Scheme `json:"enabled_schemes"`

	// HTTP server settings
	Port      int     `json:"port"`
	RateLimit float64 `json:"rate_limit"`
	RateBurst int     `json:"rate_burst"`

	Verbose bool `json:"verbose"`
}

// NewDefaultConfig returns a config with every scheme enabled and default server settings
func NewDefaultConfig() *Config {
	return &Config{
		Port:      DefaultPort,
		RateLimit: DefaultRateLimit,
		RateBurst: DefaultRateBurst,
	}
}

// ParseSchemes parses a comma separated scheme list such as "ethereum, solana".
// Blank entries are ignored; unknown names are an error.
func ParseSchemes(list string) ([]verifier.Scheme, error) {
	var schemes []verifier.Scheme
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		scheme, err := verifier.ParseScheme(name)
		if err != nil {
			return nil, fmt.Errorf("invalid scheme list %q: %w", list, err)
		}
		schemes = append(schemes, scheme)
	}
	return schemes, nil
}

// Validate validates the configuration, reporting every problem at once
func (c *Config) Validate() error {
	var allErrors field.ErrorList

	schemesPath := field.NewPath("enabledSchemes")
	seen := make(map[verifier.Scheme]bool, len(c.EnabledSchemes))
	for i, scheme := range c.EnabledSchemes {
		if _, err := verifier.ParseScheme(scheme.String()); err != nil {
			allErrors = append(allErrors, field.NotSupported(schemesPath.Index(i), scheme.String(), GetSupportedSchemes()))
			continue
		}
		if seen[scheme] {
			allErrors = append(allErrors, field.Duplicate(schemesPath.Index(i), scheme.String()))
		}
		seen[scheme] = true
	}

	if c.Port < 1 || c.Port > 65535 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("port"), c.Port, "port must be between 1-65535"))
	}

	if c.RateLimit < 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("rateLimit"), c.RateLimit, "rate limit cannot be negative"))
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("rateBurst"), c.RateBurst, "burst must be at least 1 when rate limiting is enabled"))
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// SchemeEnabled reports whether scheme should be registered
func (c *Config) SchemeEnabled(scheme verifier.Scheme) bool {
	if len(c.EnabledSchemes) == 0 {
		return true
	}
	for _, s := range c.EnabledSchemes {
		if s == scheme {
			return true
		}
	}
	return false
}

// GetSupportedSchemes returns all scheme names as strings
func GetSupportedSchemes() []string {
	known := verifier.KnownSchemes()
	names := make([]string, 0, len(known))
	for _, s := range known {
		names = append(names, s.String())
	}
	return names
}

// GetSupportedSchemesString returns supported schemes for CLI help
func GetSupportedSchemesString() string {
	return strings.Join(GetSupportedSchemes(), ", ")
}
