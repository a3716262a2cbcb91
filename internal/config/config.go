// Package config provides YAML configuration loading and validation.
// It handles environment variable expansion, default value application,
// and synthesizes a single-provider config when only an RPC URL is given.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvRPCURL is the fallback environment variable for the primary endpoint.
const EnvRPCURL = "RPC_URL"

// EnvRPCURL2 is the fallback environment variable for the secondary endpoint
// used by the verify command.
const EnvRPCURL2 = "RPC_URL_2"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Providers []Provider `yaml:"providers"` // RPC endpoint providers
	Defaults  Defaults   `yaml:"defaults"`  // Settings applied to all providers
}

// Provider is a single Ethereum RPC endpoint. URL supports ${VAR} expansion.
type Provider struct {
	Name    string        `yaml:"name"`
	URL     string        `yaml:"url"`
	Type    string        `yaml:"type"`              // "public", "self_hosted", "enterprise" (informational)
	Timeout time.Duration `yaml:"timeout,omitempty"` // falls back to Defaults.Timeout
}

// Defaults holds settings shared by all providers unless overridden.
type Defaults struct {
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	BackoffInitial time.Duration `yaml:"backoff_initial"`
	BackoffMax     time.Duration `yaml:"backoff_max"`
	WatchInterval  time.Duration `yaml:"watch_interval"`
	WarnFeeEth     float64       `yaml:"warn_fee_eth"` // high-fee threshold in ETH
}

// applyFallbacks fills zero-valued defaults so a minimal config (or a
// synthesized single-provider one) works out of the box.
func (d *Defaults) applyFallbacks() {
	if d.Timeout == 0 {
		d.Timeout = 15 * time.Second
	}
	if d.BackoffInitial == 0 {
		d.BackoffInitial = 100 * time.Millisecond
	}
	if d.BackoffMax == 0 {
		d.BackoffMax = 2 * time.Second
	}
	if d.WatchInterval == 0 {
		d.WatchInterval = 30 * time.Second
	}
	if d.WarnFeeEth == 0 {
		d.WarnFeeEth = 0.05
	}
}

// Validate checks the configuration and applies per-provider defaults.
// It may emit warnings to stderr for suspicious values but only fails on
// genuinely invalid input.
func (c *Config) Validate() error {
	c.Defaults.applyFallbacks()

	if c.Defaults.MaxRetries < 0 {
		return fmt.Errorf("defaults.max_retries must be >= 0")
	}
	if c.Defaults.WarnFeeEth < 0 {
		return fmt.Errorf("defaults.warn_fee_eth must be >= 0")
	}
	if len(c.Providers) == 0 {
		return fmt.Errorf("at least one provider is required")
	}

	warnTimeout := func(scope string, d time.Duration) {
		const low = 500 * time.Millisecond
		const high = 2 * time.Minute
		if d > 0 && d < low {
			fmt.Fprintf(os.Stderr, "Warning: %s timeout is very low (%s); requests may fail under normal network jitter\n", scope, d)
		}
		if d > high {
			fmt.Fprintf(os.Stderr, "Warning: %s timeout is very high (%s); failures may take a long time to surface\n", scope, d)
		}
	}
	warnTimeout("defaults", c.Defaults.Timeout)

	seen := make(map[string]bool, len(c.Providers))
	for i := range c.Providers {
		p := &c.Providers[i]
		if p.Name == "" {
			p.Name = fmt.Sprintf("provider-%d", i+1)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate provider name %q", p.Name)
		}
		seen[p.Name] = true

		if p.Timeout == 0 {
			p.Timeout = c.Defaults.Timeout
		}
		if p.URL == "" {
			return fmt.Errorf("provider %s: url is required", p.Name)
		}

		u, err := url.Parse(p.URL)
		if err != nil {
			return fmt.Errorf("provider %s: invalid url: %w", p.Name, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("provider %s: invalid url (missing scheme or host)", p.Name)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("provider %s: invalid url scheme %q (expected http or https)", p.Name, u.Scheme)
		}

		warnTimeout(fmt.Sprintf("provider %s", p.Name), p.Timeout)
	}

	return nil
}

// Load reads and parses a YAML configuration file. URLs can use ${VAR} syntax,
// expanded with os.ExpandEnv before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromURL synthesizes a single-provider config from a bare RPC URL,
// for invocations that pass --rpc (or rely on RPC_URL) without a config file.
func FromURL(rpcURL string) (*Config, error) {
	cfg := &Config{
		Providers: []Provider{{Name: "rpc", URL: rpcURL, Type: "public"}},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve builds the effective config for a command invocation.
// Precedence: explicit --rpc URL > config file (when it exists) > RPC_URL env.
func Resolve(cfgPath, rpcURL string) (*Config, error) {
	if rpcURL != "" {
		return FromURL(rpcURL)
	}
	if cfgPath != "" {
		if _, err := os.Stat(cfgPath); err == nil {
			return Load(cfgPath)
		}
	}
	if env := os.Getenv(EnvRPCURL); env != "" {
		return FromURL(env)
	}
	return nil, fmt.Errorf("no RPC endpoint configured: pass --rpc, set %s, or provide a config file", EnvRPCURL)
}

// LoadEnv loads variables from a .env file in the current working directory,
// if one exists. Missing files are fine; system environment variables are
// still available. Values already set in the environment are not overridden.
func LoadEnv() {
	_ = godotenv.Load()
}
