package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Category collision policies. See graph.CategoryPolicy for semantics.
const (
	CategoryPolicyFirst  = "first"
	CategoryPolicyStrict = "strict"
)

// Config holds all configuration for the application
type Config struct {
	Input          string `koanf:"input"`
	Output         string `koanf:"output"`
	WebMode        bool   `koanf:"web"`
	Port           int    `koanf:"port"`
	Watch          bool   `koanf:"watch"`
	OpenBrowser    bool   `koanf:"open"`
	CategoryPolicy string `koanf:"category-policy"`
	Verbosity      string `koanf:"verbosity"`
	VerboseCnt     int    `koanf:"verbose"`
}

// Validate rejects option combinations that cannot work
func (c *Config) Validate() error {
	switch c.CategoryPolicy {
	case CategoryPolicyFirst, CategoryPolicyStrict:
	default:
		return fmt.Errorf("invalid category-policy %q (want %q or %q)",
			c.CategoryPolicy, CategoryPolicyFirst, CategoryPolicyStrict)
	}
	if c.Watch && !c.WebMode {
		return fmt.Errorf("--watch requires --web")
	}
	return nil
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := map[string]interface{}{
		"input":           "merged_disorders_data.csv",
		"output":          "disorder_network.html",
		"web":             false,
		"port":            8080,
		"watch":           false,
		"open":            true,
		"category-policy": CategoryPolicyFirst,
		"verbosity":       "",
		"verbose":         0,
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File (optional) - dsmviz.toml
	// We ignore errors here as the file might not exist
	_ = k.Load(file.Provider("dsmviz.toml"), toml.Parser())

	// 3. Environment Variables
	// Prefix: DSMVIZ_ (e.g., DSMVIZ_PORT=9090, DSMVIZ_CATEGORY_POLICY=strict)
	if err := k.Load(env.Provider("DSMVIZ_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "DSMVIZ_")), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
