package config

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Input != "merged_disorders_data.csv" {
		t.Errorf("Expected default input merged_disorders_data.csv, got %s", cfg.Input)
	}
	if cfg.Output != "disorder_network.html" {
		t.Errorf("Expected default output disorder_network.html, got %s", cfg.Output)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Port)
	}
	if !cfg.OpenBrowser {
		t.Error("Expected open to default to true")
	}
	if cfg.CategoryPolicy != CategoryPolicyFirst {
		t.Errorf("Expected default policy %q, got %q", CategoryPolicyFirst, cfg.CategoryPolicy)
	}
	if cfg.WebMode || cfg.Watch {
		t.Error("Web and watch modes must default to off")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DSMVIZ_PORT", "9090")
	t.Setenv("DSMVIZ_CATEGORY_POLICY", "strict")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Expected env port 9090, got %d", cfg.Port)
	}
	if cfg.CategoryPolicy != CategoryPolicyStrict {
		t.Errorf("Expected env policy strict, got %s", cfg.CategoryPolicy)
	}
}

func TestLoadFlagOverride(t *testing.T) {
	t.Setenv("DSMVIZ_PORT", "9090")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 8080, "")
	flags.String("input", "merged_disorders_data.csv", "")
	if err := flags.Parse([]string{"--port", "7070", "--input", "other.csv"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Flags outrank the environment
	if cfg.Port != 7070 {
		t.Errorf("Expected flag port 7070, got %d", cfg.Port)
	}
	if cfg.Input != "other.csv" {
		t.Errorf("Expected flag input other.csv, got %s", cfg.Input)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{CategoryPolicy: CategoryPolicyFirst}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Valid config rejected: %v", err)
	}

	cfg = &Config{CategoryPolicy: "merge"}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown category policy")
	}

	cfg = &Config{CategoryPolicy: CategoryPolicyFirst, Watch: true}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for --watch without --web")
	}

	cfg = &Config{CategoryPolicy: CategoryPolicyFirst, Watch: true, WebMode: true}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Watch with web should be valid: %v", err)
	}
}
