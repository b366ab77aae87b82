package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DIGITALOCEAN_TOKEN", "")
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutputFormat != OutputJSON {
		t.Fatalf("unexpected output format %q", cfg.OutputFormat)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTPTimeout)
	}
	if cfg.WatchInterval != 5*time.Minute {
		t.Fatalf("unexpected watch interval %v", cfg.WatchInterval)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DIGITALOCEAN_TOKEN", " env-token ")
	t.Setenv("OUTPUT_FORMAT", "YAML")
	t.Setenv("WATCH_INTERVAL", "60")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Token != "env-token" {
		t.Fatalf("unexpected token %q", cfg.Token)
	}
	if cfg.OutputFormat != OutputYAML {
		t.Fatalf("unexpected output format %q", cfg.OutputFormat)
	}
	if cfg.WatchInterval != time.Minute {
		t.Fatalf("unexpected watch interval %v", cfg.WatchInterval)
	}
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("DIGITALOCEAN_TOKEN", "env-token")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("token", "", "")
	fs.Int64("timeout", 30, "")
	if err := fs.Parse([]string{"--token", "flag-token", "--timeout", "5"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Token != "flag-token" {
		t.Fatalf("expected flag to win, got %q", cfg.Token)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTPTimeout)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("OUTPUT_FORMAT", "xml")
	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error for unknown output format")
	}

	t.Setenv("OUTPUT_FORMAT", "json")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "0")
	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}

func TestRedactedMasksToken(t *testing.T) {
	cfg := Config{Token: "secret"}
	if got := cfg.Redacted().Token; got == "secret" || got == "" {
		t.Fatalf("token not redacted: %q", got)
	}
	if cfg.Token != "secret" {
		t.Fatalf("Redacted mutated the receiver")
	}
}
