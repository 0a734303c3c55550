package config

import (
	"testing"
	"time"
)

func TestParseServerFlagsDefaults(t *testing.T) {
	cfg, err := ParseServerFlags([]string{"-domain", "example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Listen != ":8080" {
		t.Fatalf("unexpected listen default: %q", cfg.Listen)
	}
	if len(cfg.Domains) != 1 || cfg.Domains[0] != "example.com" {
		t.Fatalf("unexpected domains: %v", cfg.Domains)
	}
	if cfg.Scheme != "http" {
		t.Fatalf("unexpected scheme default: %q", cfg.Scheme)
	}
	if cfg.AuthEnabled() {
		t.Fatal("auth must be off without tokens")
	}
	if cfg.MaxSockets != 10 {
		t.Fatalf("unexpected max sockets default: %d", cfg.MaxSockets)
	}
	if cfg.GraceTimeout != 15*time.Second {
		t.Fatalf("unexpected grace timeout default: %v", cfg.GraceTimeout)
	}
}

func TestParseServerFlagsRequiresDomain(t *testing.T) {
	if _, err := ParseServerFlags(nil); err == nil {
		t.Fatal("expected error without --domain")
	}
}

func TestParseServerFlagsRejectsPublicSuffixRoot(t *testing.T) {
	if _, err := ParseServerFlags([]string{"-domain", "co.uk"}); err == nil {
		t.Fatal("expected bare public suffix root to be rejected")
	}
}

func TestParseServerFlagsMultipleDomainsAndTokens(t *testing.T) {
	cfg, err := ParseServerFlags([]string{
		"-domain", "example.com, Tunnels.Example.ORG",
		"-tokens", "alpha,beta",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Domains) != 2 || cfg.Domains[1] != "tunnels.example.org" {
		t.Fatalf("unexpected domains: %v", cfg.Domains)
	}
	if !cfg.AuthEnabled() || len(cfg.Tokens) != 2 {
		t.Fatalf("unexpected tokens: %v", cfg.Tokens)
	}
}

func TestParseServerFlagsRejectsBadScheme(t *testing.T) {
	if _, err := ParseServerFlags([]string{"-domain", "example.com", "-scheme", "gopher"}); err == nil {
		t.Fatal("expected bad scheme to be rejected")
	}
}

func TestParseServerFlagsEnvFallback(t *testing.T) {
	t.Setenv("BURROW_DOMAINS", "env.example.com")
	t.Setenv("BURROW_LISTEN", ":9999")

	cfg, err := ParseServerFlags(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Domains) != 1 || cfg.Domains[0] != "env.example.com" {
		t.Fatalf("unexpected domains from env: %v", cfg.Domains)
	}
	if cfg.Listen != ":9999" {
		t.Fatalf("unexpected listen from env: %q", cfg.Listen)
	}
}

func TestParseServerFlagsFlagBeatsEnv(t *testing.T) {
	t.Setenv("BURROW_LISTEN", ":9999")

	cfg, err := ParseServerFlags([]string{"-domain", "example.com", "-listen", ":7777"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Listen != ":7777" {
		t.Fatalf("expected flag to win, got %q", cfg.Listen)
	}
}
