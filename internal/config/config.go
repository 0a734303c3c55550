// Package config holds the burrow server configuration and its flag/env
// parsing. Environment variables (BURROW_*) provide defaults; flags win.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/burrowlabs/burrow/internal/netutil"
	"github.com/burrowlabs/burrow/internal/tenantid"
)

// ServerConfig is the process-lifetime configuration of the gateway.
// All fields are read-only after ParseServerFlags returns.
type ServerConfig struct {
	Listen       string
	Domains      []string
	LandingURL   string
	Scheme       string
	Tokens       []string
	MaxSockets   int
	GraceTimeout time.Duration
	TLS          bool
	CertCacheDir string
	PprofAddr    string
	LogLevel     string
	LogJSON      bool
}

// AuthEnabled reports whether token enforcement is configured.
func (c ServerConfig) AuthEnabled() bool {
	return len(c.Tokens) > 0
}

const (
	defaultListen       = ":8080"
	defaultLandingURL   = "https://burrow.dev"
	defaultScheme       = "http"
	defaultMaxSockets   = 10
	defaultGraceTimeout = 15 * time.Second
	defaultCertCacheDir = "./cert"
)

// LoadEnvFile loads BURROW_* variables from a .env file when one exists.
// Already-set environment variables are never overridden.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// ParseServerFlags builds a ServerConfig from args and the environment.
func ParseServerFlags(args []string) (ServerConfig, error) {
	cfg := ServerConfig{
		Listen:       envOrDefault("BURROW_LISTEN", defaultListen),
		LandingURL:   envOrDefault("BURROW_LANDING", defaultLandingURL),
		Scheme:       envOrDefault("BURROW_SCHEME", defaultScheme),
		MaxSockets:   envIntOrDefault("BURROW_MAX_SOCKETS", defaultMaxSockets),
		GraceTimeout: envDurationOrDefault("BURROW_GRACE_TIMEOUT", defaultGraceTimeout),
		TLS:          envBoolOrDefault("BURROW_TLS", false),
		CertCacheDir: envOrDefault("BURROW_CERT_CACHE_DIR", defaultCertCacheDir),
		PprofAddr:    envOrDefault("BURROW_PPROF", ""),
		LogLevel:     envOrDefault("BURROW_LOG_LEVEL", "info"),
		LogJSON:      envBoolOrDefault("BURROW_LOG_JSON", false),
	}
	domains := envOrDefault("BURROW_DOMAINS", "")
	tokens := envOrDefault("BURROW_TOKENS", "")

	fs := flag.NewFlagSet("burrowd", flag.ContinueOnError)
	fs.StringVar(&cfg.Listen, "listen", cfg.Listen, "Gateway listen address")
	fs.StringVar(&domains, "domain", domains, "Comma-separated root tunnel domains, e.g. example.com")
	fs.StringVar(&cfg.LandingURL, "landing", cfg.LandingURL, "Landing page URL for the root host")
	fs.StringVar(&cfg.Scheme, "scheme", cfg.Scheme, "Scheme used in descriptor URLs: http|https")
	fs.StringVar(&tokens, "tokens", tokens, "Comma-separated allowed access tokens (empty disables auth)")
	fs.IntVar(&cfg.MaxSockets, "max-sockets", cfg.MaxSockets, "Pooled tunnel connections per tenant")
	fs.DurationVar(&cfg.GraceTimeout, "grace-timeout", cfg.GraceTimeout, "Empty-pool session eviction window")
	fs.BoolVar(&cfg.TLS, "tls", cfg.TLS, "Terminate TLS with ACME autocert")
	fs.StringVar(&cfg.CertCacheDir, "cert-cache-dir", cfg.CertCacheDir, "TLS cert cache dir")
	fs.StringVar(&cfg.PprofAddr, "pprof", cfg.PprofAddr, "Debug pprof listen address (empty = off)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug|info|warn|error")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.Domains = splitList(domains)
	for i, d := range cfg.Domains {
		cfg.Domains[i] = netutil.NormalizeHost(d)
	}
	cfg.Tokens = splitList(tokens)

	if len(cfg.Domains) == 0 {
		return cfg, errors.New("missing --domain or BURROW_DOMAINS")
	}
	for _, d := range cfg.Domains {
		if err := tenantid.ValidateRootDomain(d); err != nil {
			return cfg, err
		}
	}
	cfg.Scheme = strings.ToLower(strings.TrimSpace(cfg.Scheme))
	switch cfg.Scheme {
	case "http", "https":
	default:
		return cfg, errors.New("scheme must be http or https")
	}
	if cfg.LandingURL == "" {
		return cfg, errors.New("landing URL must not be empty")
	}
	if cfg.MaxSockets <= 0 {
		return cfg, fmt.Errorf("max sockets must be > 0, got %d", cfg.MaxSockets)
	}
	if cfg.GraceTimeout <= 0 {
		return cfg, errors.New("grace timeout must be > 0")
	}

	return cfg, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBoolOrDefault(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDurationOrDefault(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
