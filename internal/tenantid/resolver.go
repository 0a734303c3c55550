// Package tenantid maps request hostnames to tenant identifiers and owns
// the tenant ID syntax rules.
package tenantid

import (
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/burrowlabs/burrow/internal/netutil"
)

// Resolver maps hostnames to tenant IDs for a fixed set of root tunnel
// domains. It is immutable after construction and safe for concurrent use.
type Resolver struct {
	roots []string
}

// NewResolver builds a resolver for the given root domains. Roots are
// normalized (lower-cased, ports and trailing dots stripped); empty entries
// are dropped.
func NewResolver(roots []string) *Resolver {
	normalized := make([]string, 0, len(roots))
	for _, root := range roots {
		if r := netutil.NormalizeHost(root); r != "" {
			normalized = append(normalized, r)
		}
	}
	return &Resolver{roots: normalized}
}

// Resolve returns the tenant ID for host, or "" when the host does not
// address a tenant. The bare root domain itself resolves to "" so the root
// host serves the admin surface. Malformed hosts resolve to "" rather than
// failing.
func (rs *Resolver) Resolve(host string) string {
	h := netutil.NormalizeHost(host)
	if h == "" {
		return ""
	}
	for _, root := range rs.roots {
		if h == root {
			return ""
		}
		if strings.HasSuffix(h, "."+root) {
			return h[:len(h)-len(root)-1]
		}
	}
	return ""
}

// ValidateRootDomain rejects root domains that cannot host tenant
// subdomains. In particular a bare public suffix (e.g. "co.uk") is not a
// valid tunnel domain: naive dot-splitting would misparse its labels as
// tenant IDs, which is exactly what public-suffix-aware validation prevents.
func ValidateRootDomain(root string) error {
	h := netutil.NormalizeHost(root)
	if h == "" {
		return fmt.Errorf("empty root domain")
	}
	if strings.Contains(h, "/") {
		return fmt.Errorf("root domain %q must not contain a path", root)
	}
	suffix, _ := publicsuffix.PublicSuffix(h)
	if h == suffix {
		return fmt.Errorf("root domain %q is a bare public suffix", root)
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(h); err != nil {
		return fmt.Errorf("root domain %q: %w", root, err)
	}
	return nil
}
