package tenantid

import "testing"

func TestResolveStrictSubdomain(t *testing.T) {
	rs := NewResolver([]string{"example.com"})

	if got := rs.Resolve("abcde.example.com"); got != "abcde" {
		t.Fatalf("expected abcde, got %q", got)
	}
	if got := rs.Resolve("ABCDE.Example.COM"); got != "abcde" {
		t.Fatalf("expected case-insensitive match, got %q", got)
	}
	if got := rs.Resolve("abcde.example.com:8080"); got != "abcde" {
		t.Fatalf("expected port to be stripped, got %q", got)
	}
}

func TestResolveRootDomainIsNotATenant(t *testing.T) {
	rs := NewResolver([]string{"example.com"})

	if got := rs.Resolve("example.com"); got != "" {
		t.Fatalf("bare root must resolve to no tenant, got %q", got)
	}
	if got := rs.Resolve("example.com:443"); got != "" {
		t.Fatalf("bare root with port must resolve to no tenant, got %q", got)
	}
}

func TestResolveUnrelatedHost(t *testing.T) {
	rs := NewResolver([]string{"example.com"})

	for _, host := range []string{
		"other.org",
		"tenant.other.org",
		"notexample.com",
		"example.com.evil.org",
		"",
		"   ",
		"..",
	} {
		if got := rs.Resolve(host); got != "" {
			t.Fatalf("host %q: expected no tenant, got %q", host, got)
		}
	}
}

func TestResolveMultiLabelRoot(t *testing.T) {
	// A root under a two-label public suffix must not be misparsed.
	rs := NewResolver([]string{"example.co.uk"})

	if got := rs.Resolve("tenant.example.co.uk"); got != "tenant" {
		t.Fatalf("expected tenant, got %q", got)
	}
	if got := rs.Resolve("example.co.uk"); got != "" {
		t.Fatalf("bare root must resolve to no tenant, got %q", got)
	}
	if got := rs.Resolve("co.uk"); got != "" {
		t.Fatalf("public suffix alone must resolve to no tenant, got %q", got)
	}
}

func TestResolveMultiLabelSubdomain(t *testing.T) {
	rs := NewResolver([]string{"example.com"})

	// Multi-label subdomains resolve verbatim; they can never validate as
	// tenant IDs, so routing them ends in not-found.
	if got := rs.Resolve("a.b.example.com"); got != "a.b" {
		t.Fatalf("expected a.b, got %q", got)
	}
}

func TestResolveMultipleRoots(t *testing.T) {
	rs := NewResolver([]string{"example.com", "tunnels.example.org"})

	if got := rs.Resolve("happy-otter-42.tunnels.example.org"); got != "happy-otter-42" {
		t.Fatalf("expected happy-otter-42, got %q", got)
	}
	if got := rs.Resolve("tunnels.example.org"); got != "" {
		t.Fatalf("second root itself must resolve to no tenant, got %q", got)
	}
}

func TestValidateRootDomain(t *testing.T) {
	if err := ValidateRootDomain("example.com"); err != nil {
		t.Fatalf("example.com should be a valid root: %v", err)
	}
	if err := ValidateRootDomain("example.co.uk"); err != nil {
		t.Fatalf("example.co.uk should be a valid root: %v", err)
	}
	if err := ValidateRootDomain("co.uk"); err == nil {
		t.Fatal("bare public suffix co.uk must be rejected")
	}
	if err := ValidateRootDomain("com"); err == nil {
		t.Fatal("bare TLD must be rejected")
	}
	if err := ValidateRootDomain(""); err == nil {
		t.Fatal("empty root must be rejected")
	}
}
