package tenantid

import (
	"strings"
	"testing"
)

func TestValidAcceptsWellFormedIDs(t *testing.T) {
	for _, id := range []string{
		"abcd",
		"abc1",
		"happy-otter-42",
		"a1b2c3",
		"0000",
		strings.Repeat("a", 63),
	} {
		if !Valid(id) {
			t.Fatalf("expected %q to be valid", id)
		}
	}
}

func TestValidRejectsMalformedIDs(t *testing.T) {
	for _, id := range []string{
		"",
		"ab",
		"abc",
		"ABCD",
		"has.dot",
		"has/slash",
		"-leading",
		"trailing-",
		"under_score",
		strings.Repeat("a", 66),
	} {
		if Valid(id) {
			t.Fatalf("expected %q to be rejected", id)
		}
	}
}

func TestRandomProducesValidIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := Random()
		if !Valid(id) {
			t.Fatalf("random id %q fails validation", id)
		}
		seen[id] = true
	}
	if len(seen) < 2 {
		t.Fatal("expected random ids to vary")
	}
}
