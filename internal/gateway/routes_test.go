package gateway

import "testing"

func TestMatchPatternLiteral(t *testing.T) {
	if _, ok := matchPattern("/healthz", "/healthz"); !ok {
		t.Fatal("expected literal match")
	}
	if _, ok := matchPattern("/healthz", "/healthz/extra"); ok {
		t.Fatal("expected no match for longer path")
	}
	if _, ok := matchPattern("/", "/"); !ok {
		t.Fatal("expected root match")
	}
	if _, ok := matchPattern("/", "/anything"); ok {
		t.Fatal("root pattern must not shadow other paths")
	}
}

func TestMatchPatternCapture(t *testing.T) {
	id, ok := matchPattern("/tunnels/{id}", "/tunnels/my-tunnel")
	if !ok || id != "my-tunnel" {
		t.Fatalf("expected capture my-tunnel, got %q (ok=%v)", id, ok)
	}

	id, ok = matchPattern("/tunnels/{id}/status", "/tunnels/my-tunnel/status")
	if !ok || id != "my-tunnel" {
		t.Fatalf("expected capture my-tunnel, got %q (ok=%v)", id, ok)
	}

	if _, ok := matchPattern("/tunnels/{id}", "/tunnels/a/b"); ok {
		t.Fatal("multi-segment path must not match a single capture")
	}
	if _, ok := matchPattern("/tunnels/{id}", "/tunnels/"); ok {
		t.Fatal("empty capture must not match")
	}
	if _, ok := matchPattern("/tunnels/{id}/status", "/tunnels/my-tunnel/other"); ok {
		t.Fatal("trailing literal mismatch must not match")
	}
}
