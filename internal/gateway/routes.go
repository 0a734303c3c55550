package gateway

import (
	"net/http"
	"strings"

	"github.com/burrowlabs/burrow/internal/domain"
)

// route is one admin-surface matcher. Patterns are literal paths with at
// most one {id} segment; the table below is checked in order and the first
// match wins, so more specific patterns must precede shadowing ones.
type route struct {
	method  string
	pattern string
	handle  func(http.ResponseWriter, *http.Request, string) error
}

func (g *Gateway) adminRoutes() []route {
	return []route{
		{http.MethodGet, "/healthz", g.handleHealthz},
		{http.MethodGet, "/metrics", g.handleMetrics},
		{http.MethodGet, "/tunnels/status", g.handleGatewayStatus},
		{http.MethodGet, "/tunnels/{id}/status", g.handleTenantStatus},
		{http.MethodGet, "/tunnels", g.handleProvisionRandom},
		{http.MethodGet, "/tunnels/{id}", g.handleProvisionNamed},
		{http.MethodGet, "/", g.handleLanding},
	}
}

// dispatchAdmin walks the route table. A single trailing slash is ignored;
// paths that match nothing (including multi-segment tenant paths, which are
// never tenant IDs) end as not-found.
func (g *Gateway) dispatchAdmin(w http.ResponseWriter, r *http.Request) error {
	path := r.URL.Path
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	for _, rt := range g.adminRoutes() {
		if r.Method != rt.method {
			continue
		}
		id, ok := matchPattern(rt.pattern, path)
		if !ok {
			continue
		}
		return rt.handle(w, r, id)
	}
	return domain.NotFound("not found")
}

func matchPattern(pattern, path string) (string, bool) {
	if !strings.Contains(pattern, "{id}") {
		return "", pattern == path
	}
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return "", false
	}
	id := ""
	for i := range want {
		if want[i] == "{id}" {
			if got[i] == "" {
				return "", false
			}
			id = got[i]
			continue
		}
		if want[i] != got[i] {
			return "", false
		}
	}
	return id, true
}
