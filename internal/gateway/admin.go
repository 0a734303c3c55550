package gateway

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/burrowlabs/burrow/internal/domain"
	"github.com/burrowlabs/burrow/internal/tenantid"
)

// handleProvisionRandom allocates a tenant under a fresh human-readable ID.
// One attempt only; a collision surfaces as the registry's conflict error.
func (g *Gateway) handleProvisionRandom(w http.ResponseWriter, r *http.Request, _ string) error {
	return g.provision(w, r, tenantid.Random())
}

// handleProvisionNamed allocates a tenant under a caller-supplied ID.
// Syntax rejections are written locally; only registry failures reach the
// error boundary.
func (g *Gateway) handleProvisionNamed(w http.ResponseWriter, r *http.Request, id string) error {
	if !tenantid.Valid(id) {
		writeJSON(w, http.StatusForbidden, domain.ErrorResponse{
			Message: "Invalid subdomain. Subdomains must be lowercase and between 4 and 63 alphanumeric characters.",
			Code:    "invalid_subdomain",
		})
		return nil
	}
	return g.provision(w, r, id)
}

func (g *Gateway) provision(w http.ResponseWriter, r *http.Request, id string) error {
	desc, err := g.reg.Create(r.Context(), id)
	if err != nil {
		return fmt.Errorf("provision %s: %w", id, err)
	}
	// The public URL derives from the request's own scheme and host, so the
	// descriptor works behind whatever name the caller reached us on.
	desc.URL = g.cfg.Scheme + "://" + desc.ID + "." + r.Host
	g.log.Info("tenant created", "tenant", desc.ID, "url", desc.URL)
	writeJSON(w, http.StatusOK, desc)
	return nil
}

func (g *Gateway) handleGatewayStatus(w http.ResponseWriter, _ *http.Request, _ string) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	writeJSON(w, http.StatusOK, domain.GatewayStats{
		Tunnels: g.reg.Count(),
		Mem: domain.MemStats{
			Alloc:      m.Alloc,
			TotalAlloc: m.TotalAlloc,
			Sys:        m.Sys,
			HeapAlloc:  m.HeapAlloc,
			NumGC:      m.NumGC,
		},
	})
	return nil
}

func (g *Gateway) handleTenantStatus(w http.ResponseWriter, _ *http.Request, id string) error {
	sess, ok := g.reg.Lookup(id)
	if !ok {
		return domain.NotFound("tunnel not found")
	}
	writeJSON(w, http.StatusOK, domain.TenantStats{ConnectedSockets: sess.ConnectedSockets()})
	return nil
}

func (g *Gateway) handleLanding(w http.ResponseWriter, r *http.Request, _ string) error {
	http.Redirect(w, r, g.cfg.LandingURL, http.StatusFound)
	return nil
}

func (g *Gateway) handleHealthz(w http.ResponseWriter, _ *http.Request, _ string) error {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
	return nil
}

func (g *Gateway) handleMetrics(w http.ResponseWriter, r *http.Request, _ string) error {
	promhttp.Handler().ServeHTTP(w, r)
	return nil
}
