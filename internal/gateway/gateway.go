// Package gateway is the public entry point of the burrow service: it
// dispatches every inbound connection to a tenant's tunnel session or to the
// admin surface, based on the request hostname.
package gateway

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/burrowlabs/burrow/internal/config"
	"github.com/burrowlabs/burrow/internal/netutil"
	"github.com/burrowlabs/burrow/internal/observability"
	"github.com/burrowlabs/burrow/internal/registry"
	"github.com/burrowlabs/burrow/internal/tenantid"
)

// Gateway routes inbound connections. It holds no mutable state of its own;
// the registry is the only shared state it touches.
type Gateway struct {
	cfg      config.ServerConfig
	reg      registry.Registry
	resolver *tenantid.Resolver
	log      *slog.Logger
	admin    http.Handler
}

// New assembles a gateway over reg for the configured root domains.
func New(cfg config.ServerConfig, reg registry.Registry, logger *slog.Logger) *Gateway {
	g := &Gateway{
		cfg:      cfg,
		reg:      reg,
		resolver: tenantid.NewResolver(cfg.Domains),
		log:      logger,
	}
	g.admin = g.withAccessToken(g.withErrorBoundary(g.dispatchAdmin))
	return g
}

// ServeHTTP resolves exactly one terminal state per connection: delegated to
// the admin surface, delegated to a tenant session, or terminated here.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Host == "" {
		observability.InboundTotal.WithLabelValues("bad_request").Inc()
		g.terminate(w, r, http.StatusBadRequest, "missing Host header")
		return
	}

	id := g.resolver.Resolve(r.Host)
	if id == "" {
		observability.InboundTotal.WithLabelValues("admin").Inc()
		g.admin.ServeHTTP(w, r)
		return
	}

	sess, ok := g.reg.Lookup(id)
	if !ok {
		observability.InboundTotal.WithLabelValues("tenant_not_found").Inc()
		g.terminate(w, r, http.StatusNotFound, "tunnel not found")
		return
	}

	if netutil.IsUpgradeRequest(r.Header) {
		conn, buf, err := hijack(w)
		if err != nil {
			g.log.Error("hijack failed on upgrade dispatch", "tenant", id, "err", err)
			http.Error(w, "upgrade not supported", http.StatusInternalServerError)
			return
		}
		protocol := "other"
		if websocket.IsWebSocketUpgrade(r) {
			protocol = "websocket"
		}
		observability.InboundTotal.WithLabelValues("upgraded").Inc()
		observability.UpgradesTotal.WithLabelValues(protocol).Inc()
		g.log.Debug("upgrade dispatched", "tenant", id, "protocol", protocol)
		sess.HandleUpgrade(conn, buf, r)
		return
	}

	observability.InboundTotal.WithLabelValues("proxied").Inc()
	sess.HandleRequest(w, r)
}

// terminate ends a connection the gateway could not route: a status-coded
// response for standard requests, an abrupt socket close for upgrades, where
// partial HTTP semantics are not well-defined.
func (g *Gateway) terminate(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if netutil.IsUpgradeRequest(r.Header) {
		if conn, _, err := hijack(w); err == nil {
			_ = conn.Close()
			return
		}
	}
	http.Error(w, msg, status)
}

func hijack(w http.ResponseWriter) (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hj.Hijack()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
	_, _ = w.Write([]byte("\n"))
}
