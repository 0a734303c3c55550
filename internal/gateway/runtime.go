package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/acme/autocert"

	"github.com/burrowlabs/burrow/internal/debughttp"
	"github.com/burrowlabs/burrow/internal/netutil"
)

// Run starts the gateway listener (plain HTTP, or TLS via ACME autocert when
// configured) and blocks until ctx is cancelled or a fatal error occurs.
// No ReadTimeout/WriteTimeout is set: proxied upgrade connections are
// long-lived and their lifetimes belong to the tunnel parties.
func (g *Gateway) Run(ctx context.Context) error {
	if err := debughttp.StartPprofServer(ctx, g.cfg.PprofAddr, g.log); err != nil {
		return fmt.Errorf("pprof server: %w", err)
	}

	srv := &http.Server{
		Addr:              g.cfg.Listen,
		Handler:           g,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	if g.cfg.TLS {
		manager := &autocert.Manager{
			Cache:      autocert.DirCache(g.cfg.CertCacheDir),
			Prompt:     autocert.AcceptTOS,
			HostPolicy: g.tlsHostPolicy,
		}
		srv.TLSConfig = manager.TLSConfig()
		go func() {
			g.log.Info("gateway listening", "addr", g.cfg.Listen, "tls", true, "domains", g.cfg.Domains)
			if err := srv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("gateway server: %w", err)
			}
		}()
	} else {
		go func() {
			g.log.Info("gateway listening", "addr", g.cfg.Listen, "tls", false, "domains", g.cfg.Domains)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("gateway server: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		g.reg.Close()
		return shutdownServer(srv, 5*time.Second)
	case err := <-errCh:
		g.reg.Close()
		_ = shutdownServer(srv, 5*time.Second)
		return err
	}
}

// tlsHostPolicy admits certificate requests for the configured root domains
// and for any host that currently resolves to a live tenant.
func (g *Gateway) tlsHostPolicy(_ context.Context, host string) error {
	host = netutil.NormalizeHost(host)
	for _, root := range g.cfg.Domains {
		if host == root {
			return nil
		}
	}
	if id := g.resolver.Resolve(host); id != "" {
		if _, ok := g.reg.Lookup(id); ok {
			return nil
		}
	}
	return fmt.Errorf("host %q not allowed", host)
}

func shutdownServer(server *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
