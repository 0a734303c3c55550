// Package registry owns tenant sessions: it allocates them, indexes them by
// tenant ID, and evicts them when their connection pool stays empty.
package registry

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/burrowlabs/burrow/internal/domain"
	"github.com/burrowlabs/burrow/internal/observability"
)

// Registry is the hostname-keyed tenant store the gateway routes against.
// Lookup and Count are non-blocking in-memory operations; Create may block
// the calling request only. Implementations must be safe for concurrent use.
type Registry interface {
	Create(ctx context.Context, id string) (domain.Descriptor, error)
	Lookup(id string) (Session, bool)
	Count() int
	Close()
}

// Session is the per-tenant handle the gateway delegates live connections
// to. Handlers own the connection lifecycle from the moment they are called.
type Session interface {
	HandleRequest(w http.ResponseWriter, r *http.Request)
	HandleUpgrade(conn net.Conn, buf *bufio.ReadWriter, r *http.Request)
	ConnectedSockets() int
}

// Options configures a [Hub].
type Options struct {
	// MaxSockets caps the pooled tunnel connections per tenant.
	MaxSockets int
	// GraceTimeout is how long a session may sit with an empty pool
	// before it is closed and evicted.
	GraceTimeout time.Duration
}

// Hub is the in-memory [Registry] implementation. Sessions live for the
// lifetime of the process at most; nothing is persisted.
type Hub struct {
	opts Options
	log  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*session
	closed   bool
}

// NewHub creates an empty registry.
func NewHub(opts Options, logger *slog.Logger) *Hub {
	return &Hub{
		opts:     opts,
		log:      logger,
		sessions: map[string]*session{},
	}
}

// Create allocates a session for id: it binds an ephemeral TCP port for the
// tenant's tunnel client and registers the session under id. A single
// attempt is made; an ID with a live session fails with [domain.ErrIDTaken].
func (h *Hub) Create(ctx context.Context, id string) (domain.Descriptor, error) {
	if id == "" {
		return domain.Descriptor{}, fmt.Errorf("create tenant: empty id")
	}
	if err := ctx.Err(); err != nil {
		return domain.Descriptor{}, err
	}

	// Bind outside the lock: Listen is a syscall and the lock is shared
	// with the routing path's Lookup.
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		return domain.Descriptor{}, fmt.Errorf("create tenant %s: %w", id, err)
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = ln.Close()
		return domain.Descriptor{}, domain.ErrRegistryClosed
	}
	if _, ok := h.sessions[id]; ok {
		h.mu.Unlock()
		_ = ln.Close()
		observability.ProvisionsTotal.WithLabelValues("conflict").Inc()
		return domain.Descriptor{}, domain.ErrIDTaken
	}
	sess := newSession(id, ln, h.opts, h.log, h.evict)
	h.sessions[id] = sess
	h.mu.Unlock()

	sess.start()
	observability.ActiveTenants.Inc()
	observability.ProvisionsTotal.WithLabelValues("ok").Inc()

	port := ln.Addr().(*net.TCPAddr).Port
	h.log.Info("tenant provisioned", "tenant", id, "port", port)
	return domain.Descriptor{
		ID:           id,
		Port:         port,
		MaxConnCount: h.opts.MaxSockets,
	}, nil
}

// Lookup returns the live session for id. Absence is a normal outcome and
// never an error; a tenant may appear or disappear between any two calls.
func (h *Hub) Lookup(id string) (Session, bool) {
	h.mu.RLock()
	sess, ok := h.sessions[id]
	h.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return sess, true
}

// Count returns the number of registered tenants.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Close shuts down every session and rejects further provisioning.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	sessions := make([]*session, 0, len(h.sessions))
	for _, sess := range h.sessions {
		sessions = append(sessions, sess)
	}
	h.sessions = map[string]*session{}
	h.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
		observability.ActiveTenants.Dec()
	}
}

const janitorInterval = 30 * time.Second

// RunJanitor periodically probes idle tunnel sockets so sessions whose
// client vanished silently still reach an empty pool and get evicted by
// their grace timer. It blocks until ctx is done.
func (h *Hub) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.sweep()
		}
	}
}

func (h *Hub) sweep() {
	h.mu.RLock()
	sessions := make([]*session, 0, len(h.sessions))
	for _, sess := range h.sessions {
		sessions = append(sessions, sess)
	}
	h.mu.RUnlock()

	for _, sess := range sessions {
		sess.sweepIdle()
	}
}

func (h *Hub) evict(sess *session) {
	h.mu.Lock()
	if current, ok := h.sessions[sess.id]; ok && current == sess {
		delete(h.sessions, sess.id)
		observability.ActiveTenants.Dec()
	}
	h.mu.Unlock()
	h.log.Info("tenant evicted", "tenant", sess.id)
}
