package registry

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/burrowlabs/burrow/internal/domain"
	"github.com/burrowlabs/burrow/internal/netutil"
)

// session is one tenant's live tunnel: a TCP listener the tunnel client
// dials, a pool of idle connections, and a waiter queue for inbound requests
// that arrive while the pool is empty.
type session struct {
	id    string
	ln    net.Listener
	max   int
	grace time.Duration
	log   *slog.Logger
	evict func(*session)

	mu         sync.Mutex
	idle       []net.Conn
	waiters    []chan net.Conn
	live       int
	closed     bool
	graceTimer *time.Timer
}

func newSession(id string, ln net.Listener, opts Options, logger *slog.Logger, evict func(*session)) *session {
	return &session{
		id:    id,
		ln:    ln,
		max:   opts.MaxSockets,
		grace: opts.GraceTimeout,
		log:   logger,
		evict: evict,
	}
}

// start arms the initial grace timer and begins accepting tunnel sockets.
// A session whose client never dials in is evicted after the grace window.
func (s *session) start() {
	s.mu.Lock()
	s.armGraceLocked()
	s.mu.Unlock()
	go s.acceptLoop()
}

func (s *session) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.admit(conn)
	}
}

func (s *session) admit(conn net.Conn) {
	connID := uuid.NewString()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	if s.live >= s.max {
		s.mu.Unlock()
		_ = conn.Close()
		s.log.Warn("tunnel socket rejected: pool full", "tenant", s.id, "max", s.max)
		return
	}
	s.live++
	s.disarmGraceLocked()
	if len(s.waiters) > 0 {
		ch := s.waiters[0]
		s.waiters = s.waiters[1:]
		s.mu.Unlock()
		ch <- conn
	} else {
		s.idle = append(s.idle, conn)
		s.mu.Unlock()
	}
	s.log.Debug("tunnel socket connected", "tenant", s.id, "conn", connID, "remote", conn.RemoteAddr().String())
}

// takeLive hands out a pooled connection that still looks open, discarding
// connections the tunnel client closed while they sat idle.
func (s *session) takeLive(ctx context.Context) (net.Conn, error) {
	for {
		conn, err := s.take(ctx)
		if err != nil {
			return nil, err
		}
		if connAlive(conn) {
			return conn, nil
		}
		s.release(conn, false)
	}
}

// connAlive probes an idle connection with a short read deadline. A healthy
// idle tunnel socket has nothing to say, so a deadline error means alive;
// EOF, a reset, or unsolicited bytes retire the connection.
func connAlive(conn net.Conn) bool {
	if err := conn.SetReadDeadline(time.Now().Add(time.Millisecond)); err != nil {
		return false
	}
	var b [1]byte
	n, err := conn.Read(b[:])
	_ = conn.SetReadDeadline(time.Time{})
	if n > 0 {
		return false
	}
	return errors.Is(err, os.ErrDeadlineExceeded)
}

// sweepIdle probes every idle connection, dropping the ones the client
// abandoned so the grace timer can fire for a dead session.
func (s *session) sweepIdle() {
	s.mu.Lock()
	idle := s.idle
	s.idle = nil
	s.mu.Unlock()

	for _, conn := range idle {
		s.release(conn, connAlive(conn))
	}
}

// take hands out a pooled connection, waiting until the tunnel client
// provides one, the session closes, or ctx is done.
func (s *session) take(ctx context.Context) (net.Conn, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.ErrSessionClosed
	}
	if n := len(s.idle); n > 0 {
		conn := s.idle[n-1]
		s.idle = s.idle[:n-1]
		s.mu.Unlock()
		return conn, nil
	}
	ch := make(chan net.Conn, 1)
	s.waiters = append(s.waiters, ch)
	s.mu.Unlock()

	select {
	case conn, ok := <-ch:
		if !ok {
			return nil, domain.ErrSessionClosed
		}
		return conn, nil
	case <-ctx.Done():
		s.abandonWaiter(ch)
		return nil, ctx.Err()
	}
}

// abandonWaiter withdraws a waiter after ctx cancellation. A connection that
// was delivered concurrently is returned to the pool instead of leaking.
func (s *session) abandonWaiter(ch chan net.Conn) {
	s.mu.Lock()
	for i, w := range s.waiters {
		if w == ch {
			s.waiters = append(s.waiters[:i], s.waiters[i+1:]...)
			s.mu.Unlock()
			return
		}
	}
	s.mu.Unlock()

	// The channel is no longer queued, so a sender already popped it and is
	// committed to a send (or close). Receive it; a non-blocking check here
	// would strand the connection in the buffer.
	if conn, ok := <-ch; ok {
		s.release(conn, true)
	}
}

// release returns a connection to the pool, or retires it when it is no
// longer in a clean protocol state. Retiring the last connection arms the
// grace timer.
func (s *session) release(conn net.Conn, reusable bool) {
	if !reusable {
		_ = conn.Close()
		s.mu.Lock()
		s.live--
		if s.live == 0 && !s.closed {
			s.armGraceLocked()
		}
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	if len(s.waiters) > 0 {
		ch := s.waiters[0]
		s.waiters = s.waiters[1:]
		s.mu.Unlock()
		ch <- conn
		return
	}
	s.idle = append(s.idle, conn)
	s.mu.Unlock()
}

func (s *session) armGraceLocked() {
	if s.graceTimer != nil {
		s.graceTimer.Stop()
	}
	s.graceTimer = time.AfterFunc(s.grace, s.expire)
}

func (s *session) disarmGraceLocked() {
	if s.graceTimer != nil {
		s.graceTimer.Stop()
		s.graceTimer = nil
	}
}

func (s *session) expire() {
	s.mu.Lock()
	if s.closed || s.live > 0 {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.log.Info("tenant session idle past grace window", "tenant", s.id, "grace", s.grace.String())
	s.close()
	s.evict(s)
}

func (s *session) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.disarmGraceLocked()
	idle := s.idle
	s.idle = nil
	waiters := s.waiters
	s.waiters = nil
	s.mu.Unlock()

	_ = s.ln.Close()
	for _, conn := range idle {
		_ = conn.Close()
	}
	for _, ch := range waiters {
		close(ch)
	}
}

// ConnectedSockets reports how many tunnel sockets the client currently
// maintains (idle plus in-flight).
func (s *session) ConnectedSockets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// HandleRequest proxies one request/response exchange over a pooled
// connection. The connection returns to the pool only when the exchange
// left it in a clean state.
func (s *session) HandleRequest(w http.ResponseWriter, r *http.Request) {
	conn, err := s.takeLive(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrSessionClosed) {
			http.Error(w, "tunnel not found", http.StatusNotFound)
		}
		// ctx cancellation means the client is gone; nothing to write.
		return
	}

	reusable := false
	defer func() { s.release(conn, reusable) }()

	out := r.Clone(r.Context())
	netutil.RemoveHopByHopHeaders(out.Header)
	netutil.InjectForwardedHeaders(out.Header, r)

	if err := out.Write(conn); err != nil {
		s.log.Warn("tunnel write failed", "tenant", s.id, "err", err)
		http.Error(w, "tunnel write failed", http.StatusBadGateway)
		return
	}

	br := bufio.NewReader(conn)
	resp, err := http.ReadResponse(br, out)
	if err != nil {
		s.log.Warn("tunnel read failed", "tenant", s.id, "err", err)
		http.Error(w, "tunnel read failed", http.StatusBadGateway)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	for k, vals := range resp.Header {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, copyErr := io.Copy(w, resp.Body)
	if copyErr == nil && !resp.Close && br.Buffered() == 0 {
		reusable = true
	}
}

// HandleUpgrade proxies a protocol-upgrade connection: the handshake request
// is replayed over a dedicated tunnel connection and bytes are piped in both
// directions until either side closes. The tunnel connection is consumed.
func (s *session) HandleUpgrade(conn net.Conn, buf *bufio.ReadWriter, r *http.Request) {
	tunnelConn, err := s.takeLive(r.Context())
	if err != nil {
		_ = conn.Close()
		return
	}
	defer s.release(tunnelConn, false)
	defer func() { _ = conn.Close() }()

	out := r.Clone(r.Context())
	netutil.RemoveHopByHopHeadersPreserveUpgrade(out.Header)
	netutil.InjectForwardedHeaders(out.Header, r)

	if err := out.Write(tunnelConn); err != nil {
		s.log.Warn("tunnel upgrade write failed", "tenant", s.id, "err", err)
		return
	}

	done := make(chan struct{}, 2)
	go func() {
		// buf first: it may hold bytes the client sent past the handshake.
		_, _ = io.Copy(tunnelConn, buf)
		done <- struct{}{}
	}()
	go func() {
		_, _ = io.Copy(conn, tunnelConn)
		done <- struct{}{}
	}()
	<-done
	_ = conn.Close()
	_ = tunnelConn.Close()
	<-done
}
