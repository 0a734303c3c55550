package gateway

import (
	"errors"
	"net/http"

	"github.com/burrowlabs/burrow/internal/domain"
	"github.com/burrowlabs/burrow/internal/observability"
)

// withAccessToken enforces the configured token set across the whole admin
// surface. The tenant-tunnel dispatch path never passes through here. When
// no tokens are configured this is a no-op.
func (g *Gateway) withAccessToken(next http.Handler) http.Handler {
	if !g.cfg.AuthEnabled() {
		return next
	}
	allowed := make(map[string]struct{}, len(g.cfg.Tokens))
	for _, t := range g.cfg.Tokens {
		allowed[t] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := allowed[r.URL.Query().Get("token")]; !ok {
			writeJSON(w, http.StatusNetworkAuthenticationRequired, domain.ErrorResponse{
				Message: "Missing or unknown token.",
				Code:    "token_required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withErrorBoundary is the single place admin-surface errors become wire
// responses. Every error is also emitted as an observability event; nothing
// is suppressed.
func (g *Gateway) withErrorBoundary(next func(http.ResponseWriter, *http.Request) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := next(w, r)
		if err == nil {
			return
		}
		status := domain.StatusOf(err)
		code := domain.CodeOf(err)
		observability.AdminErrorsTotal.WithLabelValues(code).Inc()
		g.log.Error("admin request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"code", code,
			"err", err,
		)
		writeJSON(w, status, domain.ErrorResponse{Message: userMessage(err), Code: code})
	})
}

// userMessage strips internal wrapping context from the user-visible body
// when the error carries an explicit message.
func userMessage(err error) string {
	var de *domain.Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return err.Error()
}
