package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"domainhub/sources/auth"
	"domainhub/sources/metrics"
	"domainhub/sources/tracing"

	"github.com/gorilla/mux"
)

type claimsKey struct{}

// statusWriter remembers the status code written by a handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// metricsMiddleware records every request under its route template so ids do
// not blow up label cardinality.
func metricsMiddleware(metrics *metrics.MetricsService, log *tracing.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(sw, r)

			route := "unknown"
			if current := mux.CurrentRoute(r); current != nil {
				if template, err := current.GetPathTemplate(); err == nil {
					route = template
				}
			}

			elapsed := time.Since(started)
			metrics.RecordHttpRequest(route, r.Method, sw.Status(), elapsed)
			log.D("Handled request",
				tracing.HttpMethod, r.Method,
				tracing.HttpRoute, route,
				tracing.HttpStatus, sw.Status(),
				tracing.RemoteAddr, r.RemoteAddr,
				tracing.ExecutionTime, elapsed.Milliseconds())
		})
	}
}

// authMiddleware admits requests carrying a valid bearer token and stores the
// claims in the request context.
func authMiddleware(service *auth.AuthService) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				WriteMessage(w, http.StatusUnauthorized, "Access token required")
				return
			}

			claims, err := service.Verify(strings.TrimSpace(token))
			if err != nil {
				WriteMessage(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

// AdminFromContext returns the claims of the authenticated admin, if any.
func AdminFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}
