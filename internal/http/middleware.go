package http

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/ban"
	rl "github.com/rogerio-castellano/inventory-ledger/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

// RequestContext assigns a request id, attaches it to the request logger and
// echoes it back in the response.
func RequestContext(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)
			ctx := log.WithRequestID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessLog logs every request once it is served and feeds the HTTP metrics.
func AccessLog(log *logger.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			m.ObserveRequest(r.Method, route, status, elapsed)

			ctx := log.WithFields(r.Context(), map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"duration_ms": elapsed.Milliseconds(),
			})
			if status >= http.StatusInternalServerError {
				log.Warn(ctx, "request failed")
				return
			}
			log.Info(ctx, "request served")
		})
	}
}

// Recoverer turns a handler panic into a logged JSON 500.
func Recoverer(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				ctx := log.WithField(r.Context(), "stack", string(debug.Stack()))
				log.Error(ctx, "panic serving request", fmt.Errorf("%v", rvr))
				if r.Header.Get("Connection") != "Upgrade" {
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Identity reads an optional bearer token. Valid tokens put the user id in the
// request context; missing or invalid ones are ignored.
func Identity(tokens *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if tokens == nil || !strings.HasPrefix(header, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if id, err := claims.UserID(); err == nil {
				r = r.WithContext(auth.WithUserID(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitPolicy configures RateLimit.
type RateLimitPolicy struct {
	Limiter     *rl.Limiter
	Bans        ban.Store
	Strikes     int
	StrikeTTL   time.Duration
	BanDuration time.Duration
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit answers 429 when a client exhausts its token bucket and 403 once
// it has collected enough strikes to be banned.
func RateLimit(p RateLimitPolicy, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := clientIP(r)

			if p.Bans != nil {
				banned, err := p.Bans.IsBanned(ctx, ip)
				if err != nil {
					log.Error(ctx, "ban lookup failed", err)
				} else if banned {
					writeError(w, http.StatusForbidden, "client temporarily banned")
					return
				}
			}

			if p.Limiter.Allow(ip) {
				next.ServeHTTP(w, r)
				return
			}

			if p.Bans != nil && p.Strikes > 0 {
				strikes, err := p.Bans.Strike(ctx, ip, p.StrikeTTL)
				if err != nil {
					log.Error(ctx, "strike failed", err)
				} else if strikes >= p.Strikes {
					if err := p.Bans.Ban(ctx, ip, r.URL.Path, strikes, p.BanDuration); err != nil {
						log.Error(ctx, "ban failed", err)
					} else {
						log.Warn(log.WithFields(ctx, map[string]any{
							"client":  ip,
							"strikes": strikes,
						}), "client banned")
					}
				}
			}

			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "too many requests")
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
