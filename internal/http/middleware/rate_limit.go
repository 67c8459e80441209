package middleware

import (
	"encoding/json"
	"net"
	"net/http"

	rl "github.com/rogerio-castellano/vending-machine/internal/http/rate_limiter"
	"github.com/rogerio-castellano/vending-machine/internal/obs"
)

// RateLimit rejects clients that exceed their request budget with 429. The
// client key is the remote IP, so chi's RealIP should run first.
func RateLimit(visitors *rl.Visitors) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !visitors.Allow(ip) {
				obs.Logger.Warn("request rate exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   "too_many_requests",
					"details": "request rate exceeded",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
