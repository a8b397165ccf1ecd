package middleware

import (
	"net"
	"net/http"
	"strings"
)

// GetClientIP extracts the client IP from the request.
// It checks X-Forwarded-For and X-Real-IP headers first (for proxied requests).
//
// Note: these headers can be spoofed unless a reverse proxy sets them and
// direct access to the application is not possible.
func GetClientIP(r *http.Request) string {
	// X-Forwarded-For is a comma-separated list; the first entry is the client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
