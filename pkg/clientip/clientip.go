package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the client address used as a rate-limit key.
// RemoteAddr is normally host:port, but chi's RealIP middleware replaces it
// with the bare address from X-Real-IP or X-Forwarded-For.
func RealClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.Trim(addr, "[]")
}
