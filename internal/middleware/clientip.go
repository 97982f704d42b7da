package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the client address of r. Forwarding headers only count
// when the router runs chi's RealIP, which folds them into RemoteAddr.
func ClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	if ip := net.ParseIP(addr); ip != nil {
		return ip.String()
	}
	return ""
}
