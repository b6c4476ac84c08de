package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the peer address of the request for rate limiting
// and logging. It reads r.RemoteAddr and ignores X-Forwarded-For and the
// like, so behind a reverse proxy every request shares the proxy's IP.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}
