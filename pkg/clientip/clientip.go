// Package clientip identifies the peer a request came from, for rate limits
// and request logs.
package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// RealClientIP returns the peer address of r in canonical form, so
// "[::ffff:127.0.0.1]:5000" and "127.0.0.1:6000" share one limiter bucket.
// The journal client talks to this API directly; X-Forwarded-For and
// friends are ignored because any caller could set them to dodge a limit.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	host = strings.TrimSpace(host)
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr.Unmap().WithZone("").String()
	}
	return host
}
