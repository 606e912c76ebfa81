package pkg

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"regexp"
	"strings"
)

var (
	localDockerIpRegex = regexp.MustCompile(`^172\.\d{1,3}\.0\.1:\d{1,5}`)
)

func IPIsLocal(ipAddr string) bool {
	if strings.HasPrefix(ipAddr, "127.0.0.1:") {
		return true
	}
	// within docker network
	return localDockerIpRegex.MatchString(ipAddr)
}

// TrustedProxies lists the peers allowed to set X-Real-Ip and X-Forwarded-For.
type TrustedProxies []netip.Prefix

// ParseTrustedProxies accepts plain addresses ("10.0.0.5") and CIDRs ("172.16.0.0/12").
func ParseTrustedProxies(entries []string) (TrustedProxies, error) {
	proxies := make(TrustedProxies, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
			}
			proxies = append(proxies, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
		}
		proxies = append(proxies, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return proxies, nil
}

// Contains reports whether host (an address without port) is a trusted proxy.
func (t TrustedProxies) Contains(host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range t {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// forwardedClient picks the client address reported by a trusted proxy. In
// X-Forwarded-For it is the rightmost hop that is not a proxy itself, since
// entries left of it are whatever the client chose to send.
func (t TrustedProxies) forwardedClient(r *http.Request) string {
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-Ip")); realIP != "" {
		return realIP
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop != "" && !t.Contains(hop) {
			return hop
		}
	}
	return ""
}

func hostOf(ipAddr string) string {
	if h, _, err := net.SplitHostPort(ipAddr); err == nil {
		return h
	}
	return ipAddr
}

// ReadUserIP returns the client IP. Proxy headers are only honored when the
// direct peer is one of trusted. Local addresses are collapsed to "localhost"
// so rate limiting works in development.
func ReadUserIP(r *http.Request, trusted TrustedProxies) (string, error) {
	ipAddr := r.RemoteAddr
	if trusted.Contains(hostOf(r.RemoteAddr)) {
		if client := trusted.forwardedClient(r); client != "" {
			ipAddr = client
		}
	}

	if IPIsLocal(ipAddr) {
		return "localhost", nil
	}

	host := hostOf(ipAddr)
	if net.ParseIP(host) == nil {
		return "", fmt.Errorf("ip addr %s is invalid", ipAddr)
	}

	return host, nil
}
