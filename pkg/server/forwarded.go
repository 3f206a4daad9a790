package server

import (
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/vango-dev/searchroute/pkg/routing"
)

// requestLocation rebuilds the browser location of r. Forwarded scheme and
// host are honored only when the peer is a trusted proxy.
func requestLocation(r *http.Request, trusted *proxyMatcher) routing.Location {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host

	if trusted.IsTrusted(remoteIPFromRequest(r)) {
		forwarded := r.Header.Get("Forwarded")
		if proto := forwardedParam(forwarded, "proto"); proto != "" {
			scheme = proto
		} else if proto := firstValue(r.Header.Get("X-Forwarded-Proto")); proto != "" {
			scheme = proto
		}
		if h := forwardedParam(forwarded, "host"); h != "" {
			host = h
		} else if h := firstValue(r.Header.Get("X-Forwarded-Host")); h != "" {
			host = h
		}
	}

	u := &url.URL{
		Scheme:   strings.ToLower(scheme),
		Host:     host,
		Path:     r.URL.Path,
		RawPath:  r.URL.RawPath,
		RawQuery: r.URL.RawQuery,
	}
	return routing.LocationFromURL(u)
}

// forwardedParam returns key from the first element of an RFC 7239
// Forwarded header.
func forwardedParam(header, key string) string {
	if header == "" {
		return ""
	}
	first, _, _ := strings.Cut(header, ",")
	for _, param := range strings.Split(first, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(k), key) {
			continue
		}
		return strings.Trim(strings.TrimSpace(v), "\"")
	}
	return ""
}

func firstValue(header string) string {
	first, _, _ := strings.Cut(header, ",")
	return strings.TrimSpace(first)
}

// clientIP returns the address logged for a connection.
func (s *Server) clientIP(r *http.Request) string {
	ip := clientIPFromRequest(r, s.trustedProxies)
	if ip == nil {
		return ""
	}
	return ip.String()
}

func clientIPFromRequest(r *http.Request, trusted *proxyMatcher) net.IP {
	remoteIP := remoteIPFromRequest(r)
	if remoteIP == nil {
		return nil
	}
	if !trusted.IsTrusted(remoteIP) {
		return remoteIP
	}

	var candidates []net.IP
	if header := r.Header.Get("Forwarded"); header != "" {
		for _, element := range strings.Split(header, ",") {
			if ip := parseForwardedIP(forwardedParam(element, "for")); ip != nil {
				candidates = append(candidates, ip)
			}
		}
	} else {
		for _, part := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
			if ip := parseForwardedIP(part); ip != nil {
				candidates = append(candidates, ip)
			}
		}
	}
	if len(candidates) == 0 {
		return remoteIP
	}

	// The right-most address not added by our own proxies is the client.
	for i := len(candidates) - 1; i >= 0; i-- {
		if !trusted.IsTrusted(candidates[i]) {
			return candidates[i]
		}
	}
	return candidates[0]
}

func remoteIPFromRequest(r *http.Request) net.IP {
	if r == nil {
		return nil
	}
	return parseForwardedIP(r.RemoteAddr)
}

func parseForwardedIP(value string) net.IP {
	host := strings.Trim(strings.TrimSpace(value), "\"")
	if host == "" || strings.EqualFold(host, "unknown") {
		return nil
	}

	if strings.HasPrefix(host, "[") {
		if end := strings.Index(host, "]"); end != -1 {
			host = host[1:end]
		}
	} else if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	if zone := strings.Index(host, "%"); zone != -1 {
		host = host[:zone]
	}
	return net.ParseIP(host)
}

type proxyMatcher struct {
	ips  map[string]struct{}
	nets []*net.IPNet
}

// newProxyMatcher returns nil when no usable entry is given. Bad entries
// are logged and skipped.
func newProxyMatcher(entries []string, logger *slog.Logger) *proxyMatcher {
	ips := make(map[string]struct{})
	var nets []*net.IPNet

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			_, network, err := net.ParseCIDR(entry)
			if err != nil {
				if logger != nil {
					logger.Warn("invalid trusted proxy CIDR", "entry", entry, "error", err)
				}
				continue
			}
			nets = append(nets, network)
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			if logger != nil {
				logger.Warn("invalid trusted proxy IP", "entry", entry)
			}
			continue
		}
		ips[ip.String()] = struct{}{}
	}

	if len(ips) == 0 && len(nets) == 0 {
		return nil
	}
	return &proxyMatcher{ips: ips, nets: nets}
}

func (m *proxyMatcher) IsTrusted(ip net.IP) bool {
	if m == nil || ip == nil {
		return false
	}
	if _, ok := m.ips[ip.String()]; ok {
		return true
	}
	for _, network := range m.nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
