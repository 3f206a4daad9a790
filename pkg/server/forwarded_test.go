package server

import (
	"crypto/tls"
	"net"
	"net/http/httptest"
	"testing"
)

func TestClientIPFromRequest_UntrustedProxyIgnoresForwarded(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.com", nil)
	req.RemoteAddr = "198.51.100.10:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.5")

	trusted := newProxyMatcher([]string{"203.0.113.1"}, nil)
	got := clientIPFromRequest(req, trusted)
	want := net.ParseIP("198.51.100.10")

	if got == nil || !got.Equal(want) {
		t.Fatalf("clientIP=%v, want %v", got, want)
	}
}

func TestClientIPFromRequest_TrustedProxyRightMostUntrusted(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.com", nil)
	req.RemoteAddr = "203.0.113.10:1234"
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 203.0.113.11, 192.0.2.20")

	trusted := newProxyMatcher([]string{"203.0.113.10", "203.0.113.11"}, nil)
	got := clientIPFromRequest(req, trusted)
	want := net.ParseIP("192.0.2.20")

	if got == nil || !got.Equal(want) {
		t.Fatalf("clientIP=%v, want %v", got, want)
	}
}

func TestClientIPFromRequest_AllTrustedUsesLeftmost(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.com", nil)
	req.RemoteAddr = "203.0.113.10:1234"
	req.Header.Set("Forwarded", `for=192.0.2.1, for="[2001:db8::2]:4711"`)

	trusted := newProxyMatcher([]string{"203.0.113.10", "192.0.2.1", "2001:db8::/32"}, nil)
	got := clientIPFromRequest(req, trusted)
	want := net.ParseIP("192.0.2.1")

	if got == nil || !got.Equal(want) {
		t.Fatalf("clientIP=%v, want %v", got, want)
	}
}

func TestNewProxyMatcher_SkipsInvalidEntries(t *testing.T) {
	if m := newProxyMatcher([]string{"", "not-an-ip", "10.0.0.0/99"}, nil); m != nil {
		t.Fatalf("expected nil matcher, got %+v", m)
	}
	var m *proxyMatcher
	if m.IsTrusted(net.ParseIP("10.0.0.1")) {
		t.Error("nil matcher trusts nothing")
	}
}

func TestRequestLocation(t *testing.T) {
	trusted := newProxyMatcher([]string{"192.0.2.1"}, nil)

	tests := []struct {
		name    string
		target  string
		remote  string
		headers map[string]string
		tls     bool
		href    string
	}{
		{
			name:   "plain",
			target: "/search/TV/?page=2",
			href:   "http://example.com/search/TV/?page=2",
		},
		{
			name:   "tls",
			target: "/search/",
			tls:    true,
			href:   "https://example.com/search/",
		},
		{
			name:    "x-forwarded from trusted proxy",
			target:  "/search/",
			headers: map[string]string{"X-Forwarded-Proto": "HTTPS", "X-Forwarded-Host": "shop.example, internal"},
			href:    "https://shop.example/search/",
		},
		{
			name:    "forwarded header wins",
			target:  "/search/",
			headers: map[string]string{"Forwarded": `proto=https;host="shop.example:8443"`, "X-Forwarded-Host": "other"},
			href:    "https://shop.example:8443/search/",
		},
		{
			name:    "untrusted peer",
			target:  "/search/",
			remote:  "198.51.100.7:5000",
			headers: map[string]string{"X-Forwarded-Proto": "https", "X-Forwarded-Host": "evil.example"},
			href:    "http://example.com/search/",
		},
		{
			name:   "encoded category kept",
			target: "/search/Home+Audio/?query=a%2520b",
			href:   "http://example.com/search/Home+Audio/?query=a%2520b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.remote != "" {
				req.RemoteAddr = tt.remote
			}
			if tt.tls {
				req.TLS = &tls.ConnectionState{}
			}
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			loc := requestLocation(req, trusted)
			if loc.Href != tt.href {
				t.Errorf("Href = %q, want %q", loc.Href, tt.href)
			}
		})
	}
}
