// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package geoip

import "testing"

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		name     string
		ip       string
		expected bool
	}{
		// RFC 1918
		{"10.0.0.0/8 start", "10.0.0.1", true},
		{"10.0.0.0/8 end", "10.255.255.255", true},
		{"172.16.0.0/12 start", "172.16.0.1", true},
		{"172.16.0.0/12 end", "172.31.255.255", true},
		{"192.168.0.0/16 middle", "192.168.100.50", true},

		// Loopback and link-local
		{"loopback", "127.0.0.1", true},
		{"loopback other", "127.100.50.25", true},
		{"link-local", "169.254.100.50", true},

		// IPv6
		{"IPv6 loopback", "::1", true},
		{"IPv6 link-local", "fe80::1", true},
		{"IPv6 link-local with zone", "fe80::1%eth0", true},
		{"IPv6 unique local fc00", "fc00::1", true},
		{"IPv6 unique local fd00", "fd00::1234:5678", true},
		{"IPv4-mapped loopback", "::ffff:127.0.0.1", true},

		// With ports
		{"IPv4 with port", "192.168.1.1:8096", true},
		{"IPv6 with port", "[::1]:8096", true},

		// Public
		{"public IPv4", "8.8.8.8", false},
		{"public IPv4 other", "93.184.216.34", false},
		{"public IPv6", "2001:4860:4860::8888", false},

		// Edge cases
		{"not in 172.16/12", "172.32.0.1", false},
		{"just below 172.16", "172.15.255.255", false},
		{"invalid", "not-an-ip", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPrivateIP(tt.ip); got != tt.expected {
				t.Errorf("IsPrivateIP(%q) = %v, want %v", tt.ip, got, tt.expected)
			}
		})
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"8.8.8.8", "8.8.8.8", true},
		{" 8.8.8.8 ", "8.8.8.8", true},
		{"8.8.8.8:22", "8.8.8.8", true},
		{"[2001:db8::1]:443", "2001:db8::1", true},
		{"[2001:db8::1]", "2001:db8::1", true},
		{"::ffff:1.2.3.4", "1.2.3.4", true},
		{"1.2.3", "", false},
		{"example.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			addr, ok := ParseAddress(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseAddress(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && addr.String() != tt.want {
				t.Errorf("ParseAddress(%q) = %s, want %s", tt.input, addr, tt.want)
			}
		})
	}
}
