package glossary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Normalization: lowercase, then keep only [a-z0-9]
// =============================================================================

func TestNormalize_Cases(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"TCP", "tcp"},
		{"  T-C-P!! ", "tcp"},
		{"Three-way Handshake", "threewayhandshake"},
		{"TCP/IP", "tcpip"},
		{"IPv6", "ipv6"},
		{"ChaCha20-Poly1305", "chacha20poly1305"},
		{"Request for Comments (RFC)", "requestforcommentsrfc"},
		{"", ""},
		{"   ", ""},
		{"--//!!", ""},
		{"café", "caf"},
		{"日本語 dns", "dns"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.in), "Normalize(%q)", tc.in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"", "TCP", "  T-C-P!! ", "Round-Trip Time (RTT)", "ÅÄÖ åäö 123",
		"\t\nmixed\x00bytes\xff", strings.Repeat("Ab-1 ", 500),
	}
	for _, s := range inputs {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "not idempotent for %q", s)
	}
}

func TestNormalize_Range(t *testing.T) {
	inputs := []string{
		"Hello, World!", "ÀÉÎÕÜ", "x25519 & X448", "K elvin", "İstanbul", "a\u0000b", "\xff\xfe",
	}
	for _, s := range inputs {
		for _, r := range Normalize(s) {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
			assert.True(t, ok, "Normalize(%q) produced %q", s, r)
		}
	}
}
