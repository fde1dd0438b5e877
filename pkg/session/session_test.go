package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOSName(t *testing.T) {
	tests := []struct {
		platform string
		want     string
	}{
		{"mac-intel", "Mac"},
		{"apple-ios", "Mac"},
		{"linux-64", "Linux"},
		{"linux", "Linux"},
		{"android", "Linux"},
		{"win", "Windows"},
		{"", "Windows"},
	}
	for _, tt := range tests {
		s := &Session{Platform: tt.platform}
		assert.Equal(t, tt.want, s.OSName(), "platform %q", tt.platform)
	}
}

func TestAddr(t *testing.T) {
	s := New("vpn.example.com")
	assert.Equal(t, "vpn.example.com", s.Addr())

	s.Port = 8443
	assert.Equal(t, "vpn.example.com:8443", s.Addr())

	s.Port = 443
	assert.Equal(t, "vpn.example.com", s.Addr())
}
