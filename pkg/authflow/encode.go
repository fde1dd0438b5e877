package authflow

import (
	"fmt"
	"strings"
)

// appendOpt appends key=value to an ordered urlencoded string. Key order is
// part of the protocol, which rules out map-backed encoders.
func appendOpt(b *strings.Builder, key, value string) {
	if b.Len() > 0 {
		b.WriteByte('&')
	}
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(urlEncode(value))
}

// urlEncode percent-encodes a value, leaving the RFC 2396 mark characters
// alone. The domain value "(empty_domain)" must survive as-is in the
// cookie for the logout request to match.
func urlEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x80 && (isAlnum(c) || strings.IndexByte("-_.!~*'()", c) >= 0) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02x", c)
		}
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
