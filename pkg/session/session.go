package session

import (
	"fmt"
	"os"
)

// Session is the mutable client-session state the authentication engine
// reads and writes: the target endpoint, client identity strings, the
// accepted session cookie, and portal-communicated policy values.
type Session struct {
	Hostname string // portal or gateway host
	Port     int    // 0 or 443 means the default HTTPS port
	URLPath  string // configured entry path; may carry a trailing :fieldname suffix

	Platform  string // platform identifier, e.g. "linux-64", "mac-intel"
	LocalName string // local hostname sent as "computer"

	DisableIPv6   bool
	PreferredIP   string // already-assigned IPv4 address, if any
	PreferredIPv6 string // already-assigned IPv6 address, if any

	// Cookie is the accepted session credential: an ordered urlencoded
	// key=value string assembled from the gateway login response.
	Cookie string

	// TrojanInterval is the effective HIP report interval in seconds. An
	// externally configured value always wins over the portal's.
	TrojanInterval int

	// AuthGroup is the selected (or defaulted) gateway wire value.
	AuthGroup string

	// TokenDisabled is set after a token-code generation failure and
	// suppresses token classification for the rest of the session.
	TokenDisabled bool

	// WriteServerList, when set, receives the <GPPortal><ServerList>
	// document built from the portal's gateway list.
	WriteServerList func(doc []byte) error
}

// New returns a session for the given host with the local hostname and a
// Linux platform identifier filled in.
func New(hostname string) *Session {
	local, _ := os.Hostname()
	return &Session{
		Hostname:  hostname,
		Port:      443,
		Platform:  "linux-64",
		LocalName: local,
	}
}

// Addr returns host or host:port when a non-default port is set.
func (s *Session) Addr() string {
	if s.Port != 0 && s.Port != 443 {
		return fmt.Sprintf("%s:%d", s.Hostname, s.Port)
	}
	return s.Hostname
}

// OSName maps the platform identifier to the client OS name known to be
// emitted by GlobalProtect clients.
func (s *Session) OSName() string {
	switch s.Platform {
	case "mac-intel", "apple-ios":
		return "Mac"
	case "linux-64", "linux", "android":
		return "Linux"
	default:
		return "Windows"
	}
}
