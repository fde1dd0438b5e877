package authflow

// gatewayArg describes one positional slot of the gateway login response
// (<jnlp><application-desc><argument>...). The table is static protocol
// knowledge: slot order, expected literals, and severity flags detect
// server version skew.
type gatewayArg struct {
	key         string // wire name of the slot
	check       string // expected literal value, if any
	save        bool   // value becomes part of the session cookie
	show        bool   // value is logged at info level
	warnMissing bool   // absence is diagnosed
	errMissing  bool   // absence or mismatch is fatal
	unknown     bool   // always expected empty; a value is diagnosed
}

// gatewayArgs is the 21-slot argument schema current servers send. Slot 0
// is always-unknown and is recycled for any overflow arguments beyond the
// table length.
var gatewayArgs = [...]gatewayArg{
	{unknown: true}, // seemingly always empty
	{key: "authcookie", save: true, errMissing: true},
	{key: "persistent-cookie", warnMissing: true}, // 40 hex digits; persists across sessions
	{key: "portal", save: true, warnMissing: true},
	{key: "user", save: true, errMissing: true},
	{key: "authentication-source", show: true}, // LDAP-auth, AUTH-RADIUS_RSA_OTP, etc.
	{key: "configuration", warnMissing: true},  // usually vsys1 (sometimes vsys2, etc.)
	{key: "domain", save: true, warnMissing: true},
	{unknown: true}, // 4 arguments, seemingly always empty
	{unknown: true},
	{unknown: true},
	{unknown: true},
	{key: "connection-type", errMissing: true, check: "tunnel"},
	{key: "password-expiration-days", show: true}, // days until password expires, if not -1
	{key: "clientVer", errMissing: true, check: "4100"},
	{key: "preferred-ip", save: true},
	{key: "portal-userauthcookie", show: true},
	{key: "portal-prelogonuserauthcookie", show: true},
	{key: "preferred-ipv6", save: true},
	{key: "usually-equals-4", show: true},       // newer servers send "4" here, meaning unknown
	{key: "usually-equals-unknown", show: true}, // newer servers send "unknown" here
}
