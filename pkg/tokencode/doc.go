// Package tokencode generates one-time token codes for token-classified
// form fields.
//
// The authentication engine never implements an OTP algorithm itself; it
// asks a Generator whether it can produce a code for a field and, at submit
// time, asks it to fill the field in. The default TOTP generator delegates
// to github.com/pquerna/otp.
package tokencode
