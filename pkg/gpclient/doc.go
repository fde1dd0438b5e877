// Package gpclient is the HTTPS transport for the GlobalProtect
// authentication handshake.
//
// # Overview
//
// The gpclient package provides:
//   - A Transport interface the login flow drives (post, redirect, reset)
//   - A net/http implementation applying the product user agent per request
//   - Response interpretation: XML document, challenge directive, or the
//     generic <response status="..."> success/error convention
//
// Timeouts and TLS behavior belong to the underlying http.Client; the login
// flow never configures them.
package gpclient
