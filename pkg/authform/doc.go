// Package authform models the login forms exchanged during a GlobalProtect
// authentication handshake and the presentation surface that fills them in.
//
// # Overview
//
// The authform package provides:
//   - Form and Field types mirroring the server-driven login forms
//   - Field kinds (text, hidden, password, token, select)
//   - A Presenter interface for collecting user input
//   - PresenterFunc and Static adapters for non-interactive use and tests
//
// A login-phase form always carries exactly one secret field (password or
// token). Hidden fields carry fixed values and are never re-prompted. A
// select field additionally owns the portal's gateway choices.
package authform
