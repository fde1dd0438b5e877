// Package authflow implements the GlobalProtect login and logout handshake.
//
// # Overview
//
// The authflow package provides:
//   - ObtainCookie: the multi-round, form-driven login state machine
//     (prelogin → form → submit → challenge / portal redirect / success)
//   - Logout: the mirror-image logout handshake
//   - The three response parsers (prelogin, gateway login, portal config)
//   - The challenge-to-form transform for one-time-token rounds
//   - Session-cookie assembly from the gateway's positional argument schema
//
// # Architecture
//
// A Flow binds a session.Session to three collaborators: a
// gpclient.Transport for the HTTPS exchanges, an authform.Presenter that
// collects user input for each server-driven form, and a
// tokencode.Generator for token-classified secret fields. One login context
// is threaded through all rounds of a single ObtainCookie call; it locks in
// the accepted username, carries the portal pass-through cookies, and owns
// the current form.
//
// # Basic Usage
//
//	sess := session.New("vpn.example.com")
//	client := gpclient.New(sess)
//	flow := authflow.New(sess, client, presenter)
//
//	if err := flow.ObtainCookie(ctx); err != nil {
//		// inspect gperrors.GetCode(err)
//	}
//	// sess.Cookie now authorizes tunnel establishment
package authflow
