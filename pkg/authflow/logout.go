package authflow

import (
	"context"

	"github.com/tendant/gpauth/pkg/gpclient"
	"github.com/tendant/gpauth/pkg/gperrors"
)

// Logout submits the logout handshake for the currently held session
// cookie. Best effort: failure is reported but never retried.
//
// The server requires the original login-establishing fields, not just the
// authcookie; the body is therefore the literal stored cookie string. If
// any field is wrong or missing the server performs a silent no-op logout
// and the authcookie stays valid.
func (f *Flow) Logout(ctx context.Context, reason string) error {
	log := f.logger.With("reason", reason)
	if f.sess.Cookie == "" {
		return gperrors.New(gperrors.ErrCodeInternal, "no session cookie to log out")
	}

	// Drop pooled connections so the logout opens a fresh one. The caller
	// must have closed the tunnel connection itself already, or the server
	// treats the logout as a no-op.
	f.transport.Reset()

	body, err := f.transport.Post(ctx, "ssl-vpn/logout.esp", gpclient.ContentTypeForm, []byte(f.sess.Cookie))
	if err == nil {
		var ch *gpclient.Challenge
		if _, ch, err = gpclient.Interpret(body); err == nil && ch != nil {
			err = gperrors.New(gperrors.ErrCodeMalformedResponse, "unexpected challenge directive during logout")
		}
	}
	if err != nil {
		log.Error("logout failed", "err", err)
		return err
	}
	log.Info("logout successful")
	return nil
}
