package authflow

import (
	"log/slog"

	"github.com/tendant/gpauth/pkg/authform"
)

// loginContext is the mutable state threaded through one login attempt.
// It outlives individual HTTP round trips and is discarded at the end of
// ObtainCookie.
type loginContext struct {
	// username that has already succeeded in some form. Once captured it is
	// re-offered as a hidden field in subsequent rounds.
	username string

	// altSecret overrides which field name carries the secret, parsed from
	// a trailing :fieldname suffix on the configured path. Used to feed an
	// externally obtained secret (e.g. a completed SAML flow) into the form.
	altSecret string

	// Pass-through cookies issued by the portal config response.
	portalUserauthcookie         string
	portalPrelogonuserauthcookie string

	// form is the current auth form. Replaced wholesale on each prelogin
	// round; mutated in place by the challenge transform.
	form *authform.Form

	// log carries the attempt-scoped correlation fields.
	log *slog.Logger
}
