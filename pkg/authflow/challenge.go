package authflow

import (
	"github.com/tendant/gpauth/pkg/authform"
	"github.com/tendant/gpauth/pkg/gpclient"
	"github.com/tendant/gpauth/pkg/gperrors"
)

// applyChallenge mutates the existing form in place into a second-round
// challenge form. The hidden username field keeps its already-accepted
// value; the secret field is cleared and re-labeled, and its kind flips by
// the inverse of the prelogin heuristic.
//
// Always returns ErrCodeNeedsAdditionalFactor: the caller must present the
// rebuilt form and resubmit.
func (f *Flow) applyChallenge(lctx *loginContext, ch *gpclient.Challenge) error {
	form := lctx.form
	if form == nil || len(form.Fields) < 2 {
		return gperrors.New(gperrors.ErrCodeMalformedResponse, "challenge received without a prior login form")
	}
	user, secret := form.Fields[0], form.Fields[1]

	user.Kind = authform.Hidden
	secret.Value = ""
	secret.Label = "Challenge: "

	// Inverse of the prelogin heuristic: a password field in the preceding
	// form means this round's secret is a token, unless we can generate one.
	if !f.canGenerateToken(secret) && secret.Kind == authform.Password {
		secret.Kind = authform.Token
	} else {
		secret.Kind = authform.Password
	}

	form.Message = ch.Prompt
	form.Action = ch.InputStr
	form.AuthID = authform.AuthIDChallenge

	lctx.log.Debug("built challenge form",
		"auth_id", form.AuthID,
		"user", user.Value,
		"secret_kind", secret.Kind.String(),
		"input_str", ch.InputStr)
	return gperrors.New(gperrors.ErrCodeNeedsAdditionalFactor, "server requested an additional authentication factor")
}
