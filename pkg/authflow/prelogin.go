package authflow

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/tendant/gpauth/pkg/authform"
	"github.com/tendant/gpauth/pkg/gperrors"
)

// defaultPasswordLabel is the label servers send for a plain password
// prompt. A different label is the documented hint that the first-round
// secret is really a token (see classifySecret).
const defaultPasswordLabel = "Password"

// parsePrelogin turns a prelogin-response tree into the initial auth form.
//
// The form always has two fields: the username (hidden once a previous
// round accepted one) and one secret, which is either the account password,
// a token code, or an externally obtained secret named by the alt-secret
// override. Any prior form on the context is replaced.
func (f *Flow) parsePrelogin(lctx *loginContext, root *etree.Element) error {
	if root.Tag != "prelogin-response" {
		return gperrors.Newf(gperrors.ErrCodeMalformedResponse, "expected prelogin-response, got <%s>", root.Tag)
	}

	var prompt, usernameLabel, passwordLabel, samlMethod, samlPath string
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "saml-request":
			decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(child.Text()))
			if err != nil {
				return gperrors.Wrapf(err, gperrors.ErrCodeMalformedResponse, "could not decode SAML request as base64: %s", child.Text())
			}
			samlPath = string(decoded)
		case "saml-auth-method":
			samlMethod = child.Text()
		case "authentication-message":
			prompt = child.Text()
		case "username-label":
			usernameLabel = child.Text()
		case "password-label":
			passwordLabel = child.Text()
		}
	}

	// SAML must be completed externally; the alt-secret field carries its
	// result back in. With a portal cookie we can proceed without it.
	if samlMethod != "" || samlPath != "" {
		switch {
		case lctx.portalUserauthcookie != "":
			lctx.log.Debug("SAML authentication required; using portal-userauthcookie to continue SAML")
		case lctx.portalPrelogonuserauthcookie != "":
			lctx.log.Debug("SAML authentication required; using portal-prelogonuserauthcookie to continue SAML")
		case lctx.altSecret != "":
			lctx.log.Debug("destination form field was specified; assuming SAML authentication is complete",
				"field", lctx.altSecret, "method", samlMethod)
		default:
			var msg string
			if samlMethod == "REDIRECT" {
				msg = fmt.Sprintf("SAML %s authentication is required via %s", samlMethod, samlPath)
			} else {
				msg = fmt.Sprintf("SAML %s authentication is required via external script", samlMethod)
			}
			lctx.log.Error(msg)
			lctx.log.Error("when SAML authentication is complete, specify destination form field by appending :field_name to login URL")
			return gperrors.New(gperrors.ErrCodeAuthorizationRequired,
				msg+"; when complete, append :field_name to the login URL to name the field carrying the result")
		}
	}

	if prompt == "" {
		prompt = "Please enter your username and password"
	}
	form := &authform.Form{
		Message: prompt,
		AuthID:  authform.AuthIDLogin,
	}

	// First field: username. Hidden once a previous round accepted one.
	user := &authform.Field{Name: "user"}
	if usernameLabel == "" {
		usernameLabel = "Username"
	}
	user.Label = usernameLabel + ": "
	if lctx.username == "" {
		user.Kind = authform.Text
	} else {
		user.Kind = authform.Hidden
		user.Value = lctx.username
		lctx.username = ""
	}

	// Second field: the secret.
	secret := &authform.Field{Name: "passwd"}
	if lctx.altSecret != "" {
		secret.Name = lctx.altSecret
		secret.Label = lctx.altSecret + ": "
	} else if passwordLabel != "" {
		secret.Label = passwordLabel + ": "
	} else {
		secret.Label = defaultPasswordLabel + ": "
	}
	secret.Kind = f.classifySecret(lctx, secret, passwordLabel)

	form.Fields = []*authform.Field{user, secret}
	lctx.form = form

	lctx.log.Debug("built prelogin form",
		"auth_id", form.AuthID,
		"user_field", user.Kind.String(),
		"secret_field", secret.Name,
		"secret_kind", secret.Kind.String())
	return nil
}

// classifySecret decides Password vs Token for the first-round secret.
//
// Some deployments use a password in the first form followed by a token in
// the challenge form; others use only a token. The documented heuristic: a
// non-default password label, with no local token capability and no
// alt-secret override, means the field is a token.
func (f *Flow) classifySecret(lctx *loginContext, secret *authform.Field, passwordLabel string) authform.FieldKind {
	if !f.canGenerateToken(secret) && lctx.altSecret == "" &&
		passwordLabel != "" && passwordLabel != defaultPasswordLabel {
		return authform.Token
	}
	return authform.Password
}
