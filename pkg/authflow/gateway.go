package authflow

import (
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/tendant/gpauth/pkg/gperrors"
)

// parseGatewayLogin validates a gateway login response against the
// positional argument schema and assembles the session cookie.
//
// The schema table and the XML arguments are walked in lockstep by
// position, continuing past the shorter of the two so that both extra and
// missing arguments are detected. On success the assembled cookie string
// becomes the session's accepted cookie.
func (f *Flow) parseGatewayLogin(lctx *loginContext, root *etree.Element) error {
	if root.Tag != "jnlp" {
		return gperrors.Newf(gperrors.ErrCodeMalformedResponse, "expected jnlp, got <%s>", root.Tag)
	}
	children := root.ChildElements()
	if len(children) == 0 || children[0].Tag != "application-desc" {
		return gperrors.New(gperrors.ErrCodeMalformedResponse, "jnlp response missing application-desc")
	}
	args := children[0].ChildElements()

	var cookie strings.Builder
	unknownArgs, fatalArgs := 0, 0

	for argn := 0; argn < len(gatewayArgs) || argn < len(args); argn++ {
		// Slot 0 is always-unknown; recycle it for overflow arguments.
		arg := gatewayArgs[0]
		if argn < len(gatewayArgs) {
			arg = gatewayArgs[argn]
		}

		var value string
		if argn < len(args) {
			el := args[argn]
			if el.Tag != "argument" {
				return gperrors.Newf(gperrors.ErrCodeMalformedResponse, "unexpected <%s> in application-desc", el.Tag)
			}
			value = el.Text()
			// Empty, "(null)", and "-1" all mean absent.
			if value == "(null)" || value == "-1" {
				value = ""
			} else if value != "" && arg.save {
				// Cookie-bound values are percent-encoded on the wire (the
				// domain field in particular) and must be decoded for the
				// logout round to succeed.
				value = urlDecode(value)
			}
		}

		switch {
		case arg.unknown && value != "":
			unknownArgs++
			lctx.log.Error("gateway login returned unexpected argument value", "position", argn, "value", value)
		case arg.check != "" && value != arg.check:
			unknownArgs++
			if arg.errMissing {
				fatalArgs++
			}
			lctx.log.Error("gateway login returned unexpected protocol field",
				"key", arg.key, "value", value, "expected", arg.check)
		case (arg.errMissing || arg.warnMissing) && value == "":
			unknownArgs++
			if arg.errMissing {
				fatalArgs++
			}
			lctx.log.Error("gateway login returned empty or missing argument", "key", arg.key)
		case arg.show && value != "":
			lctx.log.Info("gateway login argument", "key", arg.key, "value", value)
		}

		if value != "" && arg.save {
			appendOpt(&cookie, arg.key, value)
		}
	}
	appendOpt(&cookie, "computer", f.sess.LocalName)

	if unknownArgs > 0 {
		lctx.log.Error("gateway login returned unexpected values", "unexpected", unknownArgs, "fatal", fatalArgs)
	}
	if fatalArgs > 0 {
		return gperrors.Newf(gperrors.ErrCodeAuthorizationRejected,
			"gateway login response failed schema validation with %d fatal mismatches", fatalArgs).
			WithDetail("code", string(gperrors.ErrCodeProtocolFieldMismatch))
	}

	f.sess.Cookie = cookie.String()
	return nil
}

// urlDecode percent-decodes a value, returning it unchanged when the
// encoding is invalid.
func urlDecode(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
