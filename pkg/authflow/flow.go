package authflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/tendant/gpauth/pkg/authform"
	"github.com/tendant/gpauth/pkg/gpclient"
	"github.com/tendant/gpauth/pkg/gperrors"
	"github.com/tendant/gpauth/pkg/session"
	"github.com/tendant/gpauth/pkg/tokencode"
)

// Flow drives the GlobalProtect login and logout handshakes for one
// session. Collaborators are injected at construction; the flow itself is
// fully sequential and owns the login context for the duration of a call.
type Flow struct {
	sess      *session.Session
	transport gpclient.Transport
	presenter authform.Presenter
	tokens    tokencode.Generator
	logger    *slog.Logger
}

// Option customizes a Flow.
type Option func(*Flow)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Flow) {
		f.logger = logger
	}
}

// WithTokenGenerator sets the token-code generator. Defaults to the
// disabled generator.
func WithTokenGenerator(g tokencode.Generator) Option {
	return func(f *Flow) {
		f.tokens = g
	}
}

// New creates a Flow bound to the given session and collaborators.
func New(sess *session.Session, transport gpclient.Transport, presenter authform.Presenter, opts ...Option) *Flow {
	f := &Flow{
		sess:      sess,
		transport: transport,
		presenter: presenter,
		tokens:    tokencode.Disabled(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// loginState is one step of the login state machine. Terminal outcomes are
// expressed as returns, not states.
type loginState int

const (
	statePrelogin loginState = iota
	stateFormPresented
	stateSubmitted
)

// ObtainCookie runs the full login handshake and, on success, leaves the
// accepted session cookie on the session.
//
// A trailing :fieldname suffix on the configured path names the field that
// carries an externally obtained secret (alt-secret); it is consumed here.
// A path naming portal/global-protect or gateway/ssl-vpn fixes the starting
// mode; otherwise portal mode is tried first and gateway mode once more on
// a wrong-endpoint outcome.
func (f *Flow) ObtainCookie(ctx context.Context) error {
	lctx := &loginContext{
		log: f.logger.With("attempt", uuid.NewString()),
	}
	if p := f.sess.URLPath; p != "" {
		if i := strings.LastIndex(p, ":"); i >= 0 {
			lctx.altSecret = p[i+1:]
			f.sess.URLPath = p[:i]
		}
	}

	path := f.sess.URLPath
	switch {
	case path == "portal" || strings.HasPrefix(path, "global-protect"):
		return f.login(ctx, true, lctx)
	case path == "gateway" || strings.HasPrefix(path, "ssl-vpn"):
		return f.login(ctx, false, lctx)
	default:
		err := f.login(ctx, true, lctx)
		if gperrors.IsCode(err, gperrors.ErrCodeWrongEndpoint) {
			err = f.login(ctx, false, lctx)
			if gperrors.IsCode(err, gperrors.ErrCodeWrongEndpoint) {
				lctx.log.Error("server is neither a GlobalProtect portal nor a gateway")
			}
		}
		return err
	}
}

// login runs the state machine in one mode (portal or gateway), switching
// to gateway mode internally after a portal success.
func (f *Flow) login(ctx context.Context, portal bool, lctx *loginContext) error {
	st := statePrelogin
	blindRetried := false
	for {
		switch st {
		case statePrelogin:
			if err := f.prelogin(ctx, portal, lctx); err != nil {
				return err
			}
			st = stateFormPresented

		case stateFormPresented:
			if err := f.presenter.Present(ctx, lctx.form); err != nil {
				if errors.Is(err, authform.ErrCancelled) {
					return gperrors.Wrap(err, gperrors.ErrCodeCancelled, "login form cancelled")
				}
				return err
			}
			st = stateSubmitted

		case stateSubmitted:
			err := f.submit(ctx, portal, lctx)
			switch {
			case gperrors.IsCode(err, gperrors.ErrCodeAuthorizationRejected):
				// Invalid credentials: blank the form and re-prompt, unless
				// this was the automatic retry. The retry budget is one.
				lctx.form.ClearValues()
				if blindRetried {
					return err
				}
				st = stateFormPresented

			case gperrors.IsCode(err, gperrors.ErrCodeNeedsAdditionalFactor):
				// Challenge round: the form was rebuilt in place.
				f.captureUsername(lctx)
				st = stateFormPresented

			case err != nil:
				return err

			case portal:
				// Portal login succeeded; the session cookie still has to come
				// from a gateway login. Blindly retry the same credentials on
				// the gateway if (a) a pass-through cookie allows it, or (b)
				// the accepted form was neither a challenge round nor
				// alt-secret (SAML). Otherwise start a fresh gateway round
				// from prelogin, since a challenge or SAML secret is single-use.
				f.captureUsername(lctx)
				portal = false
				if lctx.portalUserauthcookie != "" || lctx.portalPrelogonuserauthcookie != "" ||
					(lctx.form.AuthID != authform.AuthIDChallenge && lctx.altSecret == "") {
					lctx.log.Debug("portal login succeeded; retrying same credentials on gateway")
					blindRetried = true
					st = stateSubmitted
				} else {
					lctx.log.Debug("portal login succeeded; starting gateway login")
					st = statePrelogin
				}

			default:
				f.captureUsername(lctx)
				return nil
			}
		}
	}
}

// prelogin computes the prelogin path, issues the request, and parses the
// response into the initial auth form.
func (f *Flow) prelogin(ctx context.Context, portal bool, lctx *loginContext) error {
	path := f.sess.URLPath
	if !keepURLPath(path) {
		prefix := "ssl-vpn"
		if portal {
			prefix = "global-protect"
		}
		path = fmt.Sprintf("%s/prelogin.esp?tmp=tmp&clientVer=4100&clientos=%s", prefix, f.sess.OSName())
	}

	body, err := f.transport.Post(ctx, path, "", nil)
	if err != nil {
		return err
	}
	root, ch, err := gpclient.Interpret(body)
	if err != nil {
		return err
	}
	if ch != nil {
		return gperrors.New(gperrors.ErrCodeMalformedResponse, "unexpected challenge directive during prelogin")
	}
	return f.parsePrelogin(lctx, root)
}

// keepURLPath reports whether the configured path already names an .esp
// endpoint (optionally followed by a query string) and must be used
// verbatim for prelogin.
func keepURLPath(path string) bool {
	i := strings.Index(path, ".esp")
	return i >= 0 && (len(path) == i+4 || path[i+4] == '?')
}

// submit generates a token code if needed, posts the filled form to the
// mode's endpoint, and dispatches the response to the matching parser. A
// challenge-shaped response is applied to the current form.
func (f *Flow) submit(ctx context.Context, portal bool, lctx *loginContext) error {
	// A no-op generator leaves the user-typed code in place. Once generation
	// has failed the session falls back to user-typed codes for good.
	if secret := lctx.form.SecretField(); secret != nil && secret.Kind == authform.Token && !f.sess.TokenDisabled {
		if err := f.tokens.Generate(ctx, lctx.form, secret); err != nil {
			lctx.log.Error("failed to generate OTP token code; disabling token", "err", err)
			f.sess.TokenDisabled = true
			return gperrors.Wrap(err, gperrors.ErrCodeTokenGenerationFailed, "failed to generate token code")
		}
	}

	body := f.buildSubmitBody(lctx)
	path := "ssl-vpn/login.esp"
	if portal {
		path = "global-protect/getconfig.esp"
	}
	respBody, err := f.transport.Post(ctx, path, gpclient.ContentTypeForm, []byte(body))
	if err != nil {
		return err
	}

	root, ch, err := gpclient.Interpret(respBody)
	if err != nil {
		return err
	}
	if ch != nil {
		return f.applyChallenge(lctx, ch)
	}
	if portal {
		return f.parsePortalConfig(ctx, lctx, root)
	}
	return f.parseGatewayLogin(lctx, root)
}

// buildSubmitBody assembles the urlencoded submit body in the fixed key
// order the server expects.
func (f *Flow) buildSubmitBody(lctx *loginContext) string {
	var b strings.Builder
	b.WriteString("jnlpReady=jnlpReady&ok=Login&direct=yes&clientVer=4100&prot=https:")

	ipv6 := "yes"
	if f.sess.DisableIPv6 {
		ipv6 = "no"
	}
	appendOpt(&b, "ipv6-support", ipv6)
	appendOpt(&b, "clientos", f.sess.OSName())
	appendOpt(&b, "os-version", f.sess.Platform)
	appendOpt(&b, "server", f.sess.Hostname)
	appendOpt(&b, "computer", f.sess.LocalName)
	if lctx.portalUserauthcookie != "" {
		appendOpt(&b, "portal-userauthcookie", lctx.portalUserauthcookie)
	}
	if lctx.portalPrelogonuserauthcookie != "" {
		appendOpt(&b, "portal-prelogonuserauthcookie", lctx.portalPrelogonuserauthcookie)
	}
	if f.sess.PreferredIP != "" {
		appendOpt(&b, "preferred-ip", f.sess.PreferredIP)
	}
	if f.sess.PreferredIPv6 != "" {
		appendOpt(&b, "preferred-ipv6", f.sess.PreferredIPv6)
	}
	if lctx.form.Action != "" {
		appendOpt(&b, "inputStr", lctx.form.Action)
	}
	for _, fld := range lctx.form.Fields {
		appendOpt(&b, fld.Name, fld.Value)
	}
	return b.String()
}

// captureUsername locks in the username once a login step has accepted it.
func (f *Flow) captureUsername(lctx *loginContext) {
	if lctx.username == "" && len(lctx.form.Fields) > 0 {
		lctx.username = lctx.form.Fields[0].Value
	}
}

// canGenerateToken reports token capability, honoring the session-wide
// disable flag set after a generation failure.
func (f *Flow) canGenerateToken(field *authform.Field) bool {
	if f.sess.TokenDisabled {
		return false
	}
	return f.tokens.CanGenerate(field)
}
