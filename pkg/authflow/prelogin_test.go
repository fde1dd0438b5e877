package authflow

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/gpauth/pkg/authform"
	"github.com/tendant/gpauth/pkg/gperrors"
	"github.com/tendant/gpauth/pkg/session"
	"github.com/tendant/gpauth/pkg/tokencode"
)

const preloginDefault = `<prelogin-response>
  <status>Success</status>
  <username-label>Username</username-label>
  <password-label>Password</password-label>
</prelogin-response>`

func TestParsePreloginDefaultLabels(t *testing.T) {
	f, _ := newParserFlow(session.New("vpn.example.com"), nil)
	lctx := newTestContext()

	require.NoError(t, f.parsePrelogin(lctx, xmlRoot(t, preloginDefault)))
	form := lctx.form
	require.NotNil(t, form)
	assert.Equal(t, authform.AuthIDLogin, form.AuthID)
	assert.Equal(t, "Please enter your username and password", form.Message)
	require.Len(t, form.Fields, 2)

	user, secret := form.Fields[0], form.Fields[1]
	assert.Equal(t, "user", user.Name)
	assert.Equal(t, "Username: ", user.Label)
	assert.Equal(t, authform.Text, user.Kind)
	assert.Equal(t, "passwd", secret.Name)
	assert.Equal(t, "Password: ", secret.Label)
	assert.Equal(t, authform.Password, secret.Kind)
}

func TestParsePreloginAuthMessage(t *testing.T) {
	f, _ := newParserFlow(session.New("vpn.example.com"), nil)
	lctx := newTestContext()

	root := xmlRoot(t, `<prelogin-response>
  <authentication-message>Corporate VPN login</authentication-message>
</prelogin-response>`)
	require.NoError(t, f.parsePrelogin(lctx, root))
	assert.Equal(t, "Corporate VPN login", lctx.form.Message)
}

func TestParsePreloginTokenClassification(t *testing.T) {
	tests := []struct {
		name          string
		passwordLabel string
		totpSecret    string
		altSecret     string
		want          authform.FieldKind
	}{
		{name: "default label no token capability", passwordLabel: "Password", want: authform.Password},
		{name: "non-default label no token capability", passwordLabel: "PIN Code", want: authform.Token},
		{name: "non-default label with token capability", passwordLabel: "PIN Code", totpSecret: "JBSWY3DPEHPK3PXP", want: authform.Password},
		{name: "non-default label with alt secret", passwordLabel: "PIN Code", altSecret: "prelogin-cookie", want: authform.Password},
		{name: "no label at all", want: authform.Password},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.totpSecret != "" {
				opts = append(opts, WithTokenGenerator(tokencode.NewTOTP(tt.totpSecret)))
			}
			f, _ := newParserFlow(session.New("vpn.example.com"), nil, opts...)
			lctx := newTestContext()
			lctx.altSecret = tt.altSecret

			xml := `<prelogin-response>`
			if tt.passwordLabel != "" {
				xml += `<password-label>` + tt.passwordLabel + `</password-label>`
			}
			xml += `</prelogin-response>`

			require.NoError(t, f.parsePrelogin(lctx, xmlRoot(t, xml)))
			assert.Equal(t, tt.want, lctx.form.Fields[1].Kind)
		})
	}
}

func TestParsePreloginAltSecretNamesField(t *testing.T) {
	f, _ := newParserFlow(session.New("vpn.example.com"), nil)
	lctx := newTestContext()
	lctx.altSecret = "portal-userauthcookie"

	require.NoError(t, f.parsePrelogin(lctx, xmlRoot(t, preloginDefault)))
	secret := lctx.form.Fields[1]
	assert.Equal(t, "portal-userauthcookie", secret.Name)
	assert.Equal(t, "portal-userauthcookie: ", secret.Label)
}

func TestParsePreloginAcceptedUsernameHidden(t *testing.T) {
	f, _ := newParserFlow(session.New("vpn.example.com"), nil)
	lctx := newTestContext()
	lctx.username = "alice"

	require.NoError(t, f.parsePrelogin(lctx, xmlRoot(t, preloginDefault)))
	user := lctx.form.Fields[0]
	assert.Equal(t, authform.Hidden, user.Kind)
	assert.Equal(t, "alice", user.Value)
	// The context value moves into the field; it is re-captured on success.
	assert.Empty(t, lctx.username)
}

func TestParsePreloginSAML(t *testing.T) {
	samlPath := base64.StdEncoding.EncodeToString([]byte("https://idp.example.com/sso"))
	samlXML := `<prelogin-response>
  <saml-auth-method>REDIRECT</saml-auth-method>
  <saml-request>` + samlPath + `</saml-request>
</prelogin-response>`

	t.Run("unsatisfiable locally", func(t *testing.T) {
		f, _ := newParserFlow(session.New("vpn.example.com"), nil)
		lctx := newTestContext()
		err := f.parsePrelogin(lctx, xmlRoot(t, samlXML))
		require.Error(t, err)
		assert.True(t, gperrors.IsCode(err, gperrors.ErrCodeAuthorizationRequired), "got %v", err)
		assert.Nil(t, lctx.form)
	})

	t.Run("alt secret carries the result", func(t *testing.T) {
		f, _ := newParserFlow(session.New("vpn.example.com"), nil)
		lctx := newTestContext()
		lctx.altSecret = "prelogin-cookie"
		require.NoError(t, f.parsePrelogin(lctx, xmlRoot(t, samlXML)))
		assert.Equal(t, "prelogin-cookie", lctx.form.Fields[1].Name)
	})

	t.Run("portal cookie continues SAML", func(t *testing.T) {
		f, _ := newParserFlow(session.New("vpn.example.com"), nil)
		lctx := newTestContext()
		lctx.portalUserauthcookie = "cookievalue"
		require.NoError(t, f.parsePrelogin(lctx, xmlRoot(t, samlXML)))
		require.NotNil(t, lctx.form)
	})

	t.Run("invalid base64 request", func(t *testing.T) {
		f, _ := newParserFlow(session.New("vpn.example.com"), nil)
		lctx := newTestContext()
		root := xmlRoot(t, `<prelogin-response><saml-request>!!not base64!!</saml-request></prelogin-response>`)
		err := f.parsePrelogin(lctx, root)
		assert.True(t, gperrors.IsCode(err, gperrors.ErrCodeMalformedResponse), "got %v", err)
	})
}

func TestParsePreloginWrongRoot(t *testing.T) {
	f, _ := newParserFlow(session.New("vpn.example.com"), nil)
	lctx := newTestContext()
	err := f.parsePrelogin(lctx, xmlRoot(t, `<policy/>`))
	assert.True(t, gperrors.IsCode(err, gperrors.ErrCodeMalformedResponse), "got %v", err)
}
