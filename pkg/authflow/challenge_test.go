package authflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/gpauth/pkg/authform"
	"github.com/tendant/gpauth/pkg/gpclient"
	"github.com/tendant/gpauth/pkg/gperrors"
	"github.com/tendant/gpauth/pkg/session"
)

func TestApplyChallenge(t *testing.T) {
	f, _ := newParserFlow(session.New("vpn.example.com"), nil)
	lctx := newTestContext()
	require.NoError(t, f.parsePrelogin(lctx, xmlRoot(t, preloginDefault)))

	// First round filled in and accepted.
	form := lctx.form
	form.Fields[0].Value = "alice"
	form.Fields[1].Value = "hunter2"

	err := f.applyChallenge(lctx, &gpclient.Challenge{
		Prompt:   "Enter your PIN",
		InputStr: "7029100000",
	})
	require.Error(t, err)
	assert.True(t, gperrors.IsCode(err, gperrors.ErrCodeNeedsAdditionalFactor), "got %v", err)

	// The form is mutated in place, never reallocated.
	assert.Same(t, form, lctx.form)
	assert.Equal(t, authform.AuthIDChallenge, form.AuthID)
	assert.Equal(t, "Enter your PIN", form.Message)
	assert.Equal(t, "7029100000", form.Action)

	// Accepted username preserved as a hidden value.
	user := form.Fields[0]
	assert.Equal(t, authform.Hidden, user.Kind)
	assert.Equal(t, "alice", user.Value)

	// Secret cleared and flipped to token by the inverse heuristic.
	secret := form.Fields[1]
	assert.Empty(t, secret.Value)
	assert.Equal(t, "Challenge: ", secret.Label)
	assert.Equal(t, authform.Token, secret.Kind)
}

func TestApplyChallengeTokenFlipsBack(t *testing.T) {
	f, _ := newParserFlow(session.New("vpn.example.com"), nil)
	lctx := newTestContext()
	require.NoError(t, f.parsePrelogin(lctx, xmlRoot(t, preloginDefault)))
	lctx.form.Fields[1].Kind = authform.Token

	err := f.applyChallenge(lctx, &gpclient.Challenge{Prompt: "again"})
	assert.True(t, gperrors.IsCode(err, gperrors.ErrCodeNeedsAdditionalFactor))
	assert.Equal(t, authform.Password, lctx.form.Fields[1].Kind)
}

func TestApplyChallengeWithoutForm(t *testing.T) {
	f, _ := newParserFlow(session.New("vpn.example.com"), nil)
	lctx := newTestContext()

	err := f.applyChallenge(lctx, &gpclient.Challenge{Prompt: "PIN"})
	assert.True(t, gperrors.IsCode(err, gperrors.ErrCodeMalformedResponse), "got %v", err)
}
