package authform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginForm() *Form {
	return &Form{
		Message: "Please enter your username and password",
		AuthID:  AuthIDLogin,
		Fields: []*Field{
			{Name: "user", Label: "Username: ", Kind: Text},
			{Name: "passwd", Label: "Password: ", Kind: Password},
		},
	}
}

func TestSecretField(t *testing.T) {
	form := loginForm()
	secret := form.SecretField()
	require.NotNil(t, secret)
	assert.Equal(t, "passwd", secret.Name)

	form.Fields[1].Kind = Token
	secret = form.SecretField()
	require.NotNil(t, secret)
	assert.Equal(t, "passwd", secret.Name)

	noSecret := &Form{Fields: []*Field{{Name: "gateway", Kind: Select}}}
	assert.Nil(t, noSecret.SecretField())
}

func TestClearValues(t *testing.T) {
	form := loginForm()
	form.Fields[0].Value = "alice"
	form.Fields[1].Value = "hunter2"

	form.ClearValues()

	for _, fld := range form.Fields {
		assert.Empty(t, fld.Value)
		assert.NotEmpty(t, fld.Name)
	}
}

func TestStaticPresenter(t *testing.T) {
	form := loginForm()
	form.Fields[0].Kind = Hidden
	form.Fields[0].Value = "alice"

	p := Static{"user": "mallory", "passwd": "hunter2"}
	require.NoError(t, p.Present(context.Background(), form))

	// Hidden fields keep their values.
	assert.Equal(t, "alice", form.Fields[0].Value)
	assert.Equal(t, "hunter2", form.Fields[1].Value)
}

func TestPresenterFunc(t *testing.T) {
	called := false
	p := PresenterFunc(func(ctx context.Context, form *Form) error {
		called = true
		return ErrCancelled
	})
	err := p.Present(context.Background(), loginForm())
	assert.True(t, called)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestFieldKindString(t *testing.T) {
	assert.Equal(t, "TEXT", Text.String())
	assert.Equal(t, "HIDDEN", Hidden.String())
	assert.Equal(t, "PASSWORD", Password.String())
	assert.Equal(t, "TOKEN", Token.String())
	assert.Equal(t, "SELECT", Select.String())
}
