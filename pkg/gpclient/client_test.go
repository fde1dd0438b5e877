package gpclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/gpauth/pkg/session"
	"gopkg.in/h2non/gock.v1"
)

func TestPostSendsProductUserAgent(t *testing.T) {
	defer gock.Off()

	sess := session.New("vpn.example.com")
	c := New(sess)
	gock.InterceptClient(c.HTTPClient())

	gock.New("https://vpn.example.com").
		Post("/ssl-vpn/login.esp").
		MatchHeader("User-Agent", "PAN GlobalProtect").
		Reply(200).
		BodyString(`<response status="success"/>`)

	body, err := c.Post(context.Background(), "ssl-vpn/login.esp", ContentTypeForm, []byte("ok=Login"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "success")
	assert.True(t, gock.IsDone())
}

func TestPostEmptyErrorStatus(t *testing.T) {
	defer gock.Off()

	sess := session.New("vpn.example.com")
	c := New(sess)
	gock.InterceptClient(c.HTTPClient())

	gock.New("https://vpn.example.com").
		Post("/ssl-vpn/login.esp").
		Reply(502)

	_, err := c.Post(context.Background(), "ssl-vpn/login.esp", ContentTypeForm, nil)
	assert.Error(t, err)
}

func TestRedirect(t *testing.T) {
	sess := session.New("vpn.example.com")
	c := New(sess)

	// Same host is a no-op.
	require.NoError(t, c.Redirect(context.Background(), "https://vpn.example.com"))
	assert.Equal(t, "vpn.example.com", sess.Hostname)

	require.NoError(t, c.Redirect(context.Background(), "https://gw1.example.com"))
	assert.Equal(t, "gw1.example.com", sess.Hostname)
	assert.Equal(t, 443, sess.Port)

	require.NoError(t, c.Redirect(context.Background(), "https://gw2.example.com:8443"))
	assert.Equal(t, "gw2.example.com", sess.Hostname)
	assert.Equal(t, 8443, sess.Port)
}
