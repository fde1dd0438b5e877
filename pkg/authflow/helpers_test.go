package authflow

import (
	"context"
	"log/slog"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"
	"github.com/tendant/gpauth/pkg/authform"
	"github.com/tendant/gpauth/pkg/session"
)

func xmlRoot(t *testing.T, s string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(s))
	require.NotNil(t, doc.Root())
	return doc.Root()
}

func newTestContext() *loginContext {
	return &loginContext{log: slog.Default()}
}

// fakeTransport satisfies gpclient.Transport for parser-level tests that
// never issue real posts.
type fakeTransport struct {
	host      string
	redirects []string
	resets    int
}

func (f *fakeTransport) Post(ctx context.Context, path, contentType string, body []byte) ([]byte, error) {
	panic("unexpected Post in parser test")
}

func (f *fakeTransport) Redirect(ctx context.Context, rawURL string) error {
	f.redirects = append(f.redirects, rawURL)
	return nil
}

func (f *fakeTransport) Reset() {
	f.resets++
}

func (f *fakeTransport) Host() string {
	return f.host
}

func newParserFlow(sess *session.Session, presenter authform.Presenter, opts ...Option) (*Flow, *fakeTransport) {
	tr := &fakeTransport{host: sess.Hostname}
	if presenter == nil {
		presenter = authform.Static{}
	}
	return New(sess, tr, presenter, opts...), tr
}
