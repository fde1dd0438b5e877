package gpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tendant/gpauth/pkg/gperrors"
	"github.com/tendant/gpauth/pkg/session"
)

// UserAgent is the product identification GlobalProtect endpoints expect.
// It is applied per request and never leaks into other traffic.
const UserAgent = "PAN GlobalProtect"

// ContentTypeForm is the body type of every login/logout submission.
const ContentTypeForm = "application/x-www-form-urlencoded"

// Transport is the HTTP surface the login flow drives.
type Transport interface {
	// Post sends a request to path on the session host and returns the body.
	Post(ctx context.Context, path, contentType string, body []byte) ([]byte, error)

	// Redirect points the transport at a new URL. A no-op if the host is
	// unchanged; otherwise the connection is reset to the new host.
	Redirect(ctx context.Context, rawURL string) error

	// Reset drops pooled idle connections so the next request opens a fresh
	// one. A connection in active use (an established tunnel) is not
	// affected; its owner must close it first.
	Reset()

	// Host returns the current target host.
	Host() string
}

// Client is the net/http Transport implementation.
type Client struct {
	sess       *session.Session
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying http.Client. Tests use this to
// intercept requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithInsecureTLS disables certificate verification.
func WithInsecureTLS() Option {
	return func(c *Client) {
		c.httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

// New creates a Client bound to the session's host.
func New(sess *session.Session, opts ...Option) *Client {
	c := &Client{
		sess:       sess,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HTTPClient exposes the underlying http.Client for request interception.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

func (c *Client) Host() string {
	return c.sess.Hostname
}

func (c *Client) Post(ctx context.Context, path, contentType string, body []byte) ([]byte, error) {
	u := fmt.Sprintf("https://%s/%s", c.sess.Addr(), path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, gperrors.Wrap(err, gperrors.ErrCodeInternal, "failed to build request")
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "*/*")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, gperrors.Wrapf(err, gperrors.ErrCodeInternal, "request to %s failed", u)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, gperrors.Wrap(err, gperrors.ErrCodeInternal, "failed to read response body")
	}
	c.logger.Debug("received response", "url", u, "status", resp.StatusCode, "bytes", len(respBody))

	// Error statuses still carry interpretable bodies (challenge directives,
	// <response status="error">); hand them to the interpreter.
	if len(respBody) == 0 && resp.StatusCode != http.StatusOK {
		return nil, gperrors.Newf(gperrors.ErrCodeMalformedResponse, "server returned status %d with empty body", resp.StatusCode)
	}
	return respBody, nil
}

func (c *Client) Redirect(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return gperrors.Wrapf(err, gperrors.ErrCodeInternal, "invalid redirect URL %q", rawURL)
	}
	host := u.Hostname()
	port := 443
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return gperrors.Wrapf(err, gperrors.ErrCodeInternal, "invalid redirect port in %q", rawURL)
		}
	}
	if host == c.sess.Hostname && port == c.sess.Port {
		return nil
	}
	c.logger.Info("redirecting connection", "from", c.sess.Hostname, "to", host)
	c.sess.Hostname = host
	c.sess.Port = port
	c.Reset()
	return nil
}

func (c *Client) Reset() {
	c.httpClient.CloseIdleConnections()
}
