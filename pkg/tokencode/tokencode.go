package tokencode

import (
	"context"
	"fmt"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/tendant/gpauth/pkg/authform"
)

// Generator produces one-time token codes for token-classified fields.
type Generator interface {
	// CanGenerate reports whether a code can be produced for the field.
	// The prelogin parser uses this to classify the secret field.
	CanGenerate(field *authform.Field) bool

	// Generate fills field.Value with a fresh code.
	Generate(ctx context.Context, form *authform.Form, field *authform.Field) error
}

// NoOpGenerator is a Generator for deployments without token support.
// CanGenerate always reports false; Generate leaves any user-typed code
// in place.
type NoOpGenerator struct{}

// Disabled returns a no-op generator. Use this when no token secret is
// configured or after generation has failed for the session.
func Disabled() Generator {
	return &NoOpGenerator{}
}

func (n *NoOpGenerator) CanGenerate(field *authform.Field) bool {
	return false
}

func (n *NoOpGenerator) Generate(ctx context.Context, form *authform.Form, field *authform.Field) error {
	return nil
}

// TOTPGenerator produces time-based codes from a base32 secret.
type TOTPGenerator struct {
	secret string
	now    func() time.Time
}

// TOTPOption customizes a TOTPGenerator.
type TOTPOption func(*TOTPGenerator)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) TOTPOption {
	return func(g *TOTPGenerator) {
		g.now = now
	}
}

// NewTOTP creates a TOTP generator for the given base32-encoded secret.
func NewTOTP(secret string, opts ...TOTPOption) *TOTPGenerator {
	g := &TOTPGenerator{
		secret: secret,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *TOTPGenerator) CanGenerate(field *authform.Field) bool {
	return g.secret != ""
}

func (g *TOTPGenerator) Generate(ctx context.Context, form *authform.Form, field *authform.Field) error {
	code, err := totp.GenerateCode(g.secret, g.now())
	if err != nil {
		return fmt.Errorf("failed to generate TOTP code: %w", err)
	}
	field.Value = code
	return nil
}
