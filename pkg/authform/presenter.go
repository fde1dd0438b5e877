package authform

import (
	"context"
	"errors"
)

// ErrCancelled is returned by a Presenter when the user declines to fill in
// the form. The login flow terminates without further network activity.
var ErrCancelled = errors.New("form input cancelled by user")

// Presenter collects user input for a form. Implementations fill in the
// Value of each non-hidden field (and pick a Choice for Select fields).
type Presenter interface {
	Present(ctx context.Context, form *Form) error
}

// PresenterFunc adapts a plain function to the Presenter interface.
type PresenterFunc func(ctx context.Context, form *Form) error

func (f PresenterFunc) Present(ctx context.Context, form *Form) error {
	return f(ctx, form)
}

// Static is a Presenter that fills fields from a fixed name-to-value map.
// Hidden fields keep their values; unmatched fields are left untouched.
// Use this for non-interactive logins and tests.
type Static map[string]string

func (s Static) Present(ctx context.Context, form *Form) error {
	for _, fld := range form.Fields {
		if fld.Kind == Hidden {
			continue
		}
		if v, ok := s[fld.Name]; ok {
			fld.Value = v
		}
	}
	return nil
}
