package authform

// FieldKind classifies how a form field is filled in and displayed.
type FieldKind int

const (
	// Text is a plain visible input.
	Text FieldKind = iota
	// Hidden carries a fixed value and is never re-prompted.
	Hidden
	// Password is a secret typed by the user.
	Password
	// Token is a secret that a token-code generator may fill in.
	Token
	// Select offers a fixed set of choices (the portal gateway list).
	Select
)

// String returns the wire-log name of the kind.
func (k FieldKind) String() string {
	switch k {
	case Text:
		return "TEXT"
	case Hidden:
		return "HIDDEN"
	case Password:
		return "PASSWORD"
	case Token:
		return "TOKEN"
	case Select:
		return "SELECT"
	default:
		return "UNKNOWN"
	}
}

// Auth ids identifying which round of the handshake a form belongs to.
const (
	AuthIDLogin     = "_login"
	AuthIDChallenge = "_challenge"
	AuthIDPortal    = "_portal"
)

// Choice is a single selectable option of a Select field.
type Choice struct {
	Value string // wire value (gateway host)
	Label string // display label (gateway description)
}

// Field is a single form input.
type Field struct {
	Name    string // wire key
	Label   string // display text
	Kind    FieldKind
	Value   string
	Choices []Choice // Select only
}

// Form is one round of the server-driven login dialog.
type Form struct {
	Message string // prompt shown to the user
	AuthID  string // AuthIDLogin, AuthIDChallenge, or AuthIDPortal
	Action  string // opaque server string echoed back as inputStr
	Fields  []*Field
}

// SecretField returns the form's password-or-token field, or nil.
func (f *Form) SecretField() *Field {
	for _, fld := range f.Fields {
		if fld.Kind == Password || fld.Kind == Token {
			return fld
		}
	}
	return nil
}

// ClearValues blanks every field value, keeping names, labels, and kinds.
func (f *Form) ClearValues() {
	for _, fld := range f.Fields {
		fld.Value = ""
	}
}
