package argtree

import (
	"fmt"
	"slices"
	"strings"
)

// Conventional prefixes for short and long forms.
const (
	ShortPrefix = "-"
	LongPrefix  = "--"
)

// Spec describes the identity of one parameter. It is fixed when the node
// is built; Node.Spec returns a copy.
type Spec struct {
	Name        string
	Description string

	// Forms holds the literal tokens that name the parameter, prefixes
	// included ("-v", "--verbose"). Empty for positional parameters.
	Forms []string

	Required bool
	Flag     bool
	Type     Type

	Default    string
	HasDefault bool
}

// Positional reports whether the parameter is identified by position
// rather than by a form.
func (s Spec) Positional() bool {
	return len(s.Forms) == 0
}

// DisplayName returns the name used in diagnostics and usage text: the
// explicit name if set, otherwise the forms joined by "|", otherwise a
// placeholder derived from the type.
func (s Spec) DisplayName() string {
	switch {
	case s.Name != "":
		return s.Name
	case len(s.Forms) > 0:
		return strings.Join(s.Forms, "|")
	default:
		return "<" + s.Type.String() + ">"
	}
}

func (s Spec) equal(o Spec) bool {
	return s.Name == o.Name && s.Description == o.Description &&
		slices.Equal(s.Forms, o.Forms) && s.Required == o.Required &&
		s.Flag == o.Flag && s.Type == o.Type &&
		s.Default == o.Default && s.HasDefault == o.HasDefault
}

// An Option sets one property of a Spec while a node is being built.
type Option func(*Spec) error

// Name sets the display name of the parameter.
func Name(name string) Option {
	return func(s *Spec) error {
		s.Name = name
		return nil
	}
}

// Description sets the help text of the parameter.
func Description(desc string) Option {
	return func(s *Spec) error {
		s.Description = desc
		return nil
	}
}

// ShortForms adds forms made of ShortPrefix and each name: "v" becomes "-v".
func ShortForms(names ...string) Option {
	return prefixedForms(ShortPrefix, names)
}

// LongForms adds forms made of LongPrefix and each name: "verbose" becomes
// "--verbose".
func LongForms(names ...string) Option {
	return prefixedForms(LongPrefix, names)
}

// Forms adds forms verbatim, without any prefix.
func Forms(forms ...string) Option {
	return prefixedForms("", forms)
}

func prefixedForms(prefix string, names []string) Option {
	return func(s *Spec) error {
		for _, n := range names {
			if n == "" {
				return ErrEmptyForm
			}
			f := prefix + n
			if !slices.Contains(s.Forms, f) {
				s.Forms = append(s.Forms, f)
			}
		}
		return nil
	}
}

// Required marks the parameter as mandatory. It may not be combined with
// Flag.
func Required() Option {
	return func(s *Spec) error {
		s.Required = true
		return nil
	}
}

// Flag marks the parameter as presence-only: matching one of its forms
// writes true and consumes no value. Flags are optional by nature and may
// not be Required.
func Flag() Option {
	return func(s *Spec) error {
		s.Flag = true
		return nil
	}
}

// Default sets the value written by Parser.Parse before matching.
func Default(value string) Option {
	return func(s *Spec) error {
		s.Default = value
		s.HasDefault = true
		return nil
	}
}

// buildSpec applies opts and validates the result against t.
func buildSpec(t Target, opts []Option) (Spec, error) {
	s := Spec{}
	if t == nil {
		return s, &ConfigError{Err: ErrNilTarget}
	}
	s.Type = t.Type()

	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return s, &ConfigError{Param: s.DisplayName(), Err: err}
		}
	}
	slices.SortFunc(s.Forms, compareForms)

	switch {
	case s.Flag && s.Required:
		return s, &ConfigError{Param: s.DisplayName(), Err: ErrFlagRequired}
	case s.Flag && s.Positional():
		return s, &ConfigError{Param: s.DisplayName(), Err: ErrPositionalFlag}
	}

	if s.HasDefault {
		if err := t.Check(s.Default); err != nil {
			return s, &ConfigError{Param: s.DisplayName(),
				Err: fmt.Errorf("%w: %w", ErrBadDefault, err)}
		}
	}

	return s, nil
}

// compareForms orders short forms before long ones, then lexically.
func compareForms(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}
