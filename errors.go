package argtree

import (
	"errors"
	"fmt"
	"strings"
)

// Configuration errors. These indicate a defect in how a tree was built
// and never depend on the tokens being parsed.
var (
	ErrFlagRequired         = errors.New("flag parameter may not be required")
	ErrPositionalFlag       = errors.New("positional parameter may not be a flag")
	ErrMultipleRequiredNext = errors.New("more than one required alternative in next")
	ErrDuplicateForm        = errors.New("form registered more than once")
	ErrEmptyForm            = errors.New("empty form")
	ErrNilTarget            = errors.New("nil destination")
	ErrNilNode              = errors.New("nil node in tree")
	ErrUnknownNode          = errors.New("node is not part of the tree")
	ErrCycle                = errors.New("parameter tree contains a cycle")
	ErrBadDefault           = errors.New("default value does not convert")
)

// Parse errors, caused by the tokens supplied by the user.
var (
	ErrMissingRequired = errors.New("missing required parameter")
	ErrMissingValue    = errors.New("missing value")
	ErrNoTokens        = errors.New("no tokens left")
	ErrRepeated        = errors.New("parameter given more than once")
	ErrUnexpectedToken = errors.New("unexpected token")
)

// ConfigError reports a tree construction defect.
type ConfigError struct {
	Param string // display name of the offending parameter
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("invalid parameter tree: %v", e.Err)
	}
	return fmt.Sprintf("invalid parameter %s: %v", e.Param, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// MatchError reports a failure to match the tokens against one parameter.
type MatchError struct {
	Param string // display name of the parameter, empty for the root
	Index int    // token index, -1 if not tied to a token
	Token string
	Err   error
	Hint  string // optional suggestion
}

func (e *MatchError) Error() string {
	var b strings.Builder

	if e.Param != "" {
		fmt.Fprintf(&b, "%s: ", e.Param)
	}
	b.WriteString(e.Err.Error())
	if e.Index >= 0 {
		fmt.Fprintf(&b, " (token %d: %s)", e.Index, quoteShort(e.Token))
	}
	if e.Hint != "" {
		fmt.Fprintf(&b, "; %s", e.Hint)
	}
	return b.String()
}

func (e *MatchError) Unwrap() error { return e.Err }

// ParseError collects every diagnostic produced by a failed parse. The
// first entry is the failure that ended the parse.
type ParseError struct {
	Errors []error
}

func (e *ParseError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "parse failed"
	case 1:
		return e.Errors[0].Error()
	}

	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

func (e *ParseError) Unwrap() []error { return e.Errors }
