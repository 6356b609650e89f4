package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/janert/argtree"
)

// FormatError writes err for the terminal: one "Error:" line per
// diagnostic, followed by a "Hint:" line where one is known.
func FormatError(w io.Writer, err error) {
	if err == nil {
		return
	}

	var pe *argtree.ParseError
	if !errors.As(err, &pe) {
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	hint := ""
	for _, e := range pe.Errors {
		var me *argtree.MatchError
		if errors.As(e, &me) && me.Hint != "" {
			if hint == "" {
				hint = me.Hint
			}
			plain := *me
			plain.Hint = ""
			e = &plain
		}
		_, _ = fmt.Fprintf(w, "Error: %v\n", e)
	}

	if hint == "" {
		hint = hintFor(pe.Errors[0])
	}
	if hint != "" {
		_, _ = fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}

// hintFor suggests a fix for common failures.
func hintFor(err error) string {
	switch {
	case errors.Is(err, argtree.ErrMissingValue):
		return "give the value after the option, or as option=value"
	case errors.Is(err, argtree.ErrMissingRequired):
		return "run 'argtree usage' to see the required parameters"
	case errors.Is(err, argtree.ErrRepeated):
		return "give each option once"
	case errors.Is(err, argtree.ErrUnexpectedToken):
		return "tokens that look like options must follow '--'"
	}
	return ""
}
