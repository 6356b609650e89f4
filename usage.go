package argtree

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"runtime"
	"slices"
	"strings"
)

// Newline selects the line terminator of usage text.
type Newline int

const (
	NewlineAuto    Newline = iota // platform default
	NewlinePOSIX                  // "\n"
	NewlineWindows                // "\r\n"
)

func (nl Newline) String() string {
	switch nl {
	case NewlineAuto:
		return "auto"
	case NewlinePOSIX:
		return "posix"
	case NewlineWindows:
		return "windows"
	default:
		return fmt.Sprintf("Newline(%d)", int(nl))
	}
}

// Terminator returns the line ending for nl. NewlineAuto resolves to the
// Windows ending on Windows and the POSIX ending everywhere else.
func (nl Newline) Terminator() string {
	if nl == NewlineAuto {
		nl = NewlinePOSIX
		if runtime.GOOS == "windows" {
			nl = NewlineWindows
		}
	}
	if nl == NewlineWindows {
		return "\r\n"
	}
	return "\n"
}

// ParseNewline maps "auto", "posix" or "windows" to a Newline.
func ParseNewline(s string) (Newline, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return NewlineAuto, nil
	case "posix", "unix", "lf":
		return NewlinePOSIX, nil
	case "windows", "crlf":
		return NewlineWindows, nil
	}
	return NewlineAuto, fmt.Errorf("unknown newline style: %q", s)
}

const (
	helpArgument  = `\*.+?\*`
	helpDelimiter = "*"

	indent = "    "
)

var helpArgumentRE = regexp.MustCompile(helpArgument)

// formatHelp extracts the argument name from a description. If the
// description contains a term enclosed in "*", that term names the value in
// usage text and the delimiters are removed; otherwise the value is named
// after the type.
func formatHelp(spec Spec) (string, string) {
	help, argname := spec.Description, spec.Type.String()

	if limits := helpArgumentRE.FindStringIndex(help); limits != nil {
		argname = help[limits[0]+1 : limits[1]-1]
		help = strings.ReplaceAll(help, helpDelimiter, "")
	}

	return help, argname
}

// label renders how a parameter is typed on the command line: its forms,
// optionally followed by a value placeholder, or its name in angle brackets
// for positionals.
func label(spec Spec, sep string, withArg bool) string {
	_, argname := formatHelp(spec)

	if spec.Positional() {
		if spec.Name != "" {
			return "<" + spec.Name + ">"
		}
		return "<" + argname + ">"
	}

	s := strings.Join(spec.Forms, sep)
	if withArg && !spec.Flag {
		s += " <" + argname + ">"
	}
	return s
}

// WriteUsage writes one line per parameter to w: its forms, whether it is
// a flag, required or defaulted, and its description, as in
//
//	-f -foo --foo (Defaults to bar) - Help message
//
// Children are indented below their parent; continuation alternatives are
// introduced by "then" and "or". A node shared by several parents is listed
// once, under the first of them.
func (p *Parser) WriteUsage(w io.Writer, nl Newline) error {
	uw := &usageWriter{p: p, w: w, eol: nl.Terminator(), seen: map[*Node]bool{}}
	uw.children(p.root, 0)
	return uw.err
}

// Usage returns the text written by WriteUsage.
func (p *Parser) Usage(nl Newline) string {
	var b strings.Builder
	_ = p.WriteUsage(&b, nl)
	return b.String()
}

// PrintUsage writes the usage text to standard error.
func (p *Parser) PrintUsage() error {
	return p.WriteUsage(os.Stderr, NewlineAuto)
}

type usageWriter struct {
	p    *Parser
	w    io.Writer
	eol  string
	seen map[*Node]bool
	err  error
}

func (uw *usageWriter) printf(format string, args ...any) {
	if uw.err == nil {
		_, uw.err = fmt.Fprintf(uw.w, format, args...)
	}
}

func (uw *usageWriter) children(n *Node, depth int) {
	for _, c := range n.options {
		uw.node(c, depth, "")
	}
	for i, c := range n.next {
		word := "then "
		if i > 0 {
			word = "or "
		}
		uw.node(c, depth, word)
	}
}

func (uw *usageWriter) node(n *Node, depth int, prefix string) {
	if uw.seen[n] {
		return
	}
	uw.seen[n] = true

	spec := n.spec
	help, _ := formatHelp(spec)

	uw.printf("%s%s%s", strings.Repeat(indent, depth), prefix, label(spec, " ", false))

	switch {
	case spec.Flag:
		uw.printf(" (Flag)")
	case uw.p.isRequired(n):
		uw.printf(" (Required)")
	case spec.HasDefault:
		uw.printf(" (Defaults to %s)", spec.Default)
	}

	if help != "" {
		uw.printf(" - %s", help)
	}
	uw.printf("%s", uw.eol)

	uw.children(n, depth+1)
}

// WriteShortUsage writes a one-line synopsis of the tree to w, for
// instance "[-v|--verbose] -n|--count <i32> <file> [<out>]".
func (p *Parser) WriteShortUsage(w io.Writer, nl Newline) error {
	parts := p.synopsis(p.root, map[*Node]bool{})
	_, err := fmt.Fprintf(w, "%s%s", strings.Join(parts, " "), nl.Terminator())
	return err
}

// PrintShortUsage writes the synopsis to standard error.
func (p *Parser) PrintShortUsage() error {
	return p.WriteShortUsage(os.Stderr, NewlineAuto)
}

func (p *Parser) isRequired(n *Node) bool {
	return n.spec.Required || slices.Contains(p.required, n)
}

func (p *Parser) synopsis(n *Node, seen map[*Node]bool) []string {
	parts := []string{}
	if !n.root {
		s := label(n.spec, "|", true)
		if !p.isRequired(n) {
			s = "[" + s + "]"
		}
		parts = append(parts, s)
	}

	for _, c := range n.options {
		if !seen[c] {
			seen[c] = true
			parts = append(parts, p.synopsis(c, seen)...)
		}
	}

	switch len(n.next) {
	case 0:
	case 1:
		parts = append(parts, p.synopsis(n.next[0], seen)...)
	default:
		alts := make([]string, len(n.next))
		for i, c := range n.next {
			alts[i] = strings.Join(p.synopsis(c, seen), " ")
		}
		parts = append(parts, "("+strings.Join(alts, " | ")+")")
	}

	return parts
}

// WriteValues writes the name, type and current value of every parameter
// to w, one per line, in aligned columns.
func (p *Parser) WriteValues(w io.Writer) error {
	// Find max length of names and types
	mxName, mxType := 0, 0
	for _, n := range p.nodes {
		mxName = max(mxName, len(n.Name()))
		mxType = max(mxType, len(n.spec.Type.String()))
	}

	for _, n := range p.nodes {
		_, err := fmt.Fprintf(w, "%-*s   %-*s   %s\n",
			mxName, n.Name(), mxType, n.spec.Type.String(), n.target.String())
		if err != nil {
			return err
		}
	}

	return nil
}

// PrintValues writes the current values to standard error.
func (p *Parser) PrintValues() error {
	return p.WriteValues(os.Stderr)
}
