package argtree

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Parser binds the top-level parameters of a program. It is built once,
// validated once, and may then parse any number of token lists.
type Parser struct {
	root    *Node
	log     *slog.Logger
	suggest bool

	// Nodes that must match somewhere in the tree, in addition to the
	// nodes marked Required.
	required []*Node

	nodes []*Node  // every node of the tree, preorder, without duplicates
	forms []string // every form of the tree, for suggestions
}

// A ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithLogger sets the logger that traces matching decisions at debug level.
// By default nothing is logged.
func WithLogger(l *slog.Logger) ParserOption {
	return func(p *Parser) {
		if l != nil {
			p.log = l
		}
	}
}

// WithSuggestions controls whether an unexpected token that resembles a
// known form gets a "did you mean" hint. On by default.
func WithSuggestions(on bool) ParserOption {
	return func(p *Parser) {
		p.suggest = on
	}
}

// WithRequired makes the parse fail unless each of nodes matched at least
// once, at whatever depth. It serves options that are attached to several
// levels of a tree and must be given at one of them. The nodes must belong
// to the tree.
func WithRequired(nodes ...*Node) ParserOption {
	return func(p *Parser) {
		p.required = append(p.required, nodes...)
	}
}

// NewParser builds a parser whose root has the given optional siblings and
// continuation alternatives. The whole tree is validated here, so a parser
// that builds never fails for configuration reasons later.
func NewParser(options, next []*Node, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		root:    (&Node{root: true}).WithOptions(options...).Then(next...),
		log:     discard,
		suggest: true,
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// MustParser is like NewParser but panics on error.
func MustParser(options, next []*Node, opts ...ParserOption) *Parser {
	p, err := NewParser(options, next, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Options returns the top-level optional parameters.
func (p *Parser) Options() []*Node { return p.root.Options() }

// Next returns the top-level continuation alternatives.
func (p *Parser) Next() []*Node { return p.root.Next() }

// Nodes returns every node of the tree in preorder, each once.
func (p *Parser) Nodes() []*Node {
	out := make([]*Node, len(p.nodes))
	copy(out, p.nodes)
	return out
}

// validate walks the tree once, rejecting cycles, nil nodes, nodes with
// more than one required continuation and forms shared by siblings.
func (p *Parser) validate() error {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := map[*Node]int{}
	formSet := map[string]bool{}

	var walk func(n *Node) error
	walk = func(n *Node) error {
		switch state[n] {
		case inProgress:
			return &ConfigError{Param: n.Name(), Err: ErrCycle}
		case done:
			return nil
		}
		state[n] = inProgress

		if n.requiredNext() > 1 {
			return &ConfigError{Param: n.Name(), Err: ErrMultipleRequiredNext}
		}

		siblings := map[string]bool{}
		for _, c := range append(n.Options(), n.next...) {
			if c == nil {
				return &ConfigError{Param: n.Name(), Err: ErrNilNode}
			}
			for _, f := range c.spec.Forms {
				if _, ok := siblings[f]; ok {
					return &ConfigError{Param: c.Name(),
						Err: fmt.Errorf("%w: %s", ErrDuplicateForm, f)}
				}
				siblings[f] = true
			}
		}

		if !n.root {
			p.nodes = append(p.nodes, n)
			for _, f := range n.spec.Forms {
				if !formSet[f] {
					formSet[f] = true
					p.forms = append(p.forms, f)
				}
			}
		}

		for _, c := range append(n.Options(), n.next...) {
			if err := walk(c); err != nil {
				return err
			}
		}

		state[n] = done
		return nil
	}

	if err := walk(p.root); err != nil {
		return err
	}

	for _, r := range p.required {
		if r == nil {
			return &ConfigError{Err: ErrNilNode}
		}
		if state[r] != done {
			return &ConfigError{Param: r.Name(), Err: ErrUnknownNode}
		}
	}
	return nil
}

// Result describes a successful or failed parse.
type Result struct {
	// Program is the program name dropped by ParseArgs.
	Program string

	// Consumed is the number of tokens matched. On failure it is the
	// index just past the furthest token any parameter matched.
	Consumed int

	matched map[*Node]bool
}

// Matched reports whether n matched one of the tokens during the parse.
func (r *Result) Matched(n *Node) bool {
	return r != nil && r.matched[n]
}

// Parse matches tokens against the tree and writes the destinations of the
// matching parameters. It succeeds only if every token is consumed. On
// failure the error is a *ParseError listing every diagnostic.
//
// Parse first resets flags to false and writes default values. Writes made
// by parameters that matched are not undone when the parse fails later;
// destinations must not be trusted after an error.
func (p *Parser) Parse(tokens []string) (*Result, error) {
	p.applyDefaults()

	m := newMatcher(tokens, p.log)
	p.log.Debug("Parsing tokens", "count", len(tokens))

	n, err := p.root.consume(m, 0)
	res := &Result{Consumed: n, matched: m.matched}

	if err == nil && n < len(tokens) {
		err = p.unexpected(tokens, n)
	}
	if err == nil {
		err = p.checkRequired(m)
	}
	if err != nil {
		if n == 0 {
			res.Consumed = m.high
		}
		p.log.Debug("Parsing failed", "consumed", res.Consumed, "error", err)
		return res, m.failure(err)
	}

	return res, nil
}

// ParseArgs parses an argument vector whose first element is the program
// name, which is recorded in the result and not matched.
func (p *Parser) ParseArgs(args []string) (*Result, error) {
	if len(args) == 0 {
		return p.Parse(nil)
	}
	res, err := p.Parse(args[1:])
	res.Program = args[0]
	return res, err
}

// ParseCommandLine parses os.Args.
func (p *Parser) ParseCommandLine() (*Result, error) {
	return p.ParseArgs(os.Args)
}

func (p *Parser) applyDefaults() {
	for _, n := range p.nodes {
		switch {
		case n.spec.HasDefault:
			// Checked when the node was built.
			_ = n.target.Set(n.spec.Default)
		case n.spec.Flag:
			_ = n.target.SetBool(false)
		}
	}
}

func (p *Parser) checkRequired(m *matcher) error {
	for _, r := range p.required {
		if !m.matched[r] {
			return &MatchError{Param: r.Name(), Index: -1, Err: ErrMissingRequired}
		}
	}
	return nil
}

func (p *Parser) unexpected(tokens []string, index int) error {
	e := &MatchError{Index: index, Token: tokens[index], Err: ErrUnexpectedToken}
	if p.suggest {
		if s := suggest(tokens[index], p.forms); s != "" {
			e.Hint = fmt.Sprintf("did you mean %q?", s)
		}
	}
	return e
}

// suggest returns the known form closest to tok, or "" if none is close.
// Only tokens that look like forms get suggestions.
func suggest(tok string, forms []string) string {
	if len(tok) < 2 || !strings.HasPrefix(tok, ShortPrefix) || len(forms) == 0 {
		return ""
	}
	if key, _, ok := strings.Cut(tok, "="); ok {
		tok = key
	}
	if slices.Contains(forms, tok) {
		return ""
	}

	if ranks := fuzzy.RankFindNormalizedFold(tok, forms); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", len(tok)/3+1
	for _, f := range forms {
		if d := fuzzy.LevenshteinDistance(tok, f); d <= bestDist && (best == "" || d < bestDist) {
			best, bestDist = f, d
		}
	}
	return best
}
