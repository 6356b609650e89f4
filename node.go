package argtree

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
)

// Node is one parameter of a tree: a Spec, the Target its value is written
// to, and two child lists. Options are order-independent siblings that may
// each match at most once; next holds mutually exclusive continuations, of
// which at most one matches and at most one may be required.
//
// Nodes hold no parse state. A tree may be reused by any number of
// sequential parses, but parses that share destinations must not run
// concurrently.
type Node struct {
	spec    Spec
	target  Target
	options []*Node
	next    []*Node

	// Forms in the order they are tried against "form=value" tokens:
	// longest first, so that the most specific of two overlapping forms
	// wins, then lexically.
	inline []string

	root bool
}

// NewNode builds a parameter writing to t. Invalid combinations of options
// (a required flag, a positional flag, an empty form, a default that does
// not convert) are reported as a *ConfigError.
func NewNode(t Target, opts ...Option) (*Node, error) {
	spec, err := buildSpec(t, opts)
	if err != nil {
		return nil, err
	}

	n := &Node{spec: spec, target: t}
	if !spec.Flag {
		n.inline = slices.Clone(spec.Forms)
		slices.SortFunc(n.inline, func(a, b string) int {
			return compareForms(b, a)
		})
	}
	return n, nil
}

// MustNode is like NewNode but panics on error. It simplifies building
// trees whose shape is fixed at compile time.
func MustNode(t Target, opts ...Option) *Node {
	n, err := NewNode(t, opts...)
	if err != nil {
		panic(err)
	}
	return n
}

// WithOptions replaces the optional siblings of n and returns n.
func (n *Node) WithOptions(nodes ...*Node) *Node {
	n.options = slices.Clone(nodes)
	return n
}

// Then replaces the continuation alternatives of n and returns n.
func (n *Node) Then(nodes ...*Node) *Node {
	n.next = slices.Clone(nodes)
	return n
}

// Spec returns a copy of the parameter description.
func (n *Node) Spec() Spec {
	s := n.spec
	s.Forms = slices.Clone(n.spec.Forms)
	return s
}

// Target returns the destination of the node.
func (n *Node) Target() Target { return n.target }

// Options returns the optional siblings of n.
func (n *Node) Options() []*Node { return slices.Clone(n.options) }

// Next returns the continuation alternatives of n.
func (n *Node) Next() []*Node { return slices.Clone(n.next) }

// Name returns the display name of the node.
func (n *Node) Name() string {
	if n.root {
		return ""
	}
	return n.spec.DisplayName()
}

// Equal reports whether n and o describe the same tree: the same
// destination, the same spec and pairwise equal children.
func (n *Node) Equal(o *Node) bool {
	if n == o {
		return true
	}
	if n == nil || o == nil || n.root != o.root {
		return false
	}
	if !n.root && (n.target.Pointer() != o.target.Pointer() ||
		n.target.Type() != o.target.Type()) {
		return false
	}
	return n.spec.equal(o.spec) &&
		slices.EqualFunc(n.options, o.options, (*Node).Equal) &&
		slices.EqualFunc(n.next, o.next, (*Node).Equal)
}

// Consume matches n and its descendants against tokens, starting at index
// start, and returns the number of tokens consumed.
//
// Destinations are written as soon as a node matches. A failure does not
// undo writes made by nodes that matched before it.
func (n *Node) Consume(tokens []string, start int) (int, error) {
	return n.consume(newMatcher(tokens, nil), start)
}

func (n *Node) requiredNext() int {
	count := 0
	for _, c := range n.next {
		if c.spec.Required {
			count++
		}
	}
	return count
}

func (n *Node) consume(m *matcher, start int) (int, error) {
	if n.requiredNext() > 1 {
		return 0, &ConfigError{Param: n.Name(), Err: ErrMultipleRequiredNext}
	}

	key := visit{n, start}
	if m.active[key] {
		return 0, &ConfigError{Param: n.Name(), Err: ErrCycle}
	}
	m.active[key] = true
	defer delete(m.active, key)

	total := 0
	if !n.root {
		if start >= len(m.tokens) {
			return 0, m.errorAt(n, start, ErrNoTokens)
		}

		self, err := n.matchSelf(m, start)
		if err != nil {
			m.log.Debug("Parameter failed", "param", n.Name(), "index", start, "error", err)
			return 0, err
		}
		if self > 0 {
			m.matched[n] = true
			m.trail = append(m.trail, n)
			m.high = max(m.high, start+self)
			m.log.Debug("Parameter matched", "param", n.Name(), "index", start, "consumed", self)
		}
		total = self
	}

	pending := make([]int, len(n.options))
	for i := range pending {
		pending[i] = i
	}
	errs := make([]error, len(n.options))

	var c int
	pending, c = n.settle(m, pending, errs, start+total)
	total += c

	for _, child := range n.next {
		mark := len(m.trail)
		c, err := child.consume(m, start+total)
		if err == nil && c > 0 {
			m.log.Debug("Continuation chosen", "param", child.Name(), "index", start+total, "consumed", c)
			total += c
			break
		}
		m.rollback(mark)
		if child.spec.Required {
			return 0, m.missing(child, start+total, err)
		}
		m.note(err)
	}

	pending, c = n.settle(m, pending, errs, start+total)
	total += c

	for _, i := range pending {
		if child := n.options[i]; child.spec.Required {
			return 0, m.missing(child, start+total, errs[i])
		}
	}

	return total, nil
}

// settle tries every pending option at the cursor, repeating passes until
// one makes no progress, so that options are accepted in any order. It
// returns the options still unmatched and the number of tokens consumed.
func (n *Node) settle(m *matcher, pending []int, errs []error, cursor int) ([]int, int) {
	total := 0

	for progress := true; progress && len(pending) > 0; {
		progress = false
		rest := pending[:0]
		for _, i := range pending {
			mark := len(m.trail)
			c, err := n.options[i].consume(m, cursor+total)
			if err == nil && c > 0 {
				total += c
				errs[i] = nil
				progress = true
				continue
			}
			m.rollback(mark)
			errs[i] = err
			m.note(err)
			rest = append(rest, i)
		}
		pending = rest
	}

	return pending, total
}

// matchSelf tries the node's own spec against tokens[start]. No match is
// not an error; only a matched token whose value cannot be used is.
//
// A node matches at most once per parse. Options shared by several levels
// of a tree would otherwise accept the same form once per level.
func (n *Node) matchSelf(m *matcher, start int) (int, error) {
	tok := m.tokens[start]

	if m.matched[n] {
		if n.names(tok) {
			return 0, m.errorAt(n, start, ErrRepeated)
		}
		return 0, nil
	}

	if n.spec.Positional() {
		if err := n.target.Set(tok); err != nil {
			return 0, m.errorAt(n, start, err)
		}
		return 1, nil
	}

	if slices.Contains(n.spec.Forms, tok) {
		if n.spec.Flag {
			return 1, n.target.SetBool(true)
		}
		if start+1 >= len(m.tokens) {
			return 0, m.errorAt(n, start, ErrMissingValue)
		}
		if err := n.target.Set(m.tokens[start+1]); err != nil {
			return 0, m.errorAt(n, start+1, err)
		}
		return 2, nil
	}

	for _, form := range n.inline {
		if value, ok := strings.CutPrefix(tok, form+"="); ok {
			if err := n.target.Set(value); err != nil {
				return 0, m.errorAt(n, start, err)
			}
			return 1, nil
		}
	}

	return 0, nil
}

// names reports whether tok is one of the forms of n, alone or as the
// head of a "form=value" token.
func (n *Node) names(tok string) bool {
	if slices.Contains(n.spec.Forms, tok) {
		return true
	}
	for _, form := range n.inline {
		if strings.HasPrefix(tok, form+"=") {
			return true
		}
	}
	return false
}

type visit struct {
	node  *Node
	start int
}

// matcher carries the state of one parse: the tokens, the trace logger and
// the diagnostics gathered along the way.
type matcher struct {
	tokens  []string
	log     *slog.Logger
	active  map[visit]bool
	matched map[*Node]bool

	// Nodes in the order they matched, so that the matches of a branch
	// that is abandoned can be taken back.
	trail []*Node

	// Index just past the furthest token consumed by any self-match.
	high int

	notes []error
	seen  map[string]bool
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newMatcher(tokens []string, log *slog.Logger) *matcher {
	if log == nil {
		log = discard
	}
	return &matcher{
		tokens:  tokens,
		log:     log,
		active:  map[visit]bool{},
		matched: map[*Node]bool{},
		seen:    map[string]bool{},
	}
}

// rollback forgets the matches recorded after mark. Destinations keep
// whatever was written to them.
func (m *matcher) rollback(mark int) {
	for _, n := range m.trail[mark:] {
		delete(m.matched, n)
	}
	m.trail = m.trail[:mark]
}

func (m *matcher) errorAt(n *Node, index int, err error) error {
	e := &MatchError{Param: n.Name(), Index: -1, Err: err}
	if index < len(m.tokens) {
		e.Index, e.Token = index, m.tokens[index]
	}
	return e
}

// missing builds the error for a required child that did not match. A
// specific failure of the child is more useful than "missing", so it is
// passed through.
func (m *matcher) missing(n *Node, index int, err error) error {
	if err != nil && !errors.Is(err, ErrNoTokens) {
		return err
	}
	return m.errorAt(n, index, ErrMissingRequired)
}

// note records a failure swallowed by an optional branch. Running out of
// tokens is the normal way for optional branches to end and is not kept.
func (m *matcher) note(err error) {
	if err == nil || errors.Is(err, ErrNoTokens) {
		return
	}
	if msg := err.Error(); !m.seen[msg] {
		m.seen[msg] = true
		m.notes = append(m.notes, err)
	}
}

// failure assembles the error returned for a failed parse: the primary
// cause, followed by the recorded failures at or after the furthest
// consumed token. Failures on tokens that were consumed by another branch
// are noise and are dropped.
func (m *matcher) failure(primary error) *ParseError {
	out := &ParseError{Errors: []error{primary}}
	for _, err := range m.notes {
		if err.Error() == primary.Error() {
			continue
		}
		var me *MatchError
		if errors.As(err, &me) && me.Index >= 0 && me.Index < m.high {
			continue
		}
		out.Errors = append(out.Errors, err)
	}
	return out
}
