package treefile

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/janert/argtree"
)

// Values gives access to the destinations allocated by Build, in document
// order, keyed by parameter name.
type Values struct {
	names []string
	nodes map[string]*argtree.Node
}

// Value is a snapshot of one destination.
type Value struct {
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type" yaml:"type"`
	Value   any    `json:"value" yaml:"value"`
	Matched bool   `json:"matched" yaml:"matched"`
}

// Names returns the parameter names in document order.
func (v *Values) Names() []string {
	return append([]string(nil), v.names...)
}

// Node returns the node declared under name.
func (v *Values) Node(name string) (*argtree.Node, bool) {
	n, ok := v.nodes[name]
	return n, ok
}

// Text returns the current value of name rendered as text.
func (v *Values) Text(name string) (string, bool) {
	n, ok := v.nodes[name]
	if !ok {
		return "", false
	}
	return n.Target().String(), true
}

// Snapshot returns the current value of every destination. Matched is
// taken from res, which may be nil.
func (v *Values) Snapshot(res *argtree.Result) []Value {
	out := make([]Value, 0, len(v.names))
	for _, name := range v.names {
		n := v.nodes[name]
		out = append(out, Value{
			Name:    name,
			Type:    n.Target().Type().String(),
			Value:   plain(n.Target()),
			Matched: res.Matched(n),
		})
	}
	return out
}

// plain dereferences the destination of t. Characters become strings and
// the math/big types become their text, so that snapshots encode the same
// way in every format.
func plain(t argtree.Target) any {
	switch p := t.Pointer().(type) {
	case *bool:
		return *p
	case *int32:
		if t.Type() == argtree.TypeChar {
			return string(*p)
		}
		return *p
	case *uint8:
		return *p
	case *int16:
		return *p
	case *uint16:
		return *p
	case *uint32:
		return *p
	case *int64:
		return *p
	case *uint64:
		return *p
	case *float32:
		return *p
	case *float64:
		return *p
	case *string:
		return *p
	default:
		return t.String()
	}
}

// Build allocates a destination for every parameter of t and assembles the
// parser. Parameter names must be unique across the tree, since they key
// the Values.
func Build(t *Tree, opts ...argtree.ParserOption) (*argtree.Parser, *Values, error) {
	b := &builder{values: &Values{nodes: map[string]*argtree.Node{}}}

	options, err := b.nodes(t.Options, "options")
	if err != nil {
		return nil, nil, err
	}
	next, err := b.nodes(t.Next, "next")
	if err != nil {
		return nil, nil, err
	}

	p, err := argtree.NewParser(options, next, opts...)
	if err != nil {
		return nil, nil, err
	}
	return p, b.values, nil
}

type builder struct {
	values *Values
}

func (b *builder) nodes(params []Param, path string) ([]*argtree.Node, error) {
	out := make([]*argtree.Node, 0, len(params))
	for i, p := range params {
		n, err := b.node(p, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (b *builder) node(p Param, path string) (*argtree.Node, error) {
	name := paramName(p)
	if name == "" {
		return nil, fmt.Errorf("%s: parameter needs a name or a form", path)
	}
	if _, ok := b.values.nodes[name]; ok {
		return nil, fmt.Errorf("%s: duplicate parameter name %q", path, name)
	}

	typ := argtree.TypeString
	if p.Flag {
		typ = argtree.TypeBool
	}
	if p.Type != "" {
		t, err := argtree.ParseType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		typ = t
	}

	target, err := argtree.NewTarget(destination(typ), typ)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	opts := []argtree.Option{
		argtree.Name(name),
		argtree.Description(p.Description),
		argtree.ShortForms(p.Short...),
		argtree.LongForms(p.Long...),
		argtree.Forms(p.Forms...),
	}
	if p.Required {
		opts = append(opts, argtree.Required())
	}
	if p.Flag {
		opts = append(opts, argtree.Flag())
	}
	if p.Default != nil {
		opts = append(opts, argtree.Default(string(*p.Default)))
	}

	n, err := argtree.NewNode(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	b.values.names = append(b.values.names, name)
	b.values.nodes[name] = n

	options, err := b.nodes(p.Options, path+".options")
	if err != nil {
		return nil, err
	}
	next, err := b.nodes(p.Next, path+".next")
	if err != nil {
		return nil, err
	}

	return n.WithOptions(options...).Then(next...), nil
}

// paramName returns the declared name, or else the first long form, or
// else the first short form, without its prefix.
func paramName(p Param) string {
	switch {
	case p.Name != "":
		return p.Name
	case len(p.Long) > 0:
		return p.Long[0]
	case len(p.Short) > 0:
		return p.Short[0]
	case len(p.Forms) > 0:
		return strings.TrimLeft(p.Forms[0], "-+/")
	}
	return ""
}

// destination allocates storage for a value of type t.
func destination(t argtree.Type) any {
	switch t {
	case argtree.TypeBool:
		return new(bool)
	case argtree.TypeChar, argtree.TypeInt32:
		return new(int32)
	case argtree.TypeByte:
		return new(uint8)
	case argtree.TypeInt16:
		return new(int16)
	case argtree.TypeUint16:
		return new(uint16)
	case argtree.TypeUint32:
		return new(uint32)
	case argtree.TypeInt64:
		return new(int64)
	case argtree.TypeUint64:
		return new(uint64)
	case argtree.TypeInt128, argtree.TypeUint128:
		return new(big.Int)
	case argtree.TypeFloat32:
		return new(float32)
	case argtree.TypeFloat64:
		return new(float64)
	case argtree.TypeFloat80:
		return new(big.Float)
	default:
		return new(string)
	}
}
