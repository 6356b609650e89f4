package treefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janert/argtree"
)

func buildSample(t *testing.T) (*argtree.Parser, *Values) {
	t.Helper()

	tree, err := Decode([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)

	p, values, err := Build(tree)
	require.NoError(t, err)
	return p, values
}

func TestBuild(t *testing.T) {
	p, values := buildSample(t)

	assert.Equal(t, []string{"verbose", "count", "src", "dst"}, values.Names())
	assert.Len(t, p.Nodes(), 4)

	n, ok := values.Node("count")
	require.True(t, ok)
	spec := n.Spec()
	assert.Equal(t, argtree.TypeInt32, spec.Type)
	assert.Equal(t, []string{"-n"}, spec.Forms)
	assert.Equal(t, "3", spec.Default)

	n, ok = values.Node("verbose")
	require.True(t, ok)
	assert.True(t, n.Spec().Flag)
	assert.Equal(t, argtree.TypeBool, n.Spec().Type)

	_, ok = values.Node("missing")
	assert.False(t, ok)
}

func TestBuildParse(t *testing.T) {
	p, values := buildSample(t)

	res, err := p.Parse([]string{"-v", "a.txt", "b.txt", "-n", "7"})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Consumed)

	want := []Value{
		{Name: "verbose", Type: "bool", Value: true, Matched: true},
		{Name: "count", Type: "i32", Value: int32(7), Matched: true},
		{Name: "src", Type: "string", Value: "a.txt", Matched: true},
		{Name: "dst", Type: "string", Value: "b.txt", Matched: true},
	}
	assert.Equal(t, want, values.Snapshot(res))

	text, ok := values.Text("count")
	assert.True(t, ok)
	assert.Equal(t, "7", text)

	// Defaults are restored by the next parse
	res, err = p.Parse([]string{"c.txt"})
	require.NoError(t, err)
	snap := values.Snapshot(res)
	assert.Equal(t, false, snap[0].Value)
	assert.Equal(t, int32(3), snap[1].Value)
	assert.False(t, snap[1].Matched)
	assert.Equal(t, "c.txt", snap[2].Value)

	_, err = p.Parse(nil)
	assert.ErrorIs(t, err, argtree.ErrMissingRequired)
}

func TestBuildNames(t *testing.T) {
	tree := &Tree{Options: []Param{
		{Long: []string{"output"}, Short: []string{"o"}},
		{Short: []string{"q"}, Flag: true},
		{Forms: []string{"/x"}, Flag: true},
	}}

	_, values, err := Build(tree)
	require.NoError(t, err)
	assert.Equal(t, []string{"output", "q", "x"}, values.Names())
}

func TestBuildErrors(t *testing.T) {
	def := Scalar("x")

	tests := []struct {
		name string
		tree *Tree
		msg  string
	}{
		{"no name", &Tree{Next: []Param{{}}},
			"next[0]: parameter needs a name or a form"},
		{"duplicate name", &Tree{Options: []Param{{Name: "a", Short: []string{"a"}}}, Next: []Param{{Name: "a"}}},
			`next[0]: duplicate parameter name "a"`},
		{"bad type", &Tree{Options: []Param{{Name: "a", Short: []string{"a"}, Type: "int"}}},
			"options[0]"},
		{"nested bad default", &Tree{Next: []Param{{Name: "a", Next: []Param{{Name: "b", Type: "u16", Default: &def}}}}},
			"next[0].next[0]"},
		{"positional flag", &Tree{Next: []Param{{Name: "a", Flag: true}}},
			"positional parameter may not be a flag"},
		{"duplicate forms", &Tree{Options: []Param{{Name: "a", Short: []string{"a"}}, {Name: "b", Short: []string{"a"}}}},
			"form registered more than once"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Build(tt.tree)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestSnapshotTypes(t *testing.T) {
	tree := &Tree{Options: []Param{
		{Name: "char", Long: []string{"char"}, Type: "char"},
		{Name: "big", Long: []string{"big"}, Type: "u128"},
		{Name: "ext", Long: []string{"ext"}, Type: "f80"},
		{Name: "byte", Long: []string{"byte"}, Type: "u8"},
	}}

	p, values, err := Build(tree)
	require.NoError(t, err)

	_, err = p.Parse([]string{"--char=ß", "--big", "340282366920938463463374607431768211455", "--ext", "0.25", "--byte", "A"})
	require.NoError(t, err)

	snap := values.Snapshot(nil)
	assert.Equal(t, "ß", snap[0].Value)
	assert.Equal(t, "340282366920938463463374607431768211455", snap[1].Value)
	assert.Equal(t, "0.25", snap[2].Value)
	assert.Equal(t, uint8('A'), snap[3].Value)
	for _, v := range snap {
		assert.False(t, v.Matched, v.Name)
	}
}
