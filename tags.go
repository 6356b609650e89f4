package argtree

import (
	"fmt"
	"math/big"
	"os"
	"reflect"
	"regexp"
	"strings"
)

const (
	tagFlag     = "arg-flag"
	tagHelp     = "arg-help"
	tagDefault  = "arg-default"
	tagName     = "arg-name"
	tagType     = "arg-type"
	tagRequired = "arg-required"
	tagOptional = "arg-optional"
	tagIgnore   = "arg-ignore"
)

const (
	shortFlag = "^-[0-9A-Za-z]$"
	longFlag  = "^--[0-9A-Za-z][0-9A-Za-z-]+$" // first char must not be '-'
)

var (
	shortFlagRE = regexp.MustCompile(shortFlag)
	longFlagRE  = regexp.MustCompile(longFlag)
)

var allowedTypes = map[reflect.Type]struct{}{
	reflect.TypeOf(false):        {},
	reflect.TypeOf(int32(0)):     {}, // also rune, with arg-type:"char"
	reflect.TypeOf(uint8(0)):     {},
	reflect.TypeOf(int16(0)):     {},
	reflect.TypeOf(uint16(0)):    {},
	reflect.TypeOf(uint32(0)):    {},
	reflect.TypeOf(int64(0)):     {},
	reflect.TypeOf(uint64(0)):    {},
	reflect.TypeOf(float32(0.0)): {},
	reflect.TypeOf(float64(0.0)): {},
	reflect.TypeOf(string("")):   {},
	reflect.TypeOf(big.Int{}):    {}, // i128, or u128 with arg-type
	reflect.TypeOf(big.Float{}):  {}, // f80
}

// unwrap takes an argument, which must be a pointer to a struct, and
// returns a reflect.Value of the pointed to struct.
func unwrap(s any) (reflect.Value, error) {
	v := reflect.ValueOf(s)

	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, fmt.Errorf("arg must be ptr to struct")
	}
	v = v.Elem()

	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("arg must be ptr to struct")
	}

	return v, nil
}

// structTree is the result of analyzing a struct: the nodes for fields
// with arg-flag, in field order, the nodes for the other fields, in field
// order, and the options that must be given.
type structTree struct {
	options     []*Node
	positionals []*Node
	required    []*Node
}

// analyzeStruct builds one node per field of v, reading both the field's
// type and its tags. Fields tagged arg-ignore are skipped.
func analyzeStruct(v reflect.Value) (structTree, error) {
	typeInfo := v.Type()
	out := structTree{}

	for i := 0; i < v.NumField(); i++ {
		field := typeInfo.Field(i)

		if _, ok := field.Tag.Lookup(tagIgnore); ok {
			continue
		}

		node, err := makeFieldNode(field, v.Field(i))
		if err != nil {
			return structTree{}, &ConfigError{Param: field.Name, Err: err}
		}

		if _, ok := field.Tag.Lookup(tagFlag); ok {
			out.options = append(out.options, node)

			// Options are attached at every level of the tree, so a
			// required option is checked once for the whole parse.
			if _, ok := field.Tag.Lookup(tagRequired); ok {
				out.required = append(out.required, node)
			}
		} else {
			out.positionals = append(out.positionals, node)
		}
	}

	return out, nil
}

// makeFieldNode builds the node for one struct field. Returns an error if
// the field's type is not a destination type or one of its tags is
// malformed.
func makeFieldNode(field reflect.StructField, fv reflect.Value) (*Node, error) {
	if !field.IsExported() {
		return nil, fmt.Errorf("unexported fields not permitted in struct, maybe use %s tag",
			tagIgnore)
	}

	// Disallows pointers
	if field.Type.Kind() == reflect.Pointer {
		return nil, fmt.Errorf("pointers not permitted in struct, maybe use %s tag",
			tagIgnore)
	}

	if _, ok := allowedTypes[field.Type]; !ok {
		return nil, fmt.Errorf("%s not permitted in struct, maybe use %s tag",
			field.Type.String(), tagIgnore)
	}

	typ := TypeInvalid
	if s, ok := field.Tag.Lookup(tagType); ok {
		t, err := ParseType(s)
		if err != nil {
			return nil, err
		}
		typ = t
	}

	target, err := NewTarget(fv.Addr().Interface(), typ)
	if err != nil {
		return nil, err
	}

	opts := []Option{Name(field.Name)}
	if name, ok := field.Tag.Lookup(tagName); ok && name != "" {
		opts[0] = Name(name)
	}
	if help, ok := field.Tag.Lookup(tagHelp); ok {
		opts = append(opts, Description(help))
	}
	if def, ok := field.Tag.Lookup(tagDefault); ok {
		opts = append(opts, Default(def))
	}

	if flag, ok := field.Tag.Lookup(tagFlag); ok {
		forms, err := extractFlags(flag)
		if err != nil {
			return nil, err
		}
		opts = append(opts, Forms(forms...))

		if target.Type() == TypeBool {
			opts = append(opts, Flag())
		}
		if _, ok := field.Tag.Lookup(tagRequired); ok && target.Type() == TypeBool {
			return nil, ErrFlagRequired
		}
	} else if _, ok := field.Tag.Lookup(tagOptional); !ok {
		opts = append(opts, Required())
	}

	return NewNode(target, opts...)
}

// extractFlags parses its argument, which should be an arg-flag tag, and
// returns the flags it lists. Returns an error if one of the tokens is
// misformed or if there is none.
func extractFlags(s string) ([]string, error) {
	out := []string{}

	for _, token := range strings.Fields(s) {
		if shortFlagRE.MatchString(token) || longFlagRE.MatchString(token) {
			out = append(out, token)
		} else {
			return nil, fmt.Errorf("malformed flag: %s", token)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%s tag lists no flags", tagFlag)
	}
	return out, nil
}

// FromStruct takes a pointer to a struct and builds a parser that writes
// its fields.
//
// Fields tagged arg-flag become options, named by the flags listed in the
// tag; bool fields among them are flags. All other fields become
// positionals, matched in field order, and are required unless tagged
// arg-optional. Options may appear before, between and after positionals,
// but each at most once; a repeat fails with ErrRepeated.
//
// Returns an error if the struct contains unsupported data types or if its
// tags are malformed.
func FromStruct(data any, opts ...ParserOption) (*Parser, error) {
	v, err := unwrap(data)
	if err != nil {
		return nil, err
	}

	st, err := analyzeStruct(v)
	if err != nil {
		return nil, err
	}

	// Chain the positionals, last to first, each carrying the options.
	var next []*Node
	for i := len(st.positionals) - 1; i >= 0; i-- {
		next = []*Node{st.positionals[i].WithOptions(st.options...).Then(next...)}
	}

	opts = append([]ParserOption{WithRequired(st.required...)}, opts...)
	return NewParser(st.options, next, opts...)
}

// FromSlice takes a pointer to a struct and populates the struct by
// processing a slice of string tokens.
// The tokens may be a mix of options and their values as well as
// positional arguments.
// Returns an error if the struct contains unsupported data types, if the
// tokens do not fit the struct, or if any of the type conversions fails.
func FromSlice(tokens []string, data any) error {
	p, err := FromStruct(data)
	if err != nil {
		return err
	}

	_, err = p.Parse(tokens)
	return err
}

// FromCommandLine takes a pointer to a struct and populates the struct
// with the command-line arguments.
func FromCommandLine(data any) error {
	return FromSlice(os.Args[1:], data)
}
