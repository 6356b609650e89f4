/*
Package argtree implements a command-line parser built from a tree of
parameters. Each parameter writes its value into a typed destination as
soon as it matches; the tree decides which parameters may follow which.

# Parameters

A parameter (a *Node) is either named or positional. Named parameters
are identified by one or more forms, literal tokens such as "-v" or
"--verbose". A named parameter is either a flag, which takes no value and
writes true when present, or takes a value:

	--count 3
	--count=3

Positional parameters have no forms and take the token at their position
as their value.

Parameters are optional unless marked Required. Flags may not be
required, and positionals may not be flags.

# Trees

Every node carries two lists of children:

	options : order-independent siblings, each matched at most once
	next    : mutually exclusive continuations, at most one matches

After a node matches its own token(s), its options are tried repeatedly
at the current position until none of them makes progress, so options
may be given in any order. Then the continuations are tried in order and
the first one that consumes tokens is taken. Finally the options are
tried once more, so that options may also follow a continuation.

At most one continuation of a node may be required. A parser owns an
unnamed root node whose options and continuations are the top-level
parameters of the program. A parse succeeds only if every token is
consumed.

	verbose := false
	file := ""
	p := argtree.MustParser(
		[]*argtree.Node{argtree.MustNode(argtree.Bool(&verbose),
			argtree.ShortForms("v"), argtree.LongForms("verbose"), argtree.Flag())},
		[]*argtree.Node{argtree.MustNode(argtree.String(&file),
			argtree.Name("file"), argtree.Required())},
	)
	_, err := p.ParseCommandLine()

# Supported Data Types

Tokens are converted strictly, in base 10, without surrounding
whitespace:

	bool    true/false, yes/no, on/off, y/n, 1/0 (any case)
	char    a single code point (rune)
	u8      a single byte
	i16 u16 i32 u32 i64 u64
	i128 u128     (math/big.Int)
	f32 f64
	f80           (math/big.Float with a 64 bit mantissa)
	string

Values out of range for their type are rejected, never wrapped.

# Errors

Problems with the tree itself are reported as *ConfigError, mostly when
the tree is built. Problems with the tokens are reported by Parse as a
*ParseError, which lists the failure that ended the parse first, followed
by other failures seen on the way. Use errors.Is with the Err sentinels to
test for a specific cause.

Writes are not transactional: a parameter that matched before the parse
failed keeps its value.

# Struct Tags

FromStruct builds a tree from a struct definition. The following struct
tags may be used:

	arg-flag     : The forms of the field, as a whitespace separated string.
	arg-help     : A help text that will be displayed by PrintUsage().
	arg-default  : A default value, written before the tokens are parsed.
	arg-name     : The name used in usage and error messages.
	arg-type     : The token type, where the Go type allows several (char, u128).
	arg-required : The option must be given.
	arg-optional : The positional may be omitted.
	arg-ignore   : Ignore this field.

Fields without arg-flag are positionals, matched in field order.
Short forms are "-" and one letter or digit, long forms are "--" and
letters, digits or hyphens.

If the help text contains a substring enclosed by a pair of "*", then
the first occurrence of such a substring will be substituted for the
field's type in the usage messages.

Remember that struct fields must be public (ie. upper-case) to be
accessible!
*/
package argtree
