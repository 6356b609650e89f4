package argtree

import (
	"fmt"
	"strings"
)

// Type identifies the representation a token is coerced into. It is only a
// dispatch key; it carries no data.
type Type int

const (
	TypeInvalid Type = iota
	TypeBool
	TypeChar
	TypeByte
	TypeInt16
	TypeUint16
	TypeInt32
	TypeUint32
	TypeInt64
	TypeUint64
	TypeInt128
	TypeUint128
	TypeFloat32
	TypeFloat64
	TypeFloat80
	TypeString
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeBool:    "bool",
	TypeChar:    "char",
	TypeByte:    "u8",
	TypeInt16:   "i16",
	TypeUint16:  "u16",
	TypeInt32:   "i32",
	TypeUint32:  "u32",
	TypeInt64:   "i64",
	TypeUint64:  "u64",
	TypeInt128:  "i128",
	TypeUint128: "u128",
	TypeFloat32: "f32",
	TypeFloat64: "f64",
	TypeFloat80: "f80",
	TypeString:  "string",
}

// Alternative spellings accepted by ParseType, mostly Go type names.
var typeAliases = map[string]Type{
	"rune":    TypeChar,
	"byte":    TypeByte,
	"uint8":   TypeByte,
	"int16":   TypeInt16,
	"uint16":  TypeUint16,
	"int32":   TypeInt32,
	"uint32":  TypeUint32,
	"int64":   TypeInt64,
	"uint64":  TypeUint64,
	"int128":  TypeInt128,
	"uint128": TypeUint128,
	"float32": TypeFloat32,
	"float64": TypeFloat64,
	"float80": TypeFloat80,
	"str":     TypeString,
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Valid reports whether t is one of the fifteen coercible types.
func (t Type) Valid() bool {
	return t > TypeInvalid && t <= TypeString
}

// Signed reports whether t is a signed integer type.
func (t Type) Signed() bool {
	switch t {
	case TypeInt16, TypeInt32, TypeInt64, TypeInt128:
		return true
	}
	return false
}

// Unsigned reports whether t is an unsigned integer type.
func (t Type) Unsigned() bool {
	switch t {
	case TypeUint16, TypeUint32, TypeUint64, TypeUint128:
		return true
	}
	return false
}

// Float reports whether t is a floating point type.
func (t Type) Float() bool {
	return t == TypeFloat32 || t == TypeFloat64 || t == TypeFloat80
}

// ParseType maps a type name, as returned by Type.String or spelled the Go
// way ("uint8", "int32", "rune"), to its Type. Case is ignored.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t := TypeBool; t <= TypeString; t++ {
		if typeNames[t] == name {
			return t, nil
		}
	}
	if t, ok := typeAliases[name]; ok {
		return t, nil
	}
	return TypeInvalid, fmt.Errorf("unknown type: %q", s)
}

// Types returns all coercible types in declaration order.
func Types() []Type {
	out := make([]Type, 0, int(TypeString))
	for t := TypeBool; t <= TypeString; t++ {
		out = append(out, t)
	}
	return out
}
