package argtree

import (
	"fmt"
	"math/big"
	"strconv"
)

// Target is a typed write destination for a parameter. It is a closed set:
// values are obtained from the constructors below, one per Type, so the
// pairing of a Type with its Go storage is checked by the compiler.
//
// Set and SetBool never write on failure.
type Target interface {
	// Type returns the coercion type of the destination.
	Type() Type

	// Set coerces s and writes the result.
	Set(s string) error

	// SetBool writes the boolean-derived value of the destination type.
	SetBool(b bool) error

	// Check coerces s without writing.
	Check(s string) error

	// String renders the current value of the destination.
	String() string

	// Pointer returns the destination pointer, for identity comparison.
	Pointer() any

	sealed()
}

type target[T any] struct {
	typ      Type
	ptr      any
	parse    func(string) (T, error)
	fromBool func(bool) T
	assign   func(T)
	show     func() string
}

func (t *target[T]) Type() Type     { return t.typ }
func (t *target[T]) Pointer() any   { return t.ptr }
func (t *target[T]) String() string { return t.show() }
func (t *target[T]) sealed()        {}

func (t *target[T]) Set(s string) error {
	v, err := t.parse(s)
	if err != nil {
		return err
	}
	t.assign(v)
	return nil
}

func (t *target[T]) SetBool(b bool) error {
	t.assign(t.fromBool(b))
	return nil
}

func (t *target[T]) Check(s string) error {
	_, err := t.parse(s)
	return err
}

// newTarget builds a target for plain value types, where assignment is a
// store through p.
func newTarget[T any](typ Type, p *T, parse func(string) (T, error),
	fromBool func(bool) T, format func(T) string) Target {

	if p == nil {
		return nil
	}
	return &target[T]{
		typ:      typ,
		ptr:      p,
		parse:    parse,
		fromBool: fromBool,
		assign:   func(v T) { *p = v },
		show:     func() string { return format(*p) },
	}
}

func b2i[T uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64](b bool) T {
	if b {
		return 1
	}
	return 0
}

func b2f[T float32 | float64](b bool) T {
	if b {
		return 1
	}
	return 0
}

func formatInt[T int16 | int32 | int64](v T) string { return strconv.FormatInt(int64(v), 10) }
func formatUint[T uint8 | uint16 | uint32 | uint64](v T) string {
	return strconv.FormatUint(uint64(v), 10)
}

// Bool returns a Target writing to p.
func Bool(p *bool) Target {
	return newTarget(TypeBool, p, ParseBool,
		func(b bool) bool { return b }, strconv.FormatBool)
}

// Char returns a Target writing a single code point to p.
func Char(p *rune) Target {
	return newTarget(TypeChar, p, ParseChar, b2i[rune],
		func(r rune) string { return string(r) })
}

// Byte returns a Target writing a single byte to p.
func Byte(p *uint8) Target {
	return newTarget(TypeByte, p, ParseByte, b2i[uint8], formatUint[uint8])
}

// Int16 returns a Target writing to p.
func Int16(p *int16) Target {
	return newTarget(TypeInt16, p, ParseInt16, b2i[int16], formatInt[int16])
}

// Uint16 returns a Target writing to p.
func Uint16(p *uint16) Target {
	return newTarget(TypeUint16, p, ParseUint16, b2i[uint16], formatUint[uint16])
}

// Int32 returns a Target writing to p.
func Int32(p *int32) Target {
	return newTarget(TypeInt32, p, ParseInt32, b2i[int32], formatInt[int32])
}

// Uint32 returns a Target writing to p.
func Uint32(p *uint32) Target {
	return newTarget(TypeUint32, p, ParseUint32, b2i[uint32], formatUint[uint32])
}

// Int64 returns a Target writing to p.
func Int64(p *int64) Target {
	return newTarget(TypeInt64, p, ParseInt64, b2i[int64], formatInt[int64])
}

// Uint64 returns a Target writing to p.
func Uint64(p *uint64) Target {
	return newTarget(TypeUint64, p, ParseUint64, b2i[uint64], formatUint[uint64])
}

// Float32 returns a Target writing to p.
func Float32(p *float32) Target {
	return newTarget(TypeFloat32, p, ParseFloat32, b2f[float32],
		func(f float32) string { return strconv.FormatFloat(float64(f), 'g', -1, 32) })
}

// Float64 returns a Target writing to p.
func Float64(p *float64) Target {
	return newTarget(TypeFloat64, p, ParseFloat64, b2f[float64],
		func(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) })
}

// String returns a Target writing to p.
func String(p *string) Target {
	return newTarget(TypeString, p, func(s string) (string, error) { return s, nil },
		strconv.FormatBool, func(s string) string { return s })
}

// Int128 returns a Target writing a 128-bit signed value into p, which must
// be non-nil.
func Int128(p *big.Int) Target {
	return bigIntTarget(TypeInt128, p, ParseInt128)
}

// Uint128 returns a Target writing a 128-bit unsigned value into p, which
// must be non-nil.
func Uint128(p *big.Int) Target {
	return bigIntTarget(TypeUint128, p, ParseUint128)
}

func bigIntTarget(typ Type, p *big.Int, parse func(string) (*big.Int, error)) Target {
	if p == nil {
		return nil
	}
	return &target[*big.Int]{
		typ:   typ,
		ptr:   p,
		parse: parse,
		fromBool: func(b bool) *big.Int {
			return big.NewInt(int64(b2i[int64](b)))
		},
		assign: func(v *big.Int) { p.Set(v) },
		show:   p.String,
	}
}

// Float80 returns a Target writing an extended precision value into p,
// which must be non-nil. The precision of p is set to 64 bits on write.
func Float80(p *big.Float) Target {
	if p == nil {
		return nil
	}
	return &target[*big.Float]{
		typ:   TypeFloat80,
		ptr:   p,
		parse: ParseFloat80,
		fromBool: func(b bool) *big.Float {
			return new(big.Float).SetPrec(float80Prec).SetInt64(b2i[int64](b))
		},
		assign: func(v *big.Float) { p.SetPrec(float80Prec).Set(v) },
		show:   func() string { return p.Text('g', -1) },
	}
}

// NewTarget returns the Target for pointer p, whose type must be one of the
// destination types (*bool, *rune, *uint8, ..., *big.Int, *big.Float,
// *string). Since *rune and *int32 are the same type, and *big.Int serves
// both 128-bit types, t selects between them; pass TypeInvalid to use the
// default (TypeInt32, TypeInt128).
func NewTarget(p any, t Type) (Target, error) {
	var out Target

	switch v := p.(type) {
	case *bool:
		out = Bool(v)
	case *int32:
		if t == TypeChar {
			out = Char(v)
		} else {
			out = Int32(v)
		}
	case *uint8:
		out = Byte(v)
	case *int16:
		out = Int16(v)
	case *uint16:
		out = Uint16(v)
	case *uint32:
		out = Uint32(v)
	case *int64:
		out = Int64(v)
	case *uint64:
		out = Uint64(v)
	case *big.Int:
		if t == TypeUint128 {
			out = Uint128(v)
		} else {
			out = Int128(v)
		}
	case *float32:
		out = Float32(v)
	case *float64:
		out = Float64(v)
	case *big.Float:
		out = Float80(v)
	case *string:
		out = String(v)
	default:
		return nil, fmt.Errorf("%T not permitted as destination", p)
	}

	if out == nil {
		return nil, ErrNilTarget
	}
	if t != TypeInvalid && out.Type() != t {
		return nil, fmt.Errorf("%T cannot hold %s", p, t)
	}
	return out, nil
}
