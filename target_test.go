package argtree

import (
	"errors"
	"math/big"
	"testing"
)

func Test_TargetSet(t *testing.T) {
	var (
		b   bool
		c   rune
		u8  uint8
		i16 int16
		u16 uint16
		i32 int32
		u32 uint32
		i64 int64
		u64 uint64
		f32 float32
		f64 float64
		s   string
		i   = new(big.Int)
		u   = new(big.Int)
		f   = new(big.Float)
	)

	tests := []struct {
		target Target
		typ    Type
		input  string
		want   string
	}{
		{Bool(&b), TypeBool, "yes", "true"},
		{Char(&c), TypeChar, "ß", "ß"},
		{Byte(&u8), TypeByte, "A", "65"},
		{Int16(&i16), TypeInt16, "-12", "-12"},
		{Uint16(&u16), TypeUint16, "65535", "65535"},
		{Int32(&i32), TypeInt32, "+7", "7"},
		{Uint32(&u32), TypeUint32, "031", "31"},
		{Int64(&i64), TypeInt64, "-9223372036854775808", "-9223372036854775808"},
		{Uint64(&u64), TypeUint64, "18446744073709551615", "18446744073709551615"},
		{Float32(&f32), TypeFloat32, "1.5", "1.5"},
		{Float64(&f64), TypeFloat64, "-2.25e2", "-225"},
		{String(&s), TypeString, "--x=y", "--x=y"},
		{Int128(i), TypeInt128, "-170141183460469231731687303715884105728", "-170141183460469231731687303715884105728"},
		{Uint128(u), TypeUint128, "340282366920938463463374607431768211455", "340282366920938463463374607431768211455"},
		{Float80(f), TypeFloat80, "0.5", "0.5"},
	}

	for _, test := range tests {
		if got := test.target.Type(); got != test.typ {
			t.Errorf("%s: type got=%s", test.typ, got)
		}
		if err := test.target.Set(test.input); err != nil {
			t.Errorf("%s %q: unexpected error %v", test.typ, test.input, err)
			continue
		}
		if got := test.target.String(); got != test.want {
			t.Errorf("%s %q: got=%q want=%q", test.typ, test.input, got, test.want)
		}
	}
}

func Test_TargetSetFailureKeepsValue(t *testing.T) {
	n := int32(42)
	target := Int32(&n)

	if err := target.Set("x"); !errors.Is(err, ErrSyntax) {
		t.Errorf("got=%v want=%v", err, ErrSyntax)
	}
	if err := target.Check("99999999999"); !errors.Is(err, ErrRange) {
		t.Errorf("got=%v want=%v", err, ErrRange)
	}
	if err := target.Check("12"); err != nil {
		t.Errorf("unexpected error %v", err)
	}
	if n != 42 {
		t.Errorf("value changed: %d", n)
	}
}

func Test_TargetSetBool(t *testing.T) {
	var (
		b   bool
		u16 uint16
		f64 float64
		s   string
		i   = new(big.Int)
		f   = new(big.Float)
	)

	tests := []struct {
		target Target
		want   string
	}{
		{Bool(&b), "true"},
		{Uint16(&u16), "1"},
		{Float64(&f64), "1"},
		{String(&s), "true"},
		{Int128(i), "1"},
		{Float80(f), "1"},
	}

	for _, test := range tests {
		if err := test.target.SetBool(true); err != nil {
			t.Errorf("%s: unexpected error %v", test.target.Type(), err)
			continue
		}
		if got := test.target.String(); got != test.want {
			t.Errorf("%s: got=%q want=%q", test.target.Type(), got, test.want)
		}
	}
}

func Test_Float80Precision(t *testing.T) {
	f := new(big.Float).SetPrec(200)
	if err := Float80(f).Set("0.1"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if f.Prec() != float80Prec {
		t.Errorf("precision: got=%d want=%d", f.Prec(), float80Prec)
	}
}

func Test_NilPointerTargets(t *testing.T) {
	if Bool(nil) != nil || Int128(nil) != nil || Float80(nil) != nil {
		t.Errorf("nil pointer must give a nil Target")
	}
}

func Test_NewTarget(t *testing.T) {
	var (
		r   rune
		i32 int32
		u8  uint8
		s   string
		i   = new(big.Int)
	)

	tests := []struct {
		p    any
		t    Type
		want Type
	}{
		{&r, TypeChar, TypeChar},
		{&i32, TypeInvalid, TypeInt32},
		{&i32, TypeInt32, TypeInt32},
		{&u8, TypeByte, TypeByte},
		{&s, TypeInvalid, TypeString},
		{i, TypeInvalid, TypeInt128},
		{i, TypeUint128, TypeUint128},
		{new(big.Float), TypeFloat80, TypeFloat80},
	}

	for _, test := range tests {
		got, err := NewTarget(test.p, test.t)
		if err != nil {
			t.Errorf("%T %s: unexpected error %v", test.p, test.t, err)
			continue
		}
		if got.Type() != test.want {
			t.Errorf("%T %s: got=%s want=%s", test.p, test.t, got.Type(), test.want)
		}
		if got.Pointer() != test.p {
			t.Errorf("%T %s: pointer differs", test.p, test.t)
		}
	}

	var n int
	var f64 float64
	for _, test := range []struct {
		p any
		t Type
	}{
		{&n, TypeInvalid},
		{s, TypeInvalid},
		{&f64, TypeFloat32},
		{&s, TypeInt32},
	} {
		if _, err := NewTarget(test.p, test.t); err == nil {
			t.Errorf("%T %s: expected error", test.p, test.t)
		}
	}

	if _, err := NewTarget((*string)(nil), TypeInvalid); !errors.Is(err, ErrNilTarget) {
		t.Errorf("nil pointer: got=%v want=%v", err, ErrNilTarget)
	}
}

func Test_ParseType(t *testing.T) {
	for _, typ := range Types() {
		got, err := ParseType(typ.String())
		if err != nil || got != typ {
			t.Errorf("%s: got=%s err=%v", typ, got, err)
		}
	}

	tests := []struct {
		name string
		want Type
	}{
		{"rune", TypeChar},
		{"uint8", TypeByte},
		{" Int64 ", TypeInt64},
		{"FLOAT80", TypeFloat80},
		{"str", TypeString},
	}
	for _, test := range tests {
		if got, err := ParseType(test.name); err != nil || got != test.want {
			t.Errorf("%q: got=%s err=%v want=%s", test.name, got, err, test.want)
		}
	}

	for _, name := range []string{"", "int", "invalid", "float"} {
		if _, err := ParseType(name); err == nil {
			t.Errorf("%q: expected error", name)
		}
	}

	if len(Types()) != 15 {
		t.Errorf("got %d types", len(Types()))
	}
	if !TypeInt16.Signed() || TypeUint16.Signed() || !TypeUint128.Unsigned() || !TypeFloat80.Float() {
		t.Errorf("type classes wrong")
	}
	if TypeInvalid.Valid() || !TypeString.Valid() || Type(99).Valid() {
		t.Errorf("Valid wrong")
	}
}
