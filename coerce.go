package argtree

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// ErrSyntax indicates that a token is not a well-formed value of the
	// requested type.
	ErrSyntax = errors.New("invalid syntax")

	// ErrRange indicates that a token is well-formed but does not fit the
	// requested type.
	ErrRange = errors.New("value out of range")
)

// CoercionError reports a failed conversion of a token into a Type.
type CoercionError struct {
	Type  Type
	Input string
	Err   error // ErrSyntax or ErrRange
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot convert %s to %s: %v",
		quoteShort(e.Input), e.Type, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }

const maxQuoted = 40

// quoteShort quotes s, eliding the middle of very long inputs.
func quoteShort(s string) string {
	if len(s) <= maxQuoted {
		return strconv.Quote(s)
	}
	return strconv.Quote(s[:maxQuoted/2]) + "..." + strconv.Quote(s[len(s)-maxQuoted/2:])
}

func syntaxError(t Type, s string) error {
	return &CoercionError{Type: t, Input: s, Err: ErrSyntax}
}

func rangeError(t Type, s string) error {
	return &CoercionError{Type: t, Input: s, Err: ErrRange}
}

const (
	// Decimal or exponential notation, nothing else: no hex floats, no
	// digit separators, no inf/nan.
	decimalFloat = `^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`
	digitsOnly   = `^[0-9]+$`
)

var decimalFloatRE = regexp.MustCompile(decimalFloat)
var digitsOnlyRE = regexp.MustCompile(digitsOnly)

var truthy = map[string]bool{
	"true": true, "t": true, "yes": true, "y": true, "on": true, "1": true,
	"false": false, "f": false, "no": false, "n": false, "off": false, "0": false,
}

// ParseBool matches s case-insensitively against true, t, yes, y, on, 1 and
// false, f, no, n, off, 0.
func ParseBool(s string) (bool, error) {
	b, ok := truthy[strings.ToLower(s)]
	if !ok {
		return false, syntaxError(TypeBool, s)
	}
	return b, nil
}

// ParseChar requires s to be exactly one valid UTF-8 code point.
func ParseChar(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || (r == utf8.RuneError && size == 1) {
		return 0, syntaxError(TypeChar, s)
	}
	return r, nil
}

// ParseByte requires s to be exactly one byte long.
func ParseByte(s string) (uint8, error) {
	if len(s) != 1 {
		return 0, syntaxError(TypeByte, s)
	}
	return s[0], nil
}

// parseSigned parses s as a base-10 integer of the given width. The whole
// string must be consumed.
func parseSigned(t Type, s string, bits int) (int64, error) {
	i, err := strconv.ParseInt(s, 10, bits)
	if err != nil {
		return 0, numError(t, s, err)
	}
	return i, nil
}

// parseUnsigned rejects a leading '-' before parsing, so that no negative
// value can wrap around into an unsigned destination.
func parseUnsigned(t Type, s string, bits int) (uint64, error) {
	if err := checkUnsignedSign(t, s); err != nil {
		return 0, err
	}
	u, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return 0, numError(t, s, err)
	}
	return u, nil
}

func checkUnsignedSign(t Type, s string) error {
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		if digitsOnlyRE.MatchString(rest) {
			return rangeError(t, s)
		}
		return syntaxError(t, s)
	}
	return nil
}

func numError(t Type, s string, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return rangeError(t, s)
	}
	return syntaxError(t, s)
}

// ParseInt16 parses a signed 16-bit decimal integer.
func ParseInt16(s string) (int16, error) {
	i, err := parseSigned(TypeInt16, s, 16)
	return int16(i), err
}

// ParseUint16 parses an unsigned 16-bit decimal integer.
func ParseUint16(s string) (uint16, error) {
	u, err := parseUnsigned(TypeUint16, s, 16)
	return uint16(u), err
}

// ParseInt32 parses a signed 32-bit decimal integer.
func ParseInt32(s string) (int32, error) {
	i, err := parseSigned(TypeInt32, s, 32)
	return int32(i), err
}

// ParseUint32 parses an unsigned 32-bit decimal integer.
func ParseUint32(s string) (uint32, error) {
	u, err := parseUnsigned(TypeUint32, s, 32)
	return uint32(u), err
}

// ParseInt64 parses a signed 64-bit decimal integer.
func ParseInt64(s string) (int64, error) {
	return parseSigned(TypeInt64, s, 64)
}

// ParseUint64 parses an unsigned 64-bit decimal integer.
func ParseUint64(s string) (uint64, error) {
	return parseUnsigned(TypeUint64, s, 64)
}

var (
	one = big.NewInt(1)

	maxInt128  = new(big.Int).Sub(new(big.Int).Lsh(one, 127), one)
	minInt128  = new(big.Int).Neg(new(big.Int).Lsh(one, 127))
	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(one, 128), one)
)

// ParseInt128 parses a signed 128-bit decimal integer.
func ParseInt128(s string) (*big.Int, error) {
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, syntaxError(TypeInt128, s)
	}
	if i.Cmp(minInt128) < 0 || i.Cmp(maxInt128) > 0 {
		return nil, rangeError(TypeInt128, s)
	}
	return i, nil
}

// ParseUint128 parses an unsigned 128-bit decimal integer. Like the other
// unsigned parsers it accepts no sign at all.
func ParseUint128(s string) (*big.Int, error) {
	if err := checkUnsignedSign(TypeUint128, s); err != nil {
		return nil, err
	}
	if strings.HasPrefix(s, "+") {
		return nil, syntaxError(TypeUint128, s)
	}
	u, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, syntaxError(TypeUint128, s)
	}
	if u.Cmp(maxUint128) > 0 {
		return nil, rangeError(TypeUint128, s)
	}
	return u, nil
}

func parseFloat(t Type, s string, bits int) (float64, error) {
	if !decimalFloatRE.MatchString(s) {
		return 0, syntaxError(t, s)
	}
	f, err := strconv.ParseFloat(s, bits)
	if err != nil {
		return 0, numError(t, s, err)
	}
	return f, nil
}

// ParseFloat32 parses a decimal or exponential number into a float32.
func ParseFloat32(s string) (float32, error) {
	f, err := parseFloat(TypeFloat32, s, 32)
	return float32(f), err
}

// ParseFloat64 parses a decimal or exponential number into a float64.
func ParseFloat64(s string) (float64, error) {
	return parseFloat(TypeFloat64, s, 64)
}

// Precision and exponent limits of the x87 80-bit extended format, in the
// convention of big.Float.MantExp (mantissa in [0.5, 1)).
const (
	float80Prec   = 64
	float80MaxExp = 16384
	float80MinExp = -16444
)

// ParseFloat80 parses a decimal or exponential number with the precision
// and range of an 80-bit extended float. Values below the smallest
// subnormal are flushed to zero.
func ParseFloat80(s string) (*big.Float, error) {
	if !decimalFloatRE.MatchString(s) {
		return nil, syntaxError(TypeFloat80, s)
	}
	neg := strings.HasPrefix(s, "-")

	f, _, err := big.ParseFloat(s, 10, float80Prec, big.ToNearestEven)
	if err != nil {
		// The grammar already matched, so only the exponent can be at
		// fault: a huge negative one underflows, a huge positive one
		// overflows unless the mantissa is zero.
		mant, exp, _ := strings.Cut(strings.ToLower(s), "e")
		if strings.HasPrefix(exp, "-") || strings.Trim(mant, "+-0.") == "" {
			return float80Zero(neg), nil
		}
		return nil, rangeError(TypeFloat80, s)
	}
	if f.IsInf() || f.MantExp(nil) > float80MaxExp {
		return nil, rangeError(TypeFloat80, s)
	}
	if f.Sign() != 0 && f.MantExp(nil) < float80MinExp {
		return float80Zero(f.Signbit()), nil
	}
	return f, nil
}

func float80Zero(neg bool) *big.Float {
	f := new(big.Float).SetPrec(float80Prec)
	if neg {
		f.Neg(f)
	}
	return f
}

// Coerce converts s into the Go representation of t: bool, rune, uint8,
// int16, uint16, int32, uint32, int64, uint64, *big.Int, float32, float64,
// *big.Float or string. Failures are *CoercionError values.
func Coerce(t Type, s string) (any, error) {
	switch t {
	case TypeBool:
		return ParseBool(s)
	case TypeChar:
		return ParseChar(s)
	case TypeByte:
		return ParseByte(s)
	case TypeInt16:
		return ParseInt16(s)
	case TypeUint16:
		return ParseUint16(s)
	case TypeInt32:
		return ParseInt32(s)
	case TypeUint32:
		return ParseUint32(s)
	case TypeInt64:
		return ParseInt64(s)
	case TypeUint64:
		return ParseUint64(s)
	case TypeInt128:
		return ParseInt128(s)
	case TypeUint128:
		return ParseUint128(s)
	case TypeFloat32:
		return ParseFloat32(s)
	case TypeFloat64:
		return ParseFloat64(s)
	case TypeFloat80:
		return ParseFloat80(s)
	case TypeString:
		return s, nil
	default:
		return nil, fmt.Errorf("invalid type: %v", t)
	}
}

// CoerceBool converts a boolean into t: numeric and character types get 1
// or 0, strings get "true" or "false".
func CoerceBool(t Type, b bool) (any, error) {
	var n int64
	if b {
		n = 1
	}

	switch t {
	case TypeBool:
		return b, nil
	case TypeChar:
		return rune(n), nil
	case TypeByte:
		return uint8(n), nil
	case TypeInt16:
		return int16(n), nil
	case TypeUint16:
		return uint16(n), nil
	case TypeInt32:
		return int32(n), nil
	case TypeUint32:
		return uint32(n), nil
	case TypeInt64:
		return n, nil
	case TypeUint64:
		return uint64(n), nil
	case TypeInt128, TypeUint128:
		return big.NewInt(n), nil
	case TypeFloat32:
		return float32(n), nil
	case TypeFloat64:
		return float64(n), nil
	case TypeFloat80:
		return new(big.Float).SetPrec(float80Prec).SetInt64(n), nil
	case TypeString:
		return strconv.FormatBool(b), nil
	default:
		return nil, fmt.Errorf("invalid type: %v", t)
	}
}
