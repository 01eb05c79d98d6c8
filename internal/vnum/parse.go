package vnum

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// IntegerWidth is the width of an unsized integer literal.
const IntegerWidth = 32

var (
	ErrEmptyLiteral = errors.New("empty number literal")
	ErrBadBase      = errors.New("unknown number base")
	ErrBadSize      = errors.New("invalid literal size")
)

// Parse converts a Verilog number literal (23, 8'd3, 'hff, 4'sb10x1,
// 12'o7_7z) into a Value.
func Parse(text string) (Value, error) {
	text = strings.ReplaceAll(text, "_", "")
	if text == "" {
		return Value{}, ErrEmptyLiteral
	}
	tick := strings.IndexByte(text, '\'')
	if tick < 0 {
		return parseDecimal(text)
	}

	size := 0
	sized := false
	if tick > 0 {
		n, err := strconv.Atoi(strings.TrimSpace(text[:tick]))
		if err != nil || n <= 0 {
			return Value{}, errors.Wrapf(ErrBadSize, "%q", text)
		}
		size, sized = n, true
	}
	rest := text[tick+1:]
	signed := false
	if rest != "" && (rest[0] == 's' || rest[0] == 'S') {
		signed = true
		rest = rest[1:]
	}
	if rest == "" {
		return Value{}, errors.Wrapf(ErrBadBase, "%q", text)
	}
	base := rest[0] | 0x20
	digits := strings.TrimSpace(rest[1:])
	if digits == "" {
		return Value{}, errors.Errorf("number %q has no digits", text)
	}

	var bits []Bit
	var err error
	switch base {
	case 'b':
		bits, err = radixBits(digits, 1)
	case 'o':
		bits, err = radixBits(digits, 3)
	case 'h':
		bits, err = radixBits(digits, 4)
	case 'd':
		bits, err = decimalBits(digits)
	default:
		return Value{}, errors.Wrapf(ErrBadBase, "%q", text)
	}
	if err != nil {
		return Value{}, errors.Wrapf(err, "number %q", text)
	}

	v := Value{bits: bits, signed: signed}
	if sized {
		v = v.WithSigned(false).Resize(size).WithSigned(signed)
	} else {
		v = v.WithSigned(false).Extend(max(IntegerWidth, len(bits))).WithSigned(signed)
		v.sized = false
	}
	return v, nil
}

func parseDecimal(text string) (Value, error) {
	n, ok := new(big.Int).SetString(text, 10)
	if !ok || n.Sign() < 0 {
		return Value{}, errors.Errorf("malformed decimal number %q", text)
	}
	width := max(IntegerWidth, n.BitLen()+1)
	bits := make([]Bit, width)
	for i := range n.BitLen() {
		if n.Bit(i) == 1 {
			bits[i] = B1
		}
	}
	return Value{bits: bits, signed: true}, nil
}

func digitBit(c byte) (Bit, bool) {
	switch c {
	case 'x', 'X':
		return BX, true
	case 'z', 'Z', '?':
		return BZ, true
	}
	return B0, false
}

// radixBits handles power-of-two bases; each digit contributes per bits.
func radixBits(digits string, per int) ([]Bit, error) {
	bits := make([]Bit, 0, len(digits)*per)
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if b, ok := digitBit(c); ok {
			for range per {
				bits = append(bits, b)
			}
			continue
		}
		d, err := strconv.ParseUint(string(c), 16, 8)
		if err != nil || d >= 1<<uint(per) {
			return nil, errors.Errorf("invalid digit %q", c)
		}
		for j := range per {
			bits = append(bits, Bit((d>>uint(j))&1))
		}
	}
	return bits, nil
}

// decimalBits parses the digits of a based decimal literal. A single x or
// z digit means "all bits x/z".
func decimalBits(digits string) ([]Bit, error) {
	if len(digits) == 1 {
		if b, ok := digitBit(digits[0]); ok {
			return []Bit{b}, nil
		}
	}
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok || n.Sign() < 0 {
		return nil, errors.Errorf("invalid decimal digits %q", digits)
	}
	bits := make([]Bit, max(n.BitLen(), 1))
	for i := range n.BitLen() {
		if n.Bit(i) == 1 {
			bits[i] = B1
		}
	}
	return bits, nil
}

// MustParse panics on malformed input. Intended for tests and tables.
func MustParse(text string) Value {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}
