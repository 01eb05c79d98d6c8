package vnum

import "slices"

// Bit is a single four-state digit.
type Bit uint8

const (
	B0 Bit = iota
	B1
	BX
	BZ
)

func (b Bit) String() string {
	switch b {
	case B0:
		return "0"
	case B1:
		return "1"
	case BX:
		return "x"
	case BZ:
		return "z"
	}
	return "?"
}

// Defined reports whether the bit is 0 or 1.
func (b Bit) Defined() bool { return b == B0 || b == B1 }

type Value struct {
	bits   []Bit
	sized  bool
	signed bool
	str    bool
}

// Fill returns a sized unsigned value of width copies of b.
func Fill(b Bit, width int) Value {
	bits := make([]Bit, width)
	for i := range bits {
		bits[i] = b
	}
	return Value{bits: bits, sized: true}
}

// FromBits copies bits (LSB first).
func FromBits(bits []Bit, sized, signed bool) Value {
	return Value{bits: slices.Clone(bits), sized: sized, signed: signed}
}

// Uint returns a sized unsigned value holding the low width bits of v.
func Uint(v uint64, width int) Value {
	bits := make([]Bit, width)
	for i := 0; i < width && i < 64; i++ {
		if v&(1<<uint(i)) != 0 {
			bits[i] = B1
		}
	}
	return Value{bits: bits, sized: true}
}

// Int returns an unsized signed integer of the given width, the way a
// plain decimal number or an integer-valued genvar behaves.
func Int(v int64, width int) Value {
	bits := make([]Bit, width)
	u := uint64(v) //nolint:gosec // G115: two's complement bit pattern is wanted
	for i := range width {
		shift := min(i, 63)
		if (u>>uint(shift))&1 != 0 {
			bits[i] = B1
		}
	}
	return Value{bits: bits, signed: true}
}

// String returns a sized string constant, 8 bits per byte, first byte in
// the most significant position.
func String(s string) Value {
	n := len(s)
	bits := make([]Bit, 8*n)
	for i := 0; i < n; i++ {
		c := s[n-1-i]
		for j := range 8 {
			if c&(1<<uint(j)) != 0 {
				bits[8*i+j] = B1
			}
		}
	}
	return Value{bits: bits, sized: true, str: true}
}

func (v Value) Len() int       { return len(v.bits) }
func (v Value) Sized() bool    { return v.sized }
func (v Value) Signed() bool   { return v.signed }
func (v Value) IsString() bool { return v.str }

// Bit returns bit i, or X when i is outside the value.
func (v Value) Bit(i int) Bit {
	if i < 0 || i >= len(v.bits) {
		return BX
	}
	return v.bits[i]
}

// Bits returns a copy of the bits, LSB first.
func (v Value) Bits() []Bit { return slices.Clone(v.bits) }

// Msb returns the most significant bit (B0 for an empty value).
func (v Value) Msb() Bit {
	if len(v.bits) == 0 {
		return B0
	}
	return v.bits[len(v.bits)-1]
}

// SignBit is the bit used to extend an unsized value: the MSB when signed,
// otherwise 0.
func (v Value) SignBit() Bit {
	if v.signed {
		return v.Msb()
	}
	return B0
}

func (v Value) WithSigned(signed bool) Value {
	v.bits = slices.Clone(v.bits)
	v.signed = signed
	return v
}

func (v Value) WithSized(sized bool) Value {
	v.bits = slices.Clone(v.bits)
	v.sized = sized
	return v
}

// IsDefined reports whether every bit is 0 or 1.
func (v Value) IsDefined() bool {
	for _, b := range v.bits {
		if !b.Defined() {
			return false
		}
	}
	return true
}

// IsZero reports whether every bit is 0.
func (v Value) IsZero() bool {
	for _, b := range v.bits {
		if b != B0 {
			return false
		}
	}
	return true
}

// IsNegative reports a defined signed value with its MSB set.
func (v Value) IsNegative() bool {
	return v.signed && v.Msb() == B1
}

// Equal compares bits and flags.
func (v Value) Equal(o Value) bool {
	return v.sized == o.sized && v.signed == o.signed && v.str == o.str && slices.Equal(v.bits, o.bits)
}

// Int64 interprets a defined value as an integer. Values wider than 64
// bits succeed only when the extra bits are a pure extension.
func (v Value) Int64() (int64, bool) {
	if !v.IsDefined() {
		return 0, false
	}
	ext := v.SignBit()
	for i := 64; i < len(v.bits); i++ {
		if v.bits[i] != ext {
			return 0, false
		}
	}
	var u uint64
	for i := range 64 {
		b := ext
		if i < len(v.bits) {
			b = v.bits[i]
		}
		if b == B1 {
			u |= 1 << uint(i)
		}
	}
	if !v.signed && len(v.bits) >= 64 && u>>63 != 0 {
		return 0, false
	}
	return int64(u), true //nolint:gosec // G115: reinterpretation checked above
}

// Uint64 interprets a defined value as unsigned, failing on overflow.
func (v Value) Uint64() (uint64, bool) {
	if !v.IsDefined() {
		return 0, false
	}
	var u uint64
	for i, b := range v.bits {
		if b != B1 {
			continue
		}
		if i >= 64 {
			return 0, false
		}
		u |= 1 << uint(i)
	}
	return u, true
}

// Text decodes a string constant; non-string values are decoded the same
// way after padding to whole bytes.
func (v Value) Text() string {
	n := (len(v.bits) + 7) / 8
	out := make([]byte, 0, n)
	for i := n - 1; i >= 0; i-- {
		var c byte
		for j := range 8 {
			if v.Bit(8*i+j) == B1 {
				c |= 1 << uint(j)
			}
		}
		if c != 0 {
			out = append(out, c)
		}
	}
	return string(out)
}

// AsString marks v as a string constant. Only whole bytes qualify.
func (v Value) AsString() Value {
	if len(v.bits)%8 != 0 {
		return v
	}
	v.bits = slices.Clone(v.bits)
	v.str = true
	v.sized = true
	return v
}

// Float64 converts a defined value to a real number.
func (v Value) Float64() (float64, bool) {
	if n, ok := v.Int64(); ok && (v.signed || n >= 0) {
		return float64(n), true
	}
	if u, ok := v.Uint64(); ok {
		return float64(u), true
	}
	return 0, false
}
