package vnum

import (
	"strconv"
	"strings"
)

// String renders v in Verilog literal syntax: decimal when the value is
// defined and fits 64 bits, binary otherwise.
func (v Value) String() string {
	if v.str {
		return strconv.Quote(v.Text())
	}
	var b strings.Builder
	if v.IsDefined() && v.Len() <= 64 {
		if !v.sized && v.signed {
			n, _ := v.Int64()
			return strconv.FormatInt(n, 10)
		}
		if v.IsNegative() {
			b.WriteByte('-')
			v = Neg(v)
			u, _ := v.WithSigned(false).Uint64()
			v.writePrefix(&b, 'd')
			b.WriteString(strconv.FormatUint(u, 10))
			return b.String()
		}
		u, _ := v.Uint64()
		v.writePrefix(&b, 'd')
		b.WriteString(strconv.FormatUint(u, 10))
		return b.String()
	}
	v.writePrefix(&b, 'b')
	for i := v.Len() - 1; i >= 0; i-- {
		b.WriteString(v.bits[i].String())
	}
	return b.String()
}

func (v Value) writePrefix(b *strings.Builder, base byte) {
	if v.sized {
		b.WriteString(strconv.Itoa(v.Len()))
	}
	b.WriteByte('\'')
	if v.signed {
		b.WriteByte('s')
	}
	b.WriteByte(base)
}

// BinaryString lists the bits MSB first without any prefix.
func (v Value) BinaryString() string {
	var b strings.Builder
	for i := v.Len() - 1; i >= 0; i-- {
		b.WriteString(v.bits[i].String())
	}
	return b.String()
}
