package vnum

// padBit is the bit an extension fills with: the sign bit for signed
// values, X/Z when the MSB is X/Z, otherwise 0.
func (v Value) padBit() Bit {
	if v.str || len(v.bits) == 0 {
		return B0
	}
	msb := v.Msb()
	if v.signed || !msb.Defined() {
		return msb
	}
	return B0
}

// Extend widens v to width bits, keeping its flags. It never truncates.
func (v Value) Extend(width int) Value {
	if width <= len(v.bits) {
		return v.WithSized(v.sized)
	}
	pad := v.padBit()
	bits := make([]Bit, width)
	copy(bits, v.bits)
	for i := len(v.bits); i < width; i++ {
		bits[i] = pad
	}
	return Value{bits: bits, sized: v.sized, signed: v.signed, str: v.str}
}

// Resize truncates or extends v to exactly width bits. The result is sized.
func (v Value) Resize(width int) Value {
	if width >= len(v.bits) {
		out := v.Extend(width)
		out.sized = true
		return out
	}
	bits := make([]Bit, width)
	copy(bits, v.bits[:width])
	return Value{bits: bits, sized: true, signed: v.signed, str: v.str}
}

// Slice extracts width bits starting at lsb. Bits outside v read as X.
func (v Value) Slice(lsb, width int) Value {
	bits := make([]Bit, width)
	for i := range width {
		bits[i] = v.Bit(lsb + i)
	}
	return Value{bits: bits, sized: true}
}

// Concat joins values most significant first. The result is sized and
// unsigned.
func Concat(parts ...Value) Value {
	n := 0
	for _, p := range parts {
		n += p.Len()
	}
	bits := make([]Bit, 0, n)
	for i := len(parts) - 1; i >= 0; i-- {
		bits = append(bits, parts[i].bits...)
	}
	return Value{bits: bits, sized: true}
}

// Repeat concatenates count copies of v.
func Repeat(v Value, count int) Value {
	parts := make([]Value, count)
	for i := range parts {
		parts[i] = v
	}
	return Concat(parts...)
}
