package vnum

// Арифметика работает на общей ширине операндов. Любой X/Z в операндах
// делает весь результат X.

func commonWidth(a, b Value) int {
	return max(a.Len(), b.Len())
}

// bothSigned decides signed interpretation of a binary operation.
func bothSigned(a, b Value) bool { return a.signed && b.signed }

func resultFlags(a, b Value, bits []Bit) Value {
	return Value{bits: bits, sized: a.sized || b.sized, signed: bothSigned(a, b)}
}

func allX(a, b Value, width int) Value {
	out := Fill(BX, width)
	out.sized = a.sized || b.sized
	out.signed = bothSigned(a, b)
	return out
}

// operands extends both values to width with the signedness of the
// operation, not of the individual operand.
func operands(a, b Value, width int) ([]Bit, []Bit) {
	signed := bothSigned(a, b)
	return extendAs(a, width, signed), extendAs(b, width, signed)
}

func extendAs(v Value, width int, signed bool) []Bit {
	bits := make([]Bit, width)
	copy(bits, v.bits)
	pad := B0
	if signed || (!v.Msb().Defined() && v.Len() > 0) {
		pad = v.Msb()
	}
	for i := v.Len(); i < width; i++ {
		bits[i] = pad
	}
	return bits
}

func addBits(x, y []Bit, carry Bit) []Bit {
	out := make([]Bit, len(x))
	c := carry == B1
	for i := range x {
		s := 0
		if x[i] == B1 {
			s++
		}
		if y[i] == B1 {
			s++
		}
		if c {
			s++
		}
		if s&1 == 1 {
			out[i] = B1
		}
		c = s >= 2
	}
	return out
}

func invertBits(x []Bit) []Bit {
	out := make([]Bit, len(x))
	for i, b := range x {
		if b == B0 {
			out[i] = B1
		}
	}
	return out
}

// Add returns a+b at the wider operand width.
func Add(a, b Value) Value {
	w := commonWidth(a, b)
	if !a.IsDefined() || !b.IsDefined() {
		return allX(a, b, w)
	}
	x, y := operands(a, b, w)
	return resultFlags(a, b, addBits(x, y, B0))
}

// Sub returns a-b at the wider operand width.
func Sub(a, b Value) Value {
	w := commonWidth(a, b)
	if !a.IsDefined() || !b.IsDefined() {
		return allX(a, b, w)
	}
	x, y := operands(a, b, w)
	return resultFlags(a, b, addBits(x, invertBits(y), B1))
}

// Neg returns the two's complement negation of v within v.Len() bits.
func Neg(v Value) Value {
	if !v.IsDefined() {
		out := Fill(BX, v.Len())
		out.sized, out.signed = v.sized, v.signed
		return out
	}
	zero := make([]Bit, v.Len())
	return Value{bits: addBits(zero, invertBits(v.bits), B1), sized: v.sized, signed: v.signed}
}

// Mul returns a*b truncated to the wider operand width.
func Mul(a, b Value) Value {
	w := commonWidth(a, b)
	if !a.IsDefined() || !b.IsDefined() {
		return allX(a, b, w)
	}
	x, y := operands(a, b, w)
	acc := make([]Bit, w)
	for i := range w {
		if y[i] != B1 {
			continue
		}
		shifted := make([]Bit, w)
		copy(shifted[i:], x[:w-i])
		acc = addBits(acc, shifted, B0)
	}
	return resultFlags(a, b, acc)
}

// Div returns a/b. Division by zero, undefined operands and operands wider
// than 64 bits yield X.
func Div(a, b Value) Value {
	return divmod(a, b, false)
}

// Mod returns a%b with the sign of a.
func Mod(a, b Value) Value {
	return divmod(a, b, true)
}

func divmod(a, b Value, rem bool) Value {
	w := commonWidth(a, b)
	if w > 64 || !a.IsDefined() || !b.IsDefined() || b.IsZero() {
		return allX(a, b, w)
	}
	x := FromBits(extendAsValue(a, b, w), false, false)
	y := FromBits(extendAsValue(b, a, w), false, false)
	if bothSigned(a, b) {
		sx, _ := x.WithSigned(true).Int64()
		sy, _ := y.WithSigned(true).Int64()
		var r int64
		if rem {
			r = sx % sy
		} else {
			r = sx / sy
		}
		out := Int(r, w)
		out.sized = a.sized || b.sized
		return out
	}
	ux, _ := x.Uint64()
	uy, _ := y.Uint64()
	var r uint64
	if rem {
		r = ux % uy
	} else {
		r = ux / uy
	}
	out := Uint(r, w)
	out.sized = a.sized || b.sized
	return out
}

func extendAsValue(v, other Value, width int) []Bit {
	return extendAs(v, width, bothSigned(v, other))
}

// Pow returns a**b truncated to the width of a.
func Pow(a, b Value) Value {
	w := a.Len()
	if w > 64 || !a.IsDefined() || !b.IsDefined() {
		return allX(a, b, w)
	}
	signed := bothSigned(a, b)
	var base int64
	if signed {
		base, _ = a.Int64()
	} else {
		u, _ := a.Uint64()
		base = int64(u) //nolint:gosec // G115: wraps within w bits
	}
	exp, ok := b.Int64()
	if !ok {
		u, _ := b.Uint64()
		exp = int64(u >> 1) //nolint:gosec // G115: only magnitude matters below
	}
	if signed && b.IsNegative() {
		switch base {
		case 0:
			return allX(a, b, w)
		case 1:
			return powResult(a, b, 1, w)
		case -1:
			if exp%2 == 0 {
				return powResult(a, b, 1, w)
			}
			return powResult(a, b, -1, w)
		}
		return powResult(a, b, 0, w)
	}
	r := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			r *= base
		}
		base *= base
		exp >>= 1
	}
	return powResult(a, b, r, w)
}

func powResult(a, b Value, r int64, w int) Value {
	out := Int(r, w)
	out.sized = a.sized || b.sized
	out.signed = bothSigned(a, b)
	return out
}
