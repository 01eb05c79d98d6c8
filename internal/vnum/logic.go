package vnum

func and4(x, y Bit) Bit {
	switch {
	case x == B0 || y == B0:
		return B0
	case x == B1 && y == B1:
		return B1
	}
	return BX
}

func or4(x, y Bit) Bit {
	switch {
	case x == B1 || y == B1:
		return B1
	case x == B0 && y == B0:
		return B0
	}
	return BX
}

func xor4(x, y Bit) Bit {
	if !x.Defined() || !y.Defined() {
		return BX
	}
	if x != y {
		return B1
	}
	return B0
}

func not4(x Bit) Bit {
	switch x {
	case B0:
		return B1
	case B1:
		return B0
	}
	return BX
}

func bitwise(a, b Value, op func(x, y Bit) Bit) Value {
	w := commonWidth(a, b)
	x, y := operands(a, b, w)
	out := make([]Bit, w)
	for i := range w {
		out[i] = op(x[i], y[i])
	}
	return resultFlags(a, b, out)
}

func And(a, b Value) Value { return bitwise(a, b, and4) }
func Or(a, b Value) Value  { return bitwise(a, b, or4) }
func Xor(a, b Value) Value { return bitwise(a, b, xor4) }
func Xnor(a, b Value) Value {
	return bitwise(a, b, func(x, y Bit) Bit { return not4(xor4(x, y)) })
}
func Nand(a, b Value) Value {
	return bitwise(a, b, func(x, y Bit) Bit { return not4(and4(x, y)) })
}
func Nor(a, b Value) Value {
	return bitwise(a, b, func(x, y Bit) Bit { return not4(or4(x, y)) })
}

// Not is the bitwise complement.
func Not(v Value) Value {
	out := make([]Bit, v.Len())
	for i, b := range v.bits {
		out[i] = not4(b)
	}
	return Value{bits: out, sized: v.sized, signed: v.signed}
}

func reduce(v Value, op func(x, y Bit) Bit) Bit {
	if v.Len() == 0 {
		return BX
	}
	acc := v.bits[0]
	if !acc.Defined() {
		acc = BX
	}
	for _, b := range v.bits[1:] {
		acc = op(acc, b)
	}
	return acc
}

func ReduceAnd(v Value) Bit { return reduce(v, and4) }
func ReduceOr(v Value) Bit  { return reduce(v, or4) }
func ReduceXor(v Value) Bit { return reduce(v, xor4) }

// Truth is the logical value: 1 when any bit is 1, 0 when all are 0,
// X otherwise.
func Truth(v Value) Bit {
	return ReduceOr(v)
}

// LogicalNot folds !v.
func LogicalNot(v Value) Bit {
	return not4(Truth(v))
}

// FromBit makes a sized 1-bit unsigned value.
func FromBit(b Bit) Value {
	return Value{bits: []Bit{b}, sized: true}
}

// Shl shifts left by n. Sized values keep their length; unsized values
// grow so no bits are lost.
func Shl(v Value, n int) Value {
	w := v.Len()
	if !v.sized {
		w += n
	}
	out := make([]Bit, w)
	for i := n; i < w; i++ {
		if i-n < v.Len() {
			out[i] = v.bits[i-n]
		}
	}
	return Value{bits: out, sized: v.sized, signed: v.signed}
}

// Shr shifts right by n, filling with 0, or with the sign bit when
// arithmetic is set and v is signed.
func Shr(v Value, n int, arithmetic bool) Value {
	fill := B0
	if arithmetic && v.signed {
		fill = v.Msb()
	}
	out := make([]Bit, v.Len())
	for i := range out {
		if i+n < v.Len() {
			out[i] = v.bits[i+n]
		} else {
			out[i] = fill
		}
	}
	return Value{bits: out, sized: v.sized, signed: v.signed}
}

// ShiftX is the result of shifting by an undefined amount.
func ShiftX(v Value) Value {
	out := Fill(BX, v.Len())
	out.sized, out.signed = v.sized, v.signed
	return out
}

// Eq is the logical equality: X when either side has X/Z bits.
func Eq(a, b Value) Bit {
	if !a.IsDefined() || !b.IsDefined() {
		return BX
	}
	return boolBit(CaseEq(a, b))
}

// CaseEq compares bit patterns exactly, X and Z included.
func CaseEq(a, b Value) bool {
	w := commonWidth(a, b)
	x, y := operands(a, b, w)
	for i := range w {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Cmp compares defined values: -1, 0 or +1. ok is false for X/Z operands.
func Cmp(a, b Value) (c int, ok bool) {
	if !a.IsDefined() || !b.IsDefined() {
		return 0, false
	}
	w := commonWidth(a, b)
	x, y := operands(a, b, w)
	if w == 0 {
		return 0, true
	}
	if bothSigned(a, b) && x[w-1] != y[w-1] {
		if x[w-1] == B1 {
			return -1, true
		}
		return 1, true
	}
	for i := w - 1; i >= 0; i-- {
		if x[i] == y[i] {
			continue
		}
		if x[i] == B1 {
			return 1, true
		}
		return -1, true
	}
	return 0, true
}

// Less folds a < b.
func Less(a, b Value) Bit {
	c, ok := Cmp(a, b)
	if !ok {
		return BX
	}
	return boolBit(c < 0)
}

func boolBit(b bool) Bit {
	if b {
		return B1
	}
	return B0
}
