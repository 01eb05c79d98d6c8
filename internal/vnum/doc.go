// Package vnum implements the four-state vector values used for Verilog
// constants: bits are 0, 1, X or Z, stored least significant bit first.
//
// A Value is immutable. Every operation returns a new Value; the backing
// slice is never shared with callers.
//
// Besides its bits a Value carries three flags:
//
//   - sized: the literal had an explicit length (8'd3). Unsized values
//     (23, 'hff) behave as if infinitely wide for extension purposes.
//   - signed: two's complement interpretation.
//   - string: the value was written as a string literal and pads with 0.
package vnum
