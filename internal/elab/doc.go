// Package elab lowers parsed Verilog expressions into width- and
// type-resolved hir trees.
//
// Width negotiation happens in two steps. TestWidth probes the
// self-determined width of a syntax subtree without building IR; the
// lowering pass then receives a context width and builds nodes whose
// widths, signs and domains are final. Failures are reported through a
// diag.Reporter and signalled by a nil result.
//
// Context widths use the following conventions:
//
//	> 0            width imposed by the surrounding expression
//	NoWidth (0)    no constraint
//	SelfWidth (-1) self-determined operand
//	Lossless (-2)  add/sub grow by one bit so the carry survives
package elab
