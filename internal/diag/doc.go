// Package diag defines the diagnostic model shared by the front-end, the
// design loader and the elaborator.
//
// Producers never print. They emit through a Reporter, usually via the
// ReportBuilder helpers:
//
//	diag.ReportError(r, diag.ElabOutOfOrderRange, span, "part select w[0:7] is out of order").
//		WithNote(declSpan, "declared here").
//		Emit()
//
// BagReporter stores diagnostics in a Bag, Counter counts error-severity
// reports on their way to another Reporter, DedupReporter drops repeats.
// Rendering lives in internal/diagfmt.
package diag
