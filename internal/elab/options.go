package elab

import "verilab/internal/vnum"

const (
	NoWidth       = 0
	SelfWidth     = -1
	LosslessWidth = -2
)

// Options tune language extensions.
type Options struct {
	// IntegerWidth is the width of integer, genvar and default system
	// function results.
	IntegerWidth int
	// SpecifyBlocks enables resolution of specparams.
	SpecifyBlocks bool
	// IcarusMisc allows real operands to %.
	IcarusMisc bool
}

func DefaultOptions() Options {
	return Options{IntegerWidth: vnum.IntegerWidth}
}

func (o Options) normalized() Options {
	if o.IntegerWidth <= 0 {
		o.IntegerWidth = vnum.IntegerWidth
	}
	return o
}
