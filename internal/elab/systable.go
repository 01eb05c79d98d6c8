package elab

import "verilab/internal/vnum"

// SysFunc describes the result of a system function.
type SysFunc struct {
	Width  int
	Domain vnum.Domain
	Signed bool
}

// sysFuncs lists the functions whose result differs from the default
// unsigned integer-width logic value. A zero Width means the integer
// width.
var sysFuncs = map[string]SysFunc{
	"$time":          {Width: 64, Domain: vnum.DomainLogic},
	"$stime":         {Width: 32, Domain: vnum.DomainLogic},
	"$simtime":       {Width: 64, Domain: vnum.DomainLogic},
	"$realtime":      {Width: 1, Domain: vnum.DomainReal, Signed: true},
	"$random":        {Width: 32, Domain: vnum.DomainLogic, Signed: true},
	"$urandom":       {Width: 32, Domain: vnum.DomainLogic},
	"$rtoi":          {Width: 32, Domain: vnum.DomainLogic, Signed: true},
	"$itor":          {Width: 1, Domain: vnum.DomainReal, Signed: true},
	"$realtobits":    {Width: 64, Domain: vnum.DomainLogic},
	"$bitstoreal":    {Width: 1, Domain: vnum.DomainReal, Signed: true},
	"$clog2":         {Width: 32, Domain: vnum.DomainLogic, Signed: true},
	"$countones":     {Width: 32, Domain: vnum.DomainLogic, Signed: true},
	"$onehot":        {Width: 1, Domain: vnum.DomainLogic},
	"$onehot0":       {Width: 1, Domain: vnum.DomainLogic},
	"$isunknown":     {Width: 1, Domain: vnum.DomainLogic},
	"$fopen":         {Width: 32, Domain: vnum.DomainLogic, Signed: true},
	"$feof":          {Width: 32, Domain: vnum.DomainLogic, Signed: true},
	"$fgetc":         {Width: 32, Domain: vnum.DomainLogic, Signed: true},
	"$test$plusargs": {Width: 32, Domain: vnum.DomainLogic},
	"$sqrt":          {Width: 1, Domain: vnum.DomainReal, Signed: true},
	"$ln":            {Width: 1, Domain: vnum.DomainReal, Signed: true},
	"$log10":         {Width: 1, Domain: vnum.DomainReal, Signed: true},
	"$exp":           {Width: 1, Domain: vnum.DomainReal, Signed: true},
	"$pow":           {Width: 1, Domain: vnum.DomainReal, Signed: true},
	"$bits":          {Width: 32, Domain: vnum.DomainBool},
	"$sizeof":        {Width: 32, Domain: vnum.DomainBool},
	"$is_signed":     {Width: 1, Domain: vnum.DomainBool},
}

// LookupSysFunc returns the result description of a system function.
// Unknown names produce an unsigned logic value of the integer width.
func LookupSysFunc(name string, opts Options) SysFunc {
	return lookupSysFunc(name, opts.normalized())
}

func lookupSysFunc(name string, opts Options) SysFunc {
	if f, ok := sysFuncs[name]; ok {
		if f.Width == 0 {
			f.Width = opts.IntegerWidth
		}
		return f
	}
	return SysFunc{Width: opts.IntegerWidth, Domain: vnum.DomainLogic}
}
