package fuzztests

import (
	"path/filepath"
	"testing"

	"verilab/internal/design"
)

const (
	maxSeedBytes = 4 << 10  // 4 KiB, выражения короткие
	maxFuzzInput = 1 << 14 // 16 KiB
)

// languageSeeds cover every expression form the parser knows.
var languageSeeds = []string{
	"",
	"a + b",
	"a - b * c / d % e ** 2",
	"sa >>> 2 | a << 1",
	"a == b && c != d || !e",
	"a === 8'bx1z0 ? b : c",
	"{a, b, {2{c}}}",
	"{0{a}}",
	"{}",
	"w[7:0] + mem[3][i+:4] - top.u1.q[j-:2]",
	"f(a, , b)",
	"$signed(x) + $unsigned(sa)",
	"$bits(mem) + $clog2(W) + $time",
	"-4'sd3 + 'sh7f + 'b1",
	"1.5e3 * r + 2.0",
	"\"AB\" == S",
	"~&w ^ ~|x ~^ w",
	"((((a))))",
	"a ? b ? c : d : e",
	"8'hzz + 16'd65535",
	"32'hffff_ffff * 32'hffff_ffff",
	"1 << 100",
	"w[-1]",
	"m[",
	"a +* b",
	"4'd",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addDesignSeeds(f)
}

// addDesignSeeds adds the expressions of the bundled example designs.
func addDesignSeeds(f *testing.F) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.toml"))
	if err != nil {
		return
	}
	yamls, _ := filepath.Glob(filepath.Join("..", "..", "examples", "*.yaml"))
	for _, p := range append(paths, yamls...) {
		d, err := design.Load(p)
		if err != nil {
			continue
		}
		for _, e := range d.Exprs {
			f.Add(clampSeed([]byte(e.Text)))
		}
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
