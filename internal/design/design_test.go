package design_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"verilab/internal/design"
	"verilab/internal/diag"
	"verilab/internal/elab"
	"verilab/internal/symbols"
)

const sampleTOML = `
[options]
integer_width = 16

[[scope]]
name = "top"
events = ["ev"]

  [[scope.signal]]
  name = "w"
  range = [7, 0]

  [[scope.signal]]
  name = "sw"
  range = [7, 0]
  signed = true

  [[scope.signal]]
  name = "mem"
  range = [7, 0]
  array = [0, 15]

  [[scope.signal]]
  name = "r"
  domain = "real"

  [[scope.param]]
  name = "P"
  value = "8'ha5"

  [[scope.param]]
  name = "N"
  value = "-2"

  [[scope.param]]
  name = "S"
  value = '"AB"'

  [[scope.param]]
  name = "RP"
  value = "2.5"

  [[scope.param]]
  name = "PR"
  value = "4'd3"
  range = [15, 8]

  [[scope.specparam]]
  name = "tdel"
  value = "7"

  [[scope.function]]
  name = "f"
  return = { range = [7, 0] }
  port = [{ name = "a", range = [3, 0] }, { name = "b" }]

  [[scope.scope]]
  name = "g"
  kind = "generate"
  genvar = { name = "k", value = 3 }

[[expr]]
name = "sum"
scope = "top"
text = "w + P"

[[expr]]
scope = "top.g"
text = "k"
width = 8
sys_arg = true
`

func TestParseTOML(t *testing.T) {
	d, err := design.Parse("d.toml", []byte(sampleTOML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tb := d.Table
	top, ok := tb.FindScope(tb.Root(), []string{"top"}, false)
	if !ok {
		t.Fatalf("no top scope")
	}
	if b := tb.Lookup(top, []string{"sw"}); b.Kind != symbols.BindSignal || !b.Signal.Signed || b.Signal.Width() != 8 {
		t.Errorf("sw: %+v", b)
	}
	if b := tb.Lookup(top, []string{"mem"}); b.Signal == nil || !b.Signal.IsArray() || b.Signal.Array.High() != 15 {
		t.Errorf("mem: %+v", b)
	}
	if b := tb.Lookup(top, []string{"ev"}); b.Kind != symbols.BindEvent {
		t.Errorf("ev: %+v", b)
	}

	params := map[string]func(p *symbols.Param) bool{
		"P":  func(p *symbols.Param) bool { v, _ := p.Value.Uint64(); return v == 0xa5 && p.Value.Len() == 8 },
		"N":  func(p *symbols.Param) bool { v, _ := p.Value.Int64(); return v == -2 && !p.Value.Sized() },
		"S":  func(p *symbols.Param) bool { return p.Value.IsString() && p.Value.Len() == 16 },
		"RP": func(p *symbols.Param) bool { return p.IsReal && p.Real == 2.5 },
		"PR": func(p *symbols.Param) bool { return p.Range != nil && p.Value.Len() == 8 },
	}
	for name, check := range params {
		b := tb.Lookup(top, []string{name})
		if b.Kind != symbols.BindParam || !check(b.Param) {
			t.Errorf("param %s: %+v", name, b.Param)
		}
	}
	if sp, ok := tb.Specparam(top, "tdel"); !ok || sp.Int != 7 {
		t.Errorf("specparam: %+v", sp)
	}
	fn := tb.FindFunction(top, []string{"f"})
	if fn == nil || fn.Return == nil || len(fn.Ports) != 2 || fn.Ports[0].Width() != 4 {
		t.Fatalf("function f: %+v", fn)
	}

	if len(d.Exprs) != 2 {
		t.Fatalf("got %d exprs", len(d.Exprs))
	}
	second := d.Exprs[1]
	if second.Name != "expr2" || second.ScopePath != "top.g" || second.Width != 8 || !second.SysTaskArg {
		t.Errorf("second expr: %+v", second)
	}
	if g, ok := tb.Genvar(second.Scope); !ok || g.Value != 3 {
		t.Errorf("genvar: %+v", g)
	}
	if _, ok := d.Find("sum"); !ok {
		t.Errorf("Find(sum) failed")
	}

	opts := d.Options.Apply(elab.DefaultOptions())
	if opts.IntegerWidth != 16 || opts.SpecifyBlocks {
		t.Errorf("options: %+v", opts)
	}
	if d.Options.Specify != nil {
		t.Errorf("specify reported as set")
	}
}

const sampleYAML = `
options:
  specify: true
scope:
  - name: top
    signal:
      - {name: w, range: [7, 0]}
    specparam:
      - {name: tr, value: "1.5"}
expr:
  - {name: e, scope: top, text: "w[3:0]"}
`

func TestParseYAML(t *testing.T) {
	d, err := design.Parse("d.yml", []byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	opts := d.Options.Apply(elab.Options{IntegerWidth: 32, IcarusMisc: true})
	if !opts.SpecifyBlocks || !opts.IcarusMisc || opts.IntegerWidth != 32 {
		t.Errorf("options: %+v", opts)
	}
	if d.Options.IntegerWidth != nil {
		t.Errorf("integer_width reported as set")
	}
	e, ok := d.Find("e")
	if !ok {
		t.Fatalf("no expression e")
	}
	if sp, ok := d.Table.Specparam(e.Scope, "tr"); !ok || !sp.IsReal || sp.Real != 1.5 {
		t.Errorf("specparam: %+v", sp)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, path, text string
		code             diag.Code
	}{
		{"format", "d.json", "{}", diag.DsnUnsupportedInput},
		{"syntax", "d.toml", "[[scope]\n", diag.DsnInvalid},
		{"unknown toml key", "d.toml", "[[scope]]\nname = \"top\"\ncolour = 1\n", diag.DsnInvalid},
		{"unknown yaml key", "d.yaml", "scope:\n  - name: top\n    colour: 1\n", diag.DsnInvalid},
		{"duplicate signal", "d.toml", "[[scope]]\nname = \"t\"\n[[scope.signal]]\nname = \"a\"\n[[scope.signal]]\nname = \"a\"\n", diag.DsnDuplicateName},
		{"duplicate scope", "d.toml", "[[scope]]\nname = \"t\"\n[[scope]]\nname = \"t\"\n", diag.DsnDuplicateName},
		{"bad domain", "d.toml", "[[scope]]\nname = \"t\"\n[[scope.signal]]\nname = \"a\"\ndomain = \"float\"\n", diag.DsnUnknownDomain},
		{"bad param", "d.toml", "[[scope]]\nname = \"t\"\n[[scope.param]]\nname = \"p\"\nvalue = \"8'q1\"\n", diag.DsnBadParamValue},
		{"bad range", "d.toml", "[[scope]]\nname = \"t\"\n[[scope.signal]]\nname = \"a\"\nrange = [1]\n", diag.DsnInvalid},
		{"unknown scope", "d.toml", "[[expr]]\nscope = \"nope\"\ntext = \"1\"\n", diag.DsnUnknownScope},
		{"empty expr", "d.toml", "[[expr]]\nname = \"e\"\ntext = \" \"\n", diag.DsnInvalid},
		{"duplicate expr", "d.toml", "[[expr]]\nname = \"e\"\ntext = \"1\"\n[[expr]]\nname = \"e\"\ntext = \"2\"\n", diag.DsnDuplicateName},
		{"stray genvar", "d.toml", "[[scope]]\nname = \"t\"\ngenvar = { name = \"k\", value = 1 }\n", diag.DsnInvalid},
	}
	for _, tt := range tests {
		_, err := design.Parse(tt.path, []byte(tt.text))
		var de *design.Error
		if !errors.As(err, &de) {
			t.Errorf("%s: expected *design.Error, got %v", tt.name, err)
			continue
		}
		if de.Code != tt.code {
			t.Errorf("%s: code %s, want %s (%s)", tt.name, de.Code.ID(), tt.code.ID(), de.Msg)
		}
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "top.toml")
	if err := os.WriteFile(path, []byte(sampleTOML), 0o600); err != nil {
		t.Fatal(err)
	}
	d, err := design.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(d.Content) != sampleTOML || d.Path != path {
		t.Errorf("content or path not kept")
	}
	if _, err := design.Load(filepath.Join(dir, "missing.toml")); err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
}

func TestSingle(t *testing.T) {
	d, err := design.Parse("d.toml", []byte(sampleTOML))
	if err != nil {
		t.Fatal(err)
	}
	one, err := design.Single(d, "w + 1", "top.g", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(one.Exprs) != 1 || one.Exprs[0].ScopePath != "top.g" || one.Content != nil {
		t.Fatalf("single = %+v", one.Exprs)
	}
	if one.Options.IntegerWidth == nil || *one.Options.IntegerWidth != 16 {
		t.Fatal("options of the base design must carry over")
	}

	bare, err := design.Single(nil, "1 + 2", "", 8)
	if err != nil {
		t.Fatal(err)
	}
	if bare.Exprs[0].ScopePath != "$root" || bare.Exprs[0].Width != 8 {
		t.Fatalf("bare = %+v", bare.Exprs[0])
	}

	var de *design.Error
	if _, err := design.Single(d, "1", "top.nope", 0); !errors.As(err, &de) || de.Code != diag.DsnUnknownScope {
		t.Fatalf("unknown scope err = %v", err)
	}
	if _, err := design.Single(nil, "  ", "", 0); !errors.As(err, &de) || de.Code != diag.DsnInvalid {
		t.Fatalf("empty text err = %v", err)
	}
	if dg := de.Diagnostic(); dg.Severity != diag.SevError || dg.Code != diag.DsnInvalid {
		t.Fatalf("diagnostic = %+v", dg)
	}
}
