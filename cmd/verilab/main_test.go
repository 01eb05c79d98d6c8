package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"verilab/internal/design"
)

const cliDesign = `
[[scope]]
name = "top"
  [[scope.signal]]
  name = "w"
  range = [7, 0]
  [[scope.signal]]
  name = "x"
  range = [4, 0]

[[expr]]
name = "sum"
scope = "top"
text = "w + x"

[[expr]]
name = "bad"
scope = "top"
text = "nosuch + 1"
`

func writeDesign(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "top.toml")
	if err := os.WriteFile(path, []byte(cliDesign), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs args against a fresh root; subcommand flags keep their
// values between runs, so every test passes the ones it relies on.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	root := &cobra.Command{Use: "verilab", SilenceUsage: true, SilenceErrors: true}
	registerFlags(root)
	root.AddCommand(elabCmd, widthCmd, dumpCmd, exprCmd, versionCmd)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--ui", "off"}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{" ON ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
	if shouldUseTUI(uiModeOff) || !shouldUseTUI(uiModeOn) {
		t.Fatal("explicit ui modes must be honored")
	}
}

func TestReadFormat(t *testing.T) {
	for _, in := range []string{"pretty", "JSON", " msgpack "} {
		if _, err := readFormat(in); err != nil {
			t.Errorf("readFormat(%q): %v", in, err)
		}
	}
	if _, err := readFormat("sarif"); err == nil {
		t.Fatal("sarif must be rejected")
	}
}

func TestOverrideOptionsOnlyChangedFlags(t *testing.T) {
	root := &cobra.Command{Use: "t"}
	registerFlags(root)
	if err := root.PersistentFlags().Set("integer-width", "16"); err != nil {
		t.Fatal(err)
	}
	fileWidth, fileSpecify := 8, true
	o := design.Options{IntegerWidth: &fileWidth, Specify: &fileSpecify}
	if err := overrideOptions(root, &o); err != nil {
		t.Fatal(err)
	}
	if *o.IntegerWidth != 16 {
		t.Fatalf("integer width = %d, want the flag value", *o.IntegerWidth)
	}
	if !*o.Specify || o.IcarusMisc != nil {
		t.Fatal("unset flags must leave the file options alone")
	}

	if err := root.PersistentFlags().Set("integer-width", "-1"); err != nil {
		t.Fatal(err)
	}
	if err := overrideOptions(root, &o); err == nil {
		t.Fatal("negative integer width must be rejected")
	}
}

func TestSelectExprs(t *testing.T) {
	d, err := design.Parse("top.toml", []byte(cliDesign))
	if err != nil {
		t.Fatal(err)
	}
	sub, err := selectExprs(d, []string{"bad", "sum"})
	if err != nil {
		t.Fatal(err)
	}
	if len(sub.Exprs) != 2 || sub.Exprs[0].Name != "bad" || sub.Content != nil {
		t.Fatalf("selected = %+v", sub.Exprs)
	}
	if len(d.Exprs) != 2 || d.Content == nil {
		t.Fatal("selection must not modify the design")
	}
	if _, err := selectExprs(d, []string{"missing"}); err == nil {
		t.Fatal("unknown expression must fail")
	}
}

func TestElabJSON(t *testing.T) {
	path := writeDesign(t)
	out, _, err := execute(t, "elab", "--no-cache", "--fold=false", "--format", "json", path)
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v, want errFailed", err)
	}
	var p runPayload
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if p.Tool != "verilab" || p.CacheHit || len(p.Results) != 2 || p.Errors == 0 {
		t.Fatalf("payload = %+v", p)
	}
	sum, bad := p.Results[0], p.Results[1]
	if sum.Failed || sum.SelfWidth != 8 || sum.IR == nil || sum.IR.Kind != "Binary" {
		t.Fatalf("sum = %+v", sum)
	}
	if !bad.Failed || bad.Diagnostics.Count == 0 {
		t.Fatalf("bad = %+v", bad)
	}
	if p.Options.IntegerWidth != 32 {
		t.Fatalf("integer width = %d", p.Options.IntegerWidth)
	}
}

func TestElabPrettySelected(t *testing.T) {
	path := writeDesign(t)
	out, _, err := execute(t, "elab", "--no-cache", "--fold=false", "--format", "pretty", path, "sum")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"sum [top] ok", "Binary w=8", "1 expressions, 0 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestWidthCommand(t *testing.T) {
	path := writeDesign(t)
	out, errOut, err := execute(t, "width", path)
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(out, "sum\t8\n") {
		t.Fatalf("width output:\n%s", out)
	}
	if !strings.Contains(errOut, "nosuch") {
		t.Fatalf("failure diagnostics missing:\n%s", errOut)
	}
}

func TestDumpCommand(t *testing.T) {
	path := writeDesign(t)
	out, _, err := execute(t, "dump", "--fold=false", path, "sum")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "Binary w=8") || !strings.Contains(out, "Signal w=8") {
		t.Fatalf("dump:\n%s", out)
	}
	if _, _, err := execute(t, "dump", path, "missing"); err == nil {
		t.Fatal("unknown expression must fail")
	}
}

func TestExprCommand(t *testing.T) {
	path := writeDesign(t)
	out, _, err := execute(t, "expr", "--design", path, "--scope", "top", "--width", "16", "--fold=false", "--format", "pretty", "w + x")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Binary w=16") {
		t.Fatalf("expr output:\n%s", out)
	}

	_, _, err = execute(t, "expr", "--design", "", "--scope", "nope", "--width", "0", "--format", "pretty", "1")
	if !errors.Is(err, errFailed) {
		t.Fatalf("unknown scope err = %v", err)
	}
}

func TestVersionJSON(t *testing.T) {
	info := versionInfo{Version: "1.2.3", BuildDate: "2026-01-02"}
	p := versionJSON(info, versionOptions{showHash: true, showDate: true})
	if p.Tool != "verilab" || p.GitCommit != "unknown" || p.BuildDate != "2026-01-02" || p.GitMessage != "" {
		t.Fatalf("payload = %+v", p)
	}
}
