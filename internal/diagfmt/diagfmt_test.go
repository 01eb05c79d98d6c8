package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"verilab/internal/diag"
	"verilab/internal/source"
)

func sample() (*diag.Bag, *source.FileSet) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("/work/designs/top.toml#sum", []byte("w + nosuch"))
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevError, diag.ElabUnresolvedIdentifier, source.Span{File: id, Start: 4, End: 10}, "unable to bind nosuch").
		WithNote(source.Span{File: id, Start: 0, End: 1}, "in this expression"))
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings: total 1.00 ms").
		WithNote(source.Span{}, `{"kind":"run"}`))
	return bag, fs
}

func TestPrettyUnderlinesSpan(t *testing.T) {
	bag, fs := sample()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	out := buf.String()
	for _, want := range []string{
		"top.toml#sum:1:5: ERROR ELB3001: unable to bind nosuch",
		" 1 | w + nosuch\n",
		"   |     ^~~~~~\n",
		"note: top.toml#sum:1:1: in this expression",
		"INFO OBS6001: timings",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("color codes with Color=false:\n%q", out)
	}
}

func TestPrettyPathModes(t *testing.T) {
	bag, fs := sample()
	tests := []struct {
		mode PathMode
		base string
		want string
	}{
		{PathModeAuto, "", "/work/designs/top.toml#sum:1:5"},
		{PathModeAbsolute, "", "/work/designs/top.toml#sum:1:5"},
		{PathModeRelative, "/work", "designs/top.toml#sum:1:5"},
		{PathModeBasename, "", "top.toml#sum:1:5"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, BaseDir: tt.base, Max: 1})
		if !strings.HasPrefix(buf.String(), tt.want) {
			t.Errorf("mode %d: got %q", tt.mode, buf.String())
		}
	}
	if m, ok := ParsePathMode("rel"); !ok || m != PathModeRelative {
		t.Errorf("ParsePathMode(rel) = %v %v", m, ok)
	}
}

func TestPrettyWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	text := `"日本" + zz`
	id := fs.AddVirtual("e", []byte(text))
	bag := diag.NewBag(0)
	start := uint32(strings.Index(text, "zz"))
	bag.Add(diag.New(diag.SevWarning, diag.ElabOutOfRangeSelect, source.Span{File: id, Start: start, End: start + 2}, "w"))
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 || !strings.HasSuffix(lines[2], strings.Repeat(" ", 9)+"^~") {
		t.Errorf("caret misaligned:\n%s", buf.String())
	}
}

func TestJSON(t *testing.T) {
	bag, fs := sample()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 2 {
		t.Fatalf("count = %d", out.Count)
	}
	first := out.Diagnostics[0]
	if first.Code != "ELB3001" || first.Location == nil || first.Location.StartCol != 5 || first.Notes != nil {
		t.Errorf("first: %+v", first)
	}
	timing := out.Diagnostics[1]
	if timing.Location != nil || len(timing.Notes) != 1 {
		t.Errorf("timings: %+v", timing)
	}
}
