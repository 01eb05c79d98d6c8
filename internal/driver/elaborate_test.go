package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"verilab/internal/design"
	"verilab/internal/diag"
	"verilab/internal/driver"
	"verilab/internal/elab"
)

const testDesign = `
[[scope]]
name = "top"
  [[scope.signal]]
  name = "w"
  range = [7, 0]
  [[scope.signal]]
  name = "x"
  range = [4, 0]
  [[scope.param]]
  name = "P"
  value = "8'h0f"

[[expr]]
name = "sum"
scope = "top"
text = "w + x"

[[expr]]
name = "bad"
scope = "top"
text = "nosuch + 1"

[[expr]]
name = "konst"
scope = "top"
text = "P + 8'd1"

[[expr]]
name = "syntax"
scope = "top"
text = "w +"
`

func loadDesign(t *testing.T) *design.Design {
	t.Helper()
	d, err := design.Parse("t.toml", []byte(testDesign))
	if err != nil {
		t.Fatalf("design: %v", err)
	}
	return d
}

func TestElaborateAllKeepsOrderAndIsolatesFailures(t *testing.T) {
	d := loadDesign(t)
	var mu sync.Mutex
	var events []driver.Event
	run, err := driver.ElaborateAll(context.Background(), d, driver.Options{
		Elab: elab.DefaultOptions(),
		Fold: true,
		Jobs: 3,
		Progress: driver.SinkFunc(func(ev driver.Event) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		}),
	})
	if err != nil {
		t.Fatalf("ElaborateAll: %v", err)
	}
	if len(run.Results) != 4 {
		t.Fatalf("got %d results", len(run.Results))
	}
	wantFailed := map[string]bool{"sum": false, "bad": true, "konst": false, "syntax": true}
	for i, res := range run.Results {
		if res.Expr.Index != i {
			t.Errorf("result %d holds expression %d", i, res.Expr.Index)
		}
		if res.Failed() != wantFailed[res.Expr.Name] {
			t.Errorf("%s: failed = %v, diags %v", res.Expr.Name, res.Failed(), res.Bag.Items())
		}
	}

	sum := run.Results[0]
	if sum.Node.Width != 8 || sum.Width != 8 {
		t.Errorf("sum width: node %d probe %d", sum.Node.Width, sum.Width)
	}
	if !slices.Equal(sum.Refs, []string{"w", "x"}) {
		t.Errorf("sum refs = %v", sum.Refs)
	}
	if refs := run.Results[2].Refs; len(refs) != 0 {
		t.Errorf("konst refs = %v", refs)
	}
	bad := run.Results[1]
	if bad.Bag.Items()[0].Code != diag.ElabUnresolvedIdentifier {
		t.Errorf("bad: %v", bad.Bag.Items())
	}
	if got := run.Results[2].Node; got.Kind != "Const" || got.Text != "8'd16" {
		t.Errorf("konst not folded: %+v", got)
	}
	if run.Results[3].Bag.Items()[0].Code.ID()[:3] != "SYN" {
		t.Errorf("syntax: %v", run.Results[3].Bag.Items())
	}
	if run.Stats.Elaborated != 4 || run.Stats.Failed != 2 || run.ErrorCount() < 2 {
		t.Errorf("stats %+v errors %d", run.Stats, run.ErrorCount())
	}

	done := 0
	for _, ev := range events {
		if ev.Status == driver.StatusDone || ev.Status == driver.StatusError {
			done++
		}
	}
	if done != 4 {
		t.Errorf("got %d terminal events, want 4", done)
	}
}

func TestDesignOptionsOverrideDriver(t *testing.T) {
	d, err := design.Parse("t.toml", []byte("[options]\ninteger_width = 16\n[[expr]]\ntext = \"$my_func(1)\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	run, err := driver.ElaborateAll(context.Background(), d, driver.Options{Elab: elab.DefaultOptions()})
	if err != nil {
		t.Fatal(err)
	}
	if run.Options.IntegerWidth != 16 || run.Results[0].Node.Width != 16 {
		t.Errorf("integer width not applied: %+v %+v", run.Options, run.Results[0].Node)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := driver.NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	d := loadDesign(t)
	opts := driver.Options{Elab: elab.DefaultOptions(), Cache: cache}

	first, err := driver.ElaborateAll(context.Background(), d, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Fatalf("cold cache reported a hit")
	}
	second, err := driver.ElaborateAll(context.Background(), d, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Fatalf("warm cache missed")
	}
	for i := range first.Results {
		a, b := first.Results[i], second.Results[i]
		if a.Failed() != b.Failed() || a.Width != b.Width || a.Bag.Len() != b.Bag.Len() || !slices.Equal(a.Refs, b.Refs) {
			t.Errorf("%s: cached result differs", a.Expr.Name)
		}
		if a.Node != nil && (b.Node == nil || a.Node.Kind != b.Node.Kind || a.Node.Width != b.Node.Width) {
			t.Errorf("%s: node differs", a.Expr.Name)
		}
	}

	opts.Elab.IntegerWidth = 64
	third, err := driver.ElaborateAll(context.Background(), d, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Errorf("options change still hit the cache")
	}
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
}

func TestCorruptCacheBecomesNotice(t *testing.T) {
	cache, err := driver.NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	d := loadDesign(t)
	opts := driver.Options{Elab: elab.DefaultOptions(), Cache: cache}
	if _, err := driver.ElaborateAll(context.Background(), d, opts); err != nil {
		t.Fatal(err)
	}
	files, err := filepath.Glob(filepath.Join(cache.Dir(), "runs", "*.mp"))
	if err != nil || len(files) == 0 {
		t.Fatalf("no cached run written: %v", err)
	}
	for _, f := range files {
		// 0xc1 is never used by msgpack
		if err := os.WriteFile(f, []byte{0xc1, 0xc1}, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	run, err := driver.ElaborateAll(context.Background(), d, opts)
	if err != nil {
		t.Fatalf("corrupt cache failed the run: %v", err)
	}
	if run.CacheHit {
		t.Fatalf("corrupt entry reported as a hit")
	}
	if len(run.Notices) == 0 {
		t.Fatalf("expected a cache notice")
	}
	n := run.Notices[0]
	if n.Severity != diag.SevWarning || n.Code != diag.IOCacheError {
		t.Errorf("notice = %v %v, want cache warning", n.Severity, n.Code)
	}
	if len(run.Results) != len(d.Exprs) {
		t.Errorf("results = %d, want %d", len(run.Results), len(d.Exprs))
	}
}

func TestKeyForDependsOnInputs(t *testing.T) {
	base := driver.KeyFor([]byte("a"), elab.DefaultOptions(), false)
	if base != driver.KeyFor([]byte("a"), elab.DefaultOptions(), false) {
		t.Fatalf("key is not deterministic")
	}
	if base == driver.KeyFor([]byte("b"), elab.DefaultOptions(), false) ||
		base == driver.KeyFor([]byte("a"), elab.DefaultOptions(), true) ||
		base == driver.KeyFor([]byte("a"), elab.Options{IntegerWidth: 32, IcarusMisc: true}, false) {
		t.Errorf("key ignores an input")
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := driver.ElaborateAll(ctx, loadDesign(t), driver.Options{}); err == nil {
		t.Fatalf("expected a cancellation error")
	}
}
