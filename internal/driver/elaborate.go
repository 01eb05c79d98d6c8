package driver

import (
	"context"
	"runtime"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"verilab/internal/ast"
	"verilab/internal/design"
	"verilab/internal/diag"
	"verilab/internal/elab"
	"verilab/internal/hir"
	"verilab/internal/parser"
	"verilab/internal/source"
	"verilab/internal/trace"
)

// Options configure ElaborateAll.
type Options struct {
	Elab           elab.Options
	Fold           bool // fold constant subtrees after elaboration
	Jobs           int  // <= 0: GOMAXPROCS
	MaxDiagnostics int  // per expression, <= 0 unlimited
	Cache          *DiskCache
	Progress       ProgressSink
}

// Result is the outcome for one design expression.
type Result struct {
	Expr    design.Expr
	File    source.FileID
	IR      *hir.Expr // nil on failure and on cache hits
	Node    *hir.Node // exported IR, set whenever elaboration succeeded
	Bag     *diag.Bag
	Width   int      // self-determined width probe
	Unsized bool     // the probe met an unsized operand
	Refs    []string // signals the IR reads, sorted
	Errors  int64
}

func (r *Result) Failed() bool { return r.Node == nil || r.Errors > 0 }

// Run holds every result in design order.
type Run struct {
	Files    *source.FileSet
	Results  []Result
	Options  elab.Options
	CacheHit bool
	Stats    Stats
	// Notices are run-level diagnostics, e.g. a cache that could not be
	// read or written. They never fail the run.
	Notices []diag.Diagnostic
}

// Stats are collected by workers while they run.
type Stats struct {
	Elaborated int64
	Failed     int64
	Warnings   int64
}

// ErrorCount sums the errors of every result.
func (r *Run) ErrorCount() int64 {
	var n int64
	for i := range r.Results {
		n += r.Results[i].Errors
	}
	return n
}

// ElaborateAll elaborates every expression of d concurrently. Each
// expression has its own syntax arena, diagnostic bag and error counter,
// so a failure in one never affects another. The returned error is for
// cancellation only; elaboration problems are diagnostics and cache
// problems are Notices.
func ElaborateAll(ctx context.Context, d *design.Design, opts Options) (*Run, error) {
	ctx, span := trace.Start(ctx, trace.ScopePass, "elaborate-all")
	defer span.End("")

	eopts := d.Options.Apply(opts.Elab)
	run := &Run{Files: source.NewFileSet(), Options: eopts, Results: make([]Result, len(d.Exprs))}

	// файлы добавляются до старта воркеров: FileID идут в порядке дизайна, кэш на это опирается
	for i, e := range d.Exprs {
		run.Results[i] = Result{
			Expr: e,
			File: run.Files.AddVirtual(d.Path+"#"+e.Name, []byte(e.Text)),
			Bag:  diag.NewBag(opts.MaxDiagnostics),
		}
		emit(opts.Progress, Event{Expr: e.Name, Stage: StageParse, Status: StatusQueued})
	}

	key := KeyFor(d.Content, eopts, opts.Fold)
	if opts.Cache != nil && len(d.Content) > 0 {
		if hit, err := loadCached(opts.Cache, key, run); err != nil {
			run.cacheNotice("read", err)
		} else if hit {
			span.WithExtra("cache", "hit")
			for i := range run.Results {
				emit(opts.Progress, Event{Expr: run.Results[i].Expr.Name, Stage: StageCache, Status: statusOf(&run.Results[i])})
			}
			return run, nil
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	el := elab.New(d.Table, eopts)

	var elaborated, failed, warnings atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(run.Results))))
	for i := range run.Results {
		res := &run.Results[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cnt := elaborateOne(gctx, el, run.Files.Get(res.File), res, opts)
			elaborated.Add(1)
			warnings.Add(cnt.Warnings())
			if res.Failed() {
				failed.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "elaborate")
	}
	run.Stats = Stats{Elaborated: elaborated.Load(), Failed: failed.Load(), Warnings: warnings.Load()}
	span.WithExtra("exprs", strconv.Itoa(len(run.Results))).WithExtra("failed", strconv.FormatInt(run.Stats.Failed, 10))

	if opts.Cache != nil && len(d.Content) > 0 {
		if err := storeCached(opts.Cache, key, d.Path, run); err != nil {
			run.cacheNotice("write", err)
		}
	}
	return run, nil
}

func elaborateOne(ctx context.Context, el *elab.Elaborator, file *source.File, res *Result, opts Options) *diag.Counter {
	start := time.Now()
	name := res.Expr.Name
	cnt := diag.NewCounter(diag.BagReporter{Bag: res.Bag})
	defer func() { res.Errors = cnt.Errors() }()

	emit(opts.Progress, Event{Expr: name, Stage: StageParse, Status: StatusWorking})
	exprs := ast.NewExprs(0)
	root, ok := parser.ParseExpr(file, exprs, parser.Options{Reporter: cnt})
	if !ok {
		emit(opts.Progress, Event{Expr: name, Stage: StageParse, Status: StatusError, Elapsed: time.Since(start)})
		return cnt
	}

	emit(opts.Progress, Event{Expr: name, Stage: StageElaborate, Status: StatusWorking})
	res.Width, res.Unsized = el.TestWidth(exprs, root, res.Expr.Scope, 0, 0)
	req := elab.Request{
		Exprs:      exprs,
		Root:       root,
		Scope:      res.Expr.Scope,
		Width:      res.Expr.Width,
		SysTaskArg: res.Expr.SysTaskArg,
	}
	out := el.Elaborate(ctx, cnt, req)
	if out != nil && opts.Fold {
		emit(opts.Progress, Event{Expr: name, Stage: StageFold, Status: StatusWorking})
		out = elab.Fold(out)
	}
	res.IR = out
	res.Node = hir.Export(out)
	res.Refs = signalRefs(out)

	status := StatusDone
	if out == nil || cnt.Errors() > 0 {
		status = StatusError
	}
	emit(opts.Progress, Event{Expr: name, Stage: StageElaborate, Status: status, Elapsed: time.Since(start)})
	return cnt
}

func statusOf(r *Result) Status {
	if r.Failed() {
		return StatusError
	}
	return StatusDone
}

func loadCached(c *DiskCache, key Digest, run *Run) (bool, error) {
	var p Payload
	ok, err := c.Get(key, &p)
	if err != nil || !ok || len(p.Results) != len(run.Results) {
		return false, err
	}
	for i, cr := range p.Results {
		if cr.Name != run.Results[i].Expr.Name {
			return false, nil
		}
	}
	for i, cr := range p.Results {
		res := &run.Results[i]
		res.Node, res.Width, res.Unsized, res.Refs = cr.Node, cr.Width, cr.Unsized, cr.Refs
		for _, dg := range cr.Diags {
			res.Bag.Add(dg)
			if dg.Severity == diag.SevError {
				res.Errors++
			}
		}
	}
	run.CacheHit = true
	for i := range run.Results {
		run.Stats.Elaborated++
		if run.Results[i].Failed() {
			run.Stats.Failed++
		}
		run.Stats.Warnings += int64(run.Results[i].Bag.Len() - run.Results[i].Bag.ErrorCount())
	}
	return true, nil
}

func storeCached(c *DiskCache, key Digest, path string, run *Run) error {
	p := &Payload{Path: path, Results: make([]CachedResult, len(run.Results))}
	for i := range run.Results {
		res := &run.Results[i]
		p.Results[i] = CachedResult{
			Name:    res.Expr.Name,
			Node:    res.Node,
			Diags:   res.Bag.Items(),
			Width:   res.Width,
			Unsized: res.Unsized,
			Refs:    res.Refs,
		}
	}
	return c.Put(key, p)
}

// signalRefs lists the distinct signals e reads. Select offsets and
// array word indices count too.
func signalRefs(e *hir.Expr) []string {
	var names []string
	hir.Inspect(e, func(n *hir.Expr) bool {
		if d, ok := n.Data.(hir.SignalData); ok && d.Signal != nil {
			names = append(names, d.Signal.Name)
		}
		return true
	})
	slices.Sort(names)
	return slices.Compact(names)
}

func (r *Run) cacheNotice(op string, err error) {
	r.Notices = append(r.Notices, diag.New(diag.SevWarning, diag.IOCacheError, source.Span{}, "cache "+op+" failed: "+err.Error()))
}
