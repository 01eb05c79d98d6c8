package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"verilab/internal/design"
	"verilab/internal/diag"
	"verilab/internal/diagfmt"
	"verilab/internal/driver"
	"verilab/internal/elab"
	"verilab/internal/observ"
	"verilab/internal/source"
	"verilab/internal/trace"
)

const cacheApp = "verilab"

// commonFlags are the persistent flags every elaborating command reads.
type commonFlags struct {
	quiet          bool
	timings        bool
	maxDiagnostics int
	pathMode       diagfmt.PathMode
	ui             uiMode
	jobs           int
}

func readCommonFlags(cmd *cobra.Command) (commonFlags, error) {
	pf := cmd.Root().PersistentFlags()
	var (
		cf  commonFlags
		err error
	)
	if cf.quiet, err = pf.GetBool("quiet"); err != nil {
		return cf, errors.Wrap(err, "failed to get quiet flag")
	}
	if cf.timings, err = pf.GetBool("timings"); err != nil {
		return cf, errors.Wrap(err, "failed to get timings flag")
	}
	if cf.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return cf, errors.Wrap(err, "failed to get max-diagnostics flag")
	}
	if cf.jobs, err = pf.GetInt("jobs"); err != nil {
		return cf, errors.Wrap(err, "failed to get jobs flag")
	}
	pm, err := pf.GetString("path-mode")
	if err != nil {
		return cf, errors.Wrap(err, "failed to get path-mode flag")
	}
	var ok bool
	if cf.pathMode, ok = diagfmt.ParsePathMode(pm); !ok {
		return cf, errors.Errorf("invalid --path-mode value %q", pm)
	}
	ui, err := pf.GetString("ui")
	if err != nil {
		return cf, errors.Wrap(err, "failed to get ui flag")
	}
	if cf.ui, err = readUIMode(ui); err != nil {
		return cf, err
	}
	return cf, nil
}

// overrideOptions writes the elaboration flags the user actually set into
// the design options, so they win over the file. Unset flags leave the
// file (or the defaults) alone.
func overrideOptions(cmd *cobra.Command, o *design.Options) error {
	pf := cmd.Root().PersistentFlags()
	if pf.Changed("integer-width") {
		w, err := pf.GetInt("integer-width")
		if err != nil {
			return errors.Wrap(err, "failed to get integer-width flag")
		}
		if w <= 0 {
			return errors.Errorf("--integer-width must be positive, got %d", w)
		}
		o.IntegerWidth = &w
	}
	if pf.Changed("specify") {
		v, err := pf.GetBool("specify")
		if err != nil {
			return errors.Wrap(err, "failed to get specify flag")
		}
		o.Specify = &v
	}
	if pf.Changed("icarus-misc") {
		v, err := pf.GetBool("icarus-misc")
		if err != nil {
			return errors.Wrap(err, "failed to get icarus-misc flag")
		}
		o.IcarusMisc = &v
	}
	return nil
}

// loadDesign reads path; content problems are rendered as diagnostics and
// reported as errFailed.
func loadDesign(cmd *cobra.Command, path string, cf commonFlags) (*design.Design, error) {
	d, err := design.Load(path)
	if err != nil {
		var de *design.Error
		if errors.As(err, &de) {
			renderRunDiagnostics(cmd.ErrOrStderr(), cf, de.Diagnostic())
			return nil, errFailed
		}
		return nil, err
	}
	if err := overrideOptions(cmd, &d.Options); err != nil {
		return nil, err
	}
	return d, nil
}

// renderRunDiagnostics prints diagnostics that belong to no expression.
func renderRunDiagnostics(w io.Writer, cf commonFlags, ds ...diag.Diagnostic) {
	bag := diag.NewBag(0)
	for _, d := range ds {
		bag.Add(d)
	}
	diagfmt.Pretty(w, bag, source.NewFileSet(), diagfmt.PrettyOpts{
		Color:     colorEnabled(),
		PathMode:  cf.pathMode,
		ShowNotes: true,
	})
}

type runRequest struct {
	title    string
	design   *design.Design
	fold     bool
	cache    *driver.DiskCache
	progress bool // pretty output only
}

// runDriver elaborates req under tracing and the --timings timer.
func runDriver(cmd *cobra.Command, cf commonFlags, timer *observ.Timer, req runRequest) (*driver.Run, error) {
	sess, err := setupTracing(cmd)
	if err != nil {
		return nil, err
	}
	defer sess.Close(cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := trace.Start(ctx, trace.ScopeDriver, cmd.Name())
	defer span.End("")

	opts := driver.Options{
		Elab:           elab.DefaultOptions(),
		Fold:           req.fold,
		Jobs:           cf.jobs,
		MaxDiagnostics: cf.maxDiagnostics,
		Cache:          req.cache,
	}
	var run *driver.Run
	err = timer.Track("elaborate", func() error {
		var err error
		if req.progress && !cf.quiet && shouldUseTUI(cf.ui) {
			run, err = runElabWithUI(ctx, req.title, req.design, opts)
		} else {
			run, err = driver.ElaborateAll(ctx, req.design, opts)
		}
		return err
	})
	if err != nil || (run != nil && run.Stats.Failed > 0) {
		sess.DumpRing(cmd.ErrOrStderr())
	}
	if err != nil {
		return nil, err
	}
	if len(run.Notices) > 0 && !cf.quiet {
		renderRunDiagnostics(cmd.ErrOrStderr(), cf, run.Notices...)
	}
	span.WithExtra("failed", fmt.Sprint(run.Stats.Failed))
	return run, nil
}

func openCache(cmd *cobra.Command) (*driver.DiskCache, error) {
	dir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get cache-dir flag")
	}
	if dir != "" {
		return driver.NewDiskCache(dir)
	}
	return driver.OpenDiskCache(cacheApp)
}

// colorEnabled follows --color, applied to color.NoColor before any command runs.
func colorEnabled() bool { return !color.NoColor }
