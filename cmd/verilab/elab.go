package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"verilab/internal/design"
	"verilab/internal/driver"
	"verilab/internal/observ"
)

var elabCmd = &cobra.Command{
	Use:   "elab [flags] <design.toml|design.yaml> [expr...]",
	Short: "Elaborate the expressions of a design description",
	Long: `Elaborate every expression listed in a design description, or only
the named ones, and print the elaborated trees with their diagnostics`,
	Args: cobra.MinimumNArgs(1),
	RunE: runElab,
}

func init() {
	elabCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	elabCmd.Flags().Bool("fold", false, "fold constant subtrees after elaboration")
	elabCmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
	elabCmd.Flags().String("cache-dir", "", "result cache directory (default: user cache dir)")
}

func runElab(cmd *cobra.Command, args []string) error {
	cf, err := readCommonFlags(cmd)
	if err != nil {
		return err
	}
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return errors.Wrap(err, "failed to get format flag")
	}
	format, err := readFormat(formatStr)
	if err != nil {
		return err
	}
	fold, err := cmd.Flags().GetBool("fold")
	if err != nil {
		return errors.Wrap(err, "failed to get fold flag")
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return errors.Wrap(err, "failed to get no-cache flag")
	}

	timer := observ.NewTimer()
	var d *design.Design
	if err := timer.Track("load", func() error {
		var err error
		d, err = loadDesign(cmd, args[0], cf)
		return err
	}); err != nil {
		return err
	}
	if len(args) > 1 {
		if d, err = selectExprs(d, args[1:]); err != nil {
			return err
		}
	}

	var cache *driver.DiskCache
	if !noCache {
		if cache, err = openCache(cmd); err != nil {
			return err
		}
	}
	run, err := runDriver(cmd, cf, timer, runRequest{
		title:    "elaborating " + d.Path,
		design:   d,
		fold:     fold,
		cache:    cache,
		progress: format == formatPretty,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := timer.Track("render", func() error {
		return renderRun(out, format, d.Path, run, cf, timer)
	}); err != nil {
		return err
	}
	if cf.timings && format == formatPretty {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if run.Stats.Failed > 0 {
		return errFailed
	}
	return nil
}

// selectExprs keeps only the named expressions, in the order given. The
// result has no Content: a partial run is never cached.
func selectExprs(d *design.Design, names []string) (*design.Design, error) {
	sub := *d
	sub.Content = nil
	sub.Exprs = make([]design.Expr, 0, len(names))
	for _, name := range names {
		e, ok := d.Find(name)
		if !ok {
			return nil, errors.Errorf("%s: no expression named %q", d.Path, name)
		}
		sub.Exprs = append(sub.Exprs, e)
	}
	return &sub, nil
}
