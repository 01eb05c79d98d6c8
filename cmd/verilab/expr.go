package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"verilab/internal/design"
	"verilab/internal/diagfmt"
	"verilab/internal/hir"
	"verilab/internal/observ"
)

var exprCmd = &cobra.Command{
	Use:   "expr [flags] '<expression>'",
	Short: "Elaborate one expression given on the command line",
	Long: `Elaborate a single expression. Identifiers resolve against --design
when given; without it only literals and system functions are known`,
	Example: `  verilab expr "8'd200 + 8'd100"
  verilab expr --design top.toml --scope top --width 16 "a + b"`,
	Args: cobra.ExactArgs(1),
	RunE: runExpr,
}

func init() {
	exprCmd.Flags().String("design", "", "design description to resolve names against")
	exprCmd.Flags().String("scope", "", "dotted scope the expression lives in")
	exprCmd.Flags().Int("width", 0, "context width (0 = self-determined)")
	exprCmd.Flags().Bool("fold", false, "fold constant subtrees after elaboration")
	exprCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
}

func runExpr(cmd *cobra.Command, args []string) error {
	cf, err := readCommonFlags(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	designPath, err := flags.GetString("design")
	if err != nil {
		return errors.Wrap(err, "failed to get design flag")
	}
	scope, err := flags.GetString("scope")
	if err != nil {
		return errors.Wrap(err, "failed to get scope flag")
	}
	width, err := flags.GetInt("width")
	if err != nil {
		return errors.Wrap(err, "failed to get width flag")
	}
	fold, err := flags.GetBool("fold")
	if err != nil {
		return errors.Wrap(err, "failed to get fold flag")
	}
	formatStr, err := flags.GetString("format")
	if err != nil {
		return errors.Wrap(err, "failed to get format flag")
	}
	format, err := readFormat(formatStr)
	if err != nil {
		return err
	}

	var base *design.Design
	if designPath != "" {
		if base, err = loadDesign(cmd, designPath, cf); err != nil {
			return err
		}
	}
	d, err := design.Single(base, args[0], scope, width)
	if err != nil {
		var de *design.Error
		if errors.As(err, &de) {
			renderRunDiagnostics(cmd.ErrOrStderr(), cf, de.Diagnostic())
			return errFailed
		}
		return err
	}
	if base == nil {
		if err := overrideOptions(cmd, &d.Options); err != nil {
			return err
		}
	}

	timer := observ.NewTimer()
	run, err := runDriver(cmd, cf, timer, runRequest{design: d, fold: fold})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	res := &run.Results[0]
	if format != formatPretty {
		if err := renderRun(out, format, d.Path, run, cf, timer); err != nil {
			return err
		}
		if res.Failed() {
			return errFailed
		}
		return nil
	}

	if res.IR != nil {
		fmt.Fprintln(out, hir.Format(res.IR))
		if !cf.quiet {
			if err := hir.Dump(out, res.IR); err != nil {
				return err
			}
		}
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, run.Files, diagfmt.PrettyOpts{
		Color:     colorEnabled(),
		PathMode:  cf.pathMode,
		ShowNotes: true,
		Max:       cf.maxDiagnostics,
	})
	if res.Failed() {
		return errFailed
	}
	return nil
}
