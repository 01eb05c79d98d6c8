package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"verilab/internal/observ"
)

var widthCmd = &cobra.Command{
	Use:   "width <design> [expr...]",
	Short: "Print the self-determined width of design expressions",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWidth,
}

func runWidth(cmd *cobra.Command, args []string) error {
	cf, err := readCommonFlags(cmd)
	if err != nil {
		return err
	}
	d, err := loadDesign(cmd, args[0], cf)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		if d, err = selectExprs(d, args[1:]); err != nil {
			return err
		}
	}
	run, err := runDriver(cmd, cf, observ.NewTimer(), runRequest{design: d})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i := range run.Results {
		res := &run.Results[i]
		if res.Failed() && res.Width == 0 {
			fmt.Fprintf(out, "%s\t%s\n", res.Expr.Name, failColor.Sprint("error"))
			continue
		}
		line := fmt.Sprintf("%s\t%d", res.Expr.Name, res.Width)
		if res.Unsized {
			line += "\tunsized"
		}
		fmt.Fprintln(out, line)
	}
	if run.Stats.Failed > 0 && !cf.quiet {
		return renderFailures(cmd, run, cf)
	}
	return nil
}
