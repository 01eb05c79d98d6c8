package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"verilab/internal/hir"
	"verilab/internal/observ"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <design> <expr>",
	Short: "Dump the elaborated tree of one expression",
	Long:  `Print every node of an elaborated expression with its width, signedness and domain`,
	Args:  cobra.ExactArgs(2),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().Bool("fold", false, "fold constant subtrees after elaboration")
}

func runDump(cmd *cobra.Command, args []string) error {
	cf, err := readCommonFlags(cmd)
	if err != nil {
		return err
	}
	fold, err := cmd.Flags().GetBool("fold")
	if err != nil {
		return errors.Wrap(err, "failed to get fold flag")
	}
	d, err := loadDesign(cmd, args[0], cf)
	if err != nil {
		return err
	}
	if d, err = selectExprs(d, args[1:]); err != nil {
		return err
	}
	run, err := runDriver(cmd, cf, observ.NewTimer(), runRequest{design: d, fold: fold})
	if err != nil {
		return err
	}
	res := &run.Results[0]
	if res.IR != nil {
		if err := hir.Dump(cmd.OutOrStdout(), res.IR); err != nil {
			return err
		}
	}
	if res.Failed() {
		return renderFailures(cmd, run, cf)
	}
	return nil
}
