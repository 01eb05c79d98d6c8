package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"verilab/internal/prof"
	"verilab/internal/version"
)

// profiles is started by the root pre-run and stopped after Execute, so
// failing commands are profiled too.
var profiles *prof.Session

// errFailed is returned after errors were already rendered as diagnostics.
var errFailed = errors.New("elaboration failed")

var rootCmd = &cobra.Command{
	Use:   "verilab",
	Short: "Verilog expression elaborator",
	Long: `verilab resolves Verilog expressions against a design description,
infers their widths and signedness and prints the elaborated tree`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := applyColorFlag(cmd); err != nil {
			return err
		}
		return startProfiling(cmd)
	},
}

func main() {
	rootCmd.Version = version.Current()

	rootCmd.AddCommand(elabCmd)
	rootCmd.AddCommand(widthCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(exprCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	registerFlags(rootCmd)

	err := rootCmd.Execute()
	if stopErr := profiles.Stop(); stopErr != nil && err == nil {
		err = stopErr
	}
	if err != nil {
		if !errors.Is(err, errFailed) {
			color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "error: ")
			os.Stderr.WriteString(err.Error() + "\n")
		}
		os.Exit(1)
	}
}

func registerFlags(root *cobra.Command) {
	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per expression")
	pf.String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	pf.String("ui", "auto", "progress UI (auto|on|off)")
	pf.Int("jobs", 0, "max parallel workers (0=auto)")

	// Elaboration options; a flag that is set wins over the design file.
	pf.Int("integer-width", 32, "width of integer, genvar and default system function results")
	pf.Bool("specify", false, "resolve specparams")
	pf.Bool("icarus-misc", false, "allow real operands to %")

	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0=off)")

	pf.String("cpuprofile", "", "write a CPU profile to this file")
	pf.String("memprofile", "", "write a heap profile to this file on exit")
	pf.String("exectrace", "", "write a Go execution trace to this file")
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func applyColorFlag(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return errors.Wrap(err, "failed to get color flag")
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = color.NoColor || !isTerminal(os.Stdout)
	default:
		return errors.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

func startProfiling(cmd *cobra.Command) error {
	pf := cmd.Root().PersistentFlags()
	var cfg prof.Config
	var err error
	if cfg.CPUPath, err = pf.GetString("cpuprofile"); err != nil {
		return errors.Wrap(err, "failed to get cpuprofile flag")
	}
	if cfg.MemPath, err = pf.GetString("memprofile"); err != nil {
		return errors.Wrap(err, "failed to get memprofile flag")
	}
	if cfg.TracePath, err = pf.GetString("exectrace"); err != nil {
		return errors.Wrap(err, "failed to get exectrace flag")
	}
	if !cfg.Enabled() {
		return nil
	}
	profiles, err = prof.Start(cfg)
	return err
}
