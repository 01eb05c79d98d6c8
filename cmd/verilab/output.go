package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"verilab/internal/diag"
	"verilab/internal/diagfmt"
	"verilab/internal/driver"
	"verilab/internal/hir"
	"verilab/internal/observ"
)

type outputFormat string

const (
	formatPretty  outputFormat = "pretty"
	formatJSON    outputFormat = "json"
	formatMsgpack outputFormat = "msgpack"
)

func readFormat(value string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case formatPretty, formatJSON, formatMsgpack:
		return f, nil
	}
	return "", errors.Errorf("unsupported format %q (must be pretty, json or msgpack)", value)
}

// resultPayload is one expression in machine-readable output.
type resultPayload struct {
	Name        string                    `json:"name"`
	Scope       string                    `json:"scope"`
	Text        string                    `json:"text"`
	Width       int                       `json:"context_width,omitempty"`
	SelfWidth   int                       `json:"self_width"`
	Unsized     bool                      `json:"unsized,omitempty"`
	Failed      bool                      `json:"failed"`
	Refs        []string                  `json:"refs,omitempty"`
	IR          *hir.Node                 `json:"ir,omitempty"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

type runPayload struct {
	Tool        string                    `json:"tool"`
	Design      string                    `json:"design"`
	CacheHit    bool                      `json:"cache_hit"`
	Options     optionsPayload            `json:"options"`
	Results     []resultPayload           `json:"results"`
	Errors      int64                     `json:"errors"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"run_diagnostics"`
}

type optionsPayload struct {
	IntegerWidth int  `json:"integer_width"`
	Specify      bool `json:"specify"`
	IcarusMisc   bool `json:"icarus_misc"`
}

func buildRunPayload(path string, run *driver.Run, cf commonFlags, timer *observ.Timer) runPayload {
	jopts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         cf.pathMode,
		Max:              cf.maxDiagnostics,
		IncludeNotes:     true,
	}
	p := runPayload{
		Tool:     "verilab",
		Design:   path,
		CacheHit: run.CacheHit,
		Options: optionsPayload{
			IntegerWidth: run.Options.IntegerWidth,
			Specify:      run.Options.SpecifyBlocks,
			IcarusMisc:   run.Options.IcarusMisc,
		},
		Results: make([]resultPayload, len(run.Results)),
		Errors:  run.ErrorCount(),
	}
	for i := range run.Results {
		res := &run.Results[i]
		p.Results[i] = resultPayload{
			Name:        res.Expr.Name,
			Scope:       res.Expr.ScopePath,
			Text:        res.Expr.Text,
			Width:       res.Expr.Width,
			SelfWidth:   res.Width,
			Unsized:     res.Unsized,
			Failed:      res.Failed(),
			Refs:        res.Refs,
			IR:          res.Node,
			Diagnostics: diagfmt.BuildDiagnosticsOutput(res.Bag, run.Files, jopts),
		}
	}
	runBag := diag.NewBag(0)
	for _, n := range run.Notices {
		runBag.Add(n)
	}
	if cf.timings {
		runBag.Add(driver.TimingDiagnostic(path, timer.Report()))
	}
	p.Diagnostics = diagfmt.BuildDiagnosticsOutput(runBag, run.Files, jopts)
	return p
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeMsgpack encodes with the json field names so both formats share
// one schema.
func writeMsgpack(w io.Writer, v any) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	return enc.Encode(v)
}

var (
	nameColor  = color.New(color.FgCyan, color.Bold)
	faintColor = color.New(color.Faint)
	okColor    = color.New(color.FgGreen)
	failColor  = color.New(color.FgRed, color.Bold)
)

// renderPretty prints every result: a header, the tree and its diagnostics.
func renderPretty(w io.Writer, run *driver.Run, cf commonFlags, tree bool) error {
	popts := diagfmt.PrettyOpts{
		Color:     colorEnabled(),
		PathMode:  cf.pathMode,
		ShowNotes: true,
		Max:       cf.maxDiagnostics,
	}
	for i := range run.Results {
		res := &run.Results[i]
		status := okColor.Sprint("ok")
		if res.Failed() {
			status = failColor.Sprint("failed")
		}
		fmt.Fprintf(w, "%s %s %s\n", nameColor.Sprint(res.Expr.Name), faintColor.Sprintf("[%s]", res.Expr.ScopePath), status)
		if !cf.quiet {
			fmt.Fprintf(w, "  %s\n", res.Expr.Text)
		}
		if tree && res.Node != nil {
			if err := hir.DumpNode(w, res.Node); err != nil {
				return err
			}
		}
		diagfmt.Pretty(w, res.Bag, run.Files, popts)
	}
	if !cf.quiet {
		summary := fmt.Sprintf("%d expressions, %d failed, %d warnings", len(run.Results), run.Stats.Failed, run.Stats.Warnings)
		if run.CacheHit {
			summary += " (cached)"
		}
		fmt.Fprintln(w, faintColor.Sprint(summary))
	}
	return nil
}

func renderRun(w io.Writer, format outputFormat, path string, run *driver.Run, cf commonFlags, timer *observ.Timer) error {
	switch format {
	case formatJSON:
		return writeJSON(w, buildRunPayload(path, run, cf, timer))
	case formatMsgpack:
		return writeMsgpack(w, buildRunPayload(path, run, cf, timer))
	}
	return renderPretty(w, run, cf, true)
}

// renderFailures writes the diagnostics of failed results to stderr and
// returns errFailed.
func renderFailures(cmd *cobra.Command, run *driver.Run, cf commonFlags) error {
	popts := diagfmt.PrettyOpts{
		Color:     colorEnabled(),
		PathMode:  cf.pathMode,
		ShowNotes: true,
		Max:       cf.maxDiagnostics,
	}
	for i := range run.Results {
		if run.Results[i].Failed() {
			diagfmt.Pretty(cmd.ErrOrStderr(), run.Results[i].Bag, run.Files, popts)
		}
	}
	return errFailed
}
