package driver

import (
	"encoding/json"
	"fmt"

	"verilab/internal/diag"
	"verilab/internal/observ"
	"verilab/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// TimingDiagnostic packs a timer report into an info diagnostic whose
// note carries the JSON form, for --timings with JSON output.
func TimingDiagnostic(path string, rep observ.Report) diag.Diagnostic {
	payload := timingPayload{Kind: "run", Path: path, TotalMS: rep.TotalMS, Phases: rep.Phases}
	msg := fmt.Sprintf("timings: total %.2f ms", payload.TotalMS)
	if path != "" {
		msg += " (" + path + ")"
	}
	d := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg)
	if data, err := json.Marshal(payload); err == nil {
		d = d.WithNote(source.Span{}, string(data))
	}
	return d
}
