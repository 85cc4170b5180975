package report

import (
	"encoding/json"
	"io"

	"github.com/varalys/diffgate/internal/gate"
	"github.com/varalys/diffgate/internal/types"
)

// Finding is the wire form of a finding. Line is null when unresolved.
type Finding struct {
	Severity    types.Severity `json:"severity"`
	File        string         `json:"file"`
	Line        *int           `json:"line"`
	Pattern     string         `json:"pattern"`
	Description string         `json:"description"`
}

// Summary carries per-severity counts plus the gate decision.
type Summary struct {
	Critical int  `json:"critical"`
	High     int  `json:"high"`
	Medium   int  `json:"medium"`
	Low      int  `json:"low"`
	GatePass bool `json:"gate_pass"`
}

// Report is the document printed by `diffgate scan --format json`.
type Report struct {
	Findings []Finding `json:"findings"`
	Summary  Summary   `json:"summary"`
}

// Build converts findings and a gate summary into the wire report. The
// findings slice is never nil so it always encodes as an array.
func Build(findings []types.Finding, s gate.Summary) Report {
	out := Report{Findings: make([]Finding, 0, len(findings))}
	for _, f := range findings {
		wf := Finding{
			Severity:    f.Severity,
			File:        f.File,
			Pattern:     f.Rule,
			Description: f.Description,
		}
		if f.HasLine() {
			line := f.Line
			wf.Line = &line
		}
		out.Findings = append(out.Findings, wf)
	}
	out.Summary = Summary{
		Critical: s.Counts[types.SevCritical],
		High:     s.Counts[types.SevHigh],
		Medium:   s.Counts[types.SevMedium],
		Low:      s.Counts[types.SevLow],
		GatePass: s.GatePass,
	}
	return out
}

// WriteJSON writes the report indented by two spaces.
func WriteJSON(w io.Writer, findings []types.Finding, s gate.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Build(findings, s))
}
