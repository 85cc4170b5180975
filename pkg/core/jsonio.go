package core

import (
	"encoding/json"
	"io"

	"github.com/varalys/diffgate/internal/report"
)

// MarshalReport writes the same JSON document as `diffgate scan`.
func MarshalReport(w io.Writer, res Result) error {
	return report.WriteJSON(w, res.Findings, res.Summary)
}

// UnmarshalReport decodes a report produced by MarshalReport or the CLI.
func UnmarshalReport(r io.Reader) (report.Report, error) {
	var rep report.Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return report.Report{}, err
	}
	return rep, nil
}
