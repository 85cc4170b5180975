// Package core is a small, stable facade over diffgate's internal engine for
// programs that embed the gate instead of shelling out to the CLI.
//
// Example:
//
//	res, err := core.ScanDiff(ctx, diffText, core.Options{FailOn: "high"})
//	if err != nil { /* handle */ }
//	_ = core.MarshalReport(os.Stdout, res)
//	if !res.Summary.GatePass { os.Exit(1) }
package core
