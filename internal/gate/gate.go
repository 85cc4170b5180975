// Package gate turns a scan result into a pass/fail decision for CI.
package gate

import (
	"fmt"

	"github.com/varalys/diffgate/internal/scanner"
	"github.com/varalys/diffgate/internal/types"
)

// Policy decides which severities block. The zero value blocks on CRITICAL only.
type Policy struct {
	// FailOn is the lowest severity that blocks; empty means CRITICAL.
	FailOn types.Severity
}

// DefaultPolicy blocks only on CRITICAL findings.
func DefaultPolicy() Policy { return Policy{FailOn: types.SevCritical} }

// ParsePolicy reads a fail-on threshold such as "critical" or "high".
func ParsePolicy(failOn string) (Policy, error) {
	if failOn == "" {
		return DefaultPolicy(), nil
	}
	sev, err := types.ParseSeverity(failOn)
	if err != nil {
		return Policy{}, fmt.Errorf("fail-on: %w", err)
	}
	return Policy{FailOn: sev}, nil
}

func (p Policy) threshold() types.Severity {
	if p.FailOn.Rank() == 0 {
		return types.SevCritical
	}
	return p.FailOn
}

// Blocks reports whether findings of severity s fail the gate.
func (p Policy) Blocks(s types.Severity) bool {
	return s.Rank() >= p.threshold().Rank()
}

// Summary is the aggregated outcome of a scan.
type Summary struct {
	Counts   types.Counts
	GatePass bool
	// Blocking is the number of findings at or above the policy threshold.
	Blocking int
	FailOn   types.Severity
}

// Summarize counts findings by severity and decides the gate. With the default
// policy GatePass is false exactly when there is at least one CRITICAL finding.
func Summarize(res scanner.Result, p Policy) Summary {
	counts := types.NewCounts()
	for s, n := range res.Counts {
		counts[s] = n
	}
	blocking := 0
	for s, n := range counts {
		if p.Blocks(s) {
			blocking += n
		}
	}
	return Summary{Counts: counts, GatePass: blocking == 0, Blocking: blocking, FailOn: p.threshold()}
}

// ExitCode maps the gate to a process status: 0 on pass, 1 on failure.
func ExitCode(s Summary) int {
	if s.GatePass {
		return 0
	}
	return 1
}

// FailureMessage is the stderr banner printed when the gate fails.
func FailureMessage(s Summary) string {
	if s.GatePass {
		return ""
	}
	if s.FailOn == types.SevCritical {
		return fmt.Sprintf("SECURITY GATE FAILED: %d CRITICAL finding(s) detected.\nResolve all CRITICAL findings before merging.", s.Blocking)
	}
	return fmt.Sprintf("SECURITY GATE FAILED: %d finding(s) at or above %s detected.\nResolve them before merging.", s.Blocking, s.FailOn)
}
