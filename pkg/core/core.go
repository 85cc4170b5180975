package core

import (
	"context"

	"github.com/varalys/diffgate/internal/commitmsg"
	"github.com/varalys/diffgate/internal/engine"
	"github.com/varalys/diffgate/internal/gate"
	"github.com/varalys/diffgate/internal/rules"
	"github.com/varalys/diffgate/internal/scanner"
	"github.com/varalys/diffgate/internal/types"
)

// Re-exported so callers depend on this path rather than internal packages.
type (
	Finding        = types.Finding
	Severity       = types.Severity
	Summary        = gate.Summary
	RuleDefinition = rules.Definition
	CommitQuality  = commitmsg.Quality
	CommitVerdict  = commitmsg.Verdict
)

// Options selects rules and the gate threshold. The zero value runs every
// built-in rule and blocks on CRITICAL only.
type Options struct {
	FailOn       string
	EnableRules  string
	DisableRules string
	CustomRules  []RuleDefinition
	Strict       bool
	ExcludeGlobs string
}

// Result is one scanned diff with its gate decision.
type Result struct {
	Findings []Finding
	Summary  Summary
}

// ScanDiff scans the lines a unified diff adds.
func ScanDiff(ctx context.Context, diffText string, opts Options) (Result, error) {
	policy, err := gate.ParsePolicy(opts.FailOn)
	if err != nil {
		return Result{}, err
	}
	res, err := engine.Run(ctx, engine.Config{
		Input:        diffText,
		EnableRules:  opts.EnableRules,
		DisableRules: opts.DisableRules,
		CustomRules:  opts.CustomRules,
		Strict:       opts.Strict,
		ExcludeGlobs: opts.ExcludeGlobs,
		Policy:       policy,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Findings: res.Findings, Summary: res.Summary}, nil
}

// Summarize applies a fail-on threshold to findings produced elsewhere, for
// example after baseline filtering.
func Summarize(findings []Finding, failOn string) (Summary, error) {
	policy, err := gate.ParsePolicy(failOn)
	if err != nil {
		return Summary{}, err
	}
	return gate.Summarize(scanner.Result{Findings: findings, Counts: types.CountFindings(findings)}, policy), nil
}

// ScoreCommit rates a commit message from 0 to 3 and reports its compliance.
func ScoreCommit(message string) (CommitQuality, CommitVerdict) {
	return commitmsg.Score(message), commitmsg.Check(message)
}

// RuleIDs returns the built-in rule IDs in catalog order.
func RuleIDs() []string { return engine.RuleIDs() }
