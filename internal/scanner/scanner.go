package scanner

import (
	"github.com/varalys/diffgate/internal/diff"
	"github.com/varalys/diffgate/internal/rules"
	"github.com/varalys/diffgate/internal/types"
)

// Result is the outcome of one scan. Findings keep scan order: file order,
// then line order, then rule order. Counts always has every severity.
type Result struct {
	Findings []types.Finding `json:"findings"`
	Counts   types.Counts    `json:"counts"`
}

// Scanner applies a rule table to text. It holds no mutable state, so one
// Scanner may serve concurrent scans.
type Scanner struct {
	rules rules.Table
}

// New returns a scanner over the given rule table.
func New(t rules.Table) *Scanner {
	return &Scanner{rules: t}
}

// Rules exposes the table the scanner was built with.
func (s *Scanner) Rules() rules.Table { return s.rules }

// ScanDiff scans only the added lines of unified diff text. source labels
// lines that appear before any file header.
func (s *Scanner) ScanDiff(text, source string) Result {
	var out []types.Finding
	diff.Each(text, source, func(a diff.AddedLine) {
		out = s.matchLine(out, a.File, a.Line, a.Text)
	})
	return newResult(out)
}

// ScanAdded scans pre-parsed added lines, e.g. after path filtering.
func (s *Scanner) ScanAdded(lines []diff.AddedLine) Result {
	var out []types.Finding
	for _, a := range lines {
		out = s.matchLine(out, a.File, a.Line, a.Text)
	}
	return newResult(out)
}

// ScanText scans every line of a plain file. Lines are numbered from 1.
func (s *Scanner) ScanText(text, source string) Result {
	if source == "" {
		source = types.UnknownFile
	}
	var out []types.Finding
	line := 0
	for l := range diff.Lines(text) {
		line++
		out = s.matchLine(out, source, line, l)
	}
	return newResult(out)
}

// ScanLine checks a single line, which is how commit subjects are scanned.
func (s *Scanner) ScanLine(text, source string) Result {
	if source == "" {
		source = types.UnknownFile
	}
	return newResult(s.matchLine(nil, source, 1, text))
}

func (s *Scanner) matchLine(out []types.Finding, file string, line int, text string) []types.Finding {
	s.rules.Each(func(r rules.Rule) {
		m, ok := r.Match(text)
		if !ok {
			return
		}
		out = append(out, types.Finding{
			Severity:    r.Severity(),
			File:        file,
			Line:        line,
			Rule:        r.Name(),
			Description: r.Description(),
			Match:       m,
		})
	})
	return out
}

func newResult(findings []types.Finding) Result {
	if findings == nil {
		findings = []types.Finding{}
	}
	return Result{Findings: findings, Counts: types.CountFindings(findings)}
}
