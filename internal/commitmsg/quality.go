// Package commitmsg scores commit messages against the conventional-commit
// format. The quality checks are ordinary rules run through the same scanner
// as diffs; only the aggregation differs.
package commitmsg

import (
	"fmt"
	"strings"

	"github.com/varalys/diffgate/internal/rules"
	"github.com/varalys/diffgate/internal/scanner"
)

// Types are the recognized conventional-commit types.
var Types = []string{"feat", "fix", "docs", "refactor", "test", "chore", "perf", "style", "ci", "build", "revert"}

const (
	CheckFormat = "conventional_format"
	CheckType   = "recognized_type"
	CheckScope  = "scope_present"
)

// Descriptions double as the hint shown when a check is missing.
var checkDefs = []rules.Definition{
	{
		Name:        CheckFormat,
		Severity:    "LOW",
		Pattern:     `^\w+(\([^)]*\))?!?: .+`,
		Description: "format (e.g., type: description)",
	},
	{
		Name:        CheckType,
		Severity:    "LOW",
		Pattern:     `^(` + strings.Join(Types, "|") + `)[(!:]`,
		Description: "recognized type (" + strings.Join(Types[:3], ", ") + ", ...)",
	},
	{
		Name:        CheckScope,
		Severity:    "LOW",
		Pattern:     `^\w+\([^)]+\)`,
		Description: "scope (e.g., feat(auth): ...)",
	},
}

// Quality is the 0..3 score of a single message.
type Quality struct {
	Subject string   `json:"subject"`
	Score   int      `json:"score"`
	Max     int      `json:"max"`
	Passed  []string `json:"passed"`
	Missing []string `json:"missing"`
}

// Hint renders the missing checks as "missing: a, b", or "" for a full score.
func (q Quality) Hint() string {
	if len(q.Missing) == 0 {
		return ""
	}
	return "missing: " + strings.Join(q.Missing, ", ")
}

func (q Quality) String() string {
	s := fmt.Sprintf("%d/%d", q.Score, q.Max)
	if h := q.Hint(); h != "" {
		s += " " + h
	}
	return s
}

// Scorer holds the compiled checks. It is safe for concurrent use.
type Scorer struct {
	scan *scanner.Scanner
}

// NewScorer compiles the quality checks.
func NewScorer() *Scorer {
	return &Scorer{scan: scanner.New(rules.MustCompile(checkDefs))}
}

// Checks exposes the check table, e.g. for listing.
func (s *Scorer) Checks() rules.Table { return s.scan.Rules() }

// Score evaluates the subject line of message. Each check contributes at most 1.
func (s *Scorer) Score(message string) Quality {
	subject := Subject(message)
	res := s.scan.ScanLine(subject, "commit")
	hit := make(map[string]bool, len(res.Findings))
	for _, f := range res.Findings {
		hit[f.Rule] = true
	}
	q := Quality{Subject: subject, Max: s.scan.Rules().Len(), Passed: []string{}, Missing: []string{}}
	s.scan.Rules().Each(func(r rules.Rule) {
		if hit[r.Name()] {
			q.Score++
			q.Passed = append(q.Passed, r.Name())
			return
		}
		q.Missing = append(q.Missing, r.Description())
	})
	return q
}

var defaultScorer = NewScorer()

// Score evaluates message with the default checks.
func Score(message string) Quality { return defaultScorer.Score(message) }

// Subject returns the first line of a commit message, trimmed.
func Subject(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	return strings.TrimSpace(message)
}
