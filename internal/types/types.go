package types

import (
	"fmt"
	"strings"
)

// Severity is a coarse-grained risk level for a finding, ranked by
// exploitability and impact.
type Severity string

const (
	SevCritical Severity = "CRITICAL"
	SevHigh     Severity = "HIGH"
	SevMedium   Severity = "MEDIUM"
	SevLow      Severity = "LOW"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SevCritical, SevHigh, SevMedium, SevLow}

// Rank orders severities; higher is worse. Unknown severities rank 0.
func (s Severity) Rank() int {
	switch s {
	case SevCritical:
		return 4
	case SevHigh:
		return 3
	case SevMedium:
		return 2
	case SevLow:
		return 1
	}
	return 0
}

// ParseSeverity accepts any casing plus the "med" shorthand.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL":
		return SevCritical, nil
	case "HIGH":
		return SevHigh, nil
	case "MEDIUM", "MED":
		return SevMedium, nil
	case "LOW":
		return SevLow, nil
	}
	return "", fmt.Errorf("unknown severity %q (want critical|high|medium|low)", s)
}

// UnknownFile labels findings whose source file cannot be derived.
const UnknownFile = "unknown"

// Finding is a single rule match against one line of scanned text.
// Line is 1-based; 0 means the line number could not be resolved.
type Finding struct {
	Severity    Severity `json:"severity"`
	File        string   `json:"file"`
	Line        int      `json:"line"`
	Rule        string   `json:"pattern"`
	Description string   `json:"description"`
	Match       string   `json:"-"`
}

// HasLine reports whether the finding carries a resolvable line number.
func (f Finding) HasLine() bool { return f.Line > 0 }

// Counts maps each severity to the number of findings carrying it.
type Counts map[Severity]int

// NewCounts returns counts with every severity present and zeroed.
func NewCounts() Counts {
	c := make(Counts, len(Severities))
	for _, s := range Severities {
		c[s] = 0
	}
	return c
}

// Total sums all severities.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// CountFindings tallies findings by severity.
func CountFindings(findings []Finding) Counts {
	c := NewCounts()
	for _, f := range findings {
		c[f.Severity]++
	}
	return c
}
