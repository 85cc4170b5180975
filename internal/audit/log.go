// Package audit appends one JSON line per scan to a local log so gate
// decisions can be reviewed later. Matched text is never written.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/varalys/diffgate/internal/types"
)

// FileName is the log name inside .git (or the repo root outside git).
const FileName = "diffgate_audit.jsonl"

type ScanRecord struct {
	Timestamp      time.Time        `json:"timestamp"`
	ScanID         string           `json:"scan_id"`
	Root           string           `json:"root"`
	Source         string           `json:"source"`
	Commit         string           `json:"commit,omitempty"`
	Branch         string           `json:"branch,omitempty"`
	TotalFindings  int              `json:"total_findings"`
	NewFindings    int              `json:"new_findings"`
	BaselinedCount int              `json:"baselined_count"`
	SeverityCounts map[string]int   `json:"severity_counts"`
	GatePass       bool             `json:"gate_pass"`
	FailOn         string           `json:"fail_on"`
	FilesScanned   int              `json:"files_scanned"`
	LinesScanned   int              `json:"lines_scanned"`
	Duration       string           `json:"duration"`
	BaselineFile   string           `json:"baseline_file,omitempty"`
	TopFindings    []FindingSummary `json:"top_findings,omitempty"`
}

type FindingSummary struct {
	File     string `json:"file"`
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Line     int    `json:"line,omitempty"`
}

type AuditLog struct {
	logPath string
}

// NewAuditLog logs into .git when root is a work tree, else into root as a
// dotfile.
func NewAuditLog(root string) *AuditLog {
	gitDir := filepath.Join(root, ".git")
	logPath := filepath.Join(root, "."+FileName)
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		logPath = filepath.Join(gitDir, FileName)
	}
	return &AuditLog{logPath: logPath}
}

// Path is where records are appended.
func (a *AuditLog) Path() string { return a.logPath }

// LoadHistory returns records newest first. Reading stops at the first
// corrupt line.
func (a *AuditLog) LoadHistory() ([]ScanRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []ScanRecord
	decoder := json.NewDecoder(f)
	for decoder.More() {
		var record ScanRecord
		if err := decoder.Decode(&record); err != nil {
			break
		}
		records = append(records, record)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (a *AuditLog) LogScan(record ScanRecord) error {
	if record.ScanID == "" {
		record.ScanID = fmt.Sprintf("scan_%d", time.Now().Unix())
	}

	// owner-only: the log carries finding metadata
	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// RecordInput is what a finished scan contributes to a record.
type RecordInput struct {
	Root         string
	Source       string
	ScanID       string
	Commit       string
	Branch       string
	All          []types.Finding
	New          []types.Finding
	GatePass     bool
	FailOn       types.Severity
	FilesScanned int
	LinesScanned int
	Duration     time.Duration
	BaselineFile string
}

// CreateScanRecord summarizes a scan. At most ten new findings are listed
// and only by location and rule.
func CreateScanRecord(in RecordInput) ScanRecord {
	severityCounts := make(map[string]int, len(types.Severities))
	for _, s := range types.Severities {
		severityCounts[string(s)] = 0
	}
	for _, f := range in.All {
		severityCounts[string(f.Severity)]++
	}

	topFindings := make([]FindingSummary, 0, 10)
	for i, f := range in.New {
		if i >= 10 {
			break
		}
		topFindings = append(topFindings, FindingSummary{
			File:     f.File,
			Rule:     f.Rule,
			Severity: string(f.Severity),
			Line:     f.Line,
		})
	}

	return ScanRecord{
		Timestamp:      time.Now().UTC(),
		ScanID:         in.ScanID,
		Root:           in.Root,
		Source:         in.Source,
		Commit:         in.Commit,
		Branch:         in.Branch,
		TotalFindings:  len(in.All),
		NewFindings:    len(in.New),
		BaselinedCount: len(in.All) - len(in.New),
		SeverityCounts: severityCounts,
		GatePass:       in.GatePass,
		FailOn:         string(in.FailOn),
		FilesScanned:   in.FilesScanned,
		LinesScanned:   in.LinesScanned,
		Duration:       in.Duration.String(),
		BaselineFile:   in.BaselineFile,
		TopFindings:    topFindings,
	}
}
