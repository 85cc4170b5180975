package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varalys/diffgate/internal/types"
)

func TestNewAuditLog_PrefersGitDir(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, ".diffgate_audit.jsonl"), NewAuditLog(dir).Path())

	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	assert.Equal(t, filepath.Join(dir, ".git", FileName), NewAuditLog(dir).Path())
}

func TestLogScan_RoundTripNewestFirst(t *testing.T) {
	dir := t.TempDir()
	log := NewAuditLog(dir)

	all := []types.Finding{
		{Severity: types.SevCritical, File: "a.py", Line: 3, Rule: "hardcoded_password", Match: `password = "hunter2"`},
		{Severity: types.SevLow, File: "b.py", Line: 1, Rule: "debug_mode_enabled", Match: "DEBUG = True"},
	}
	first := CreateScanRecord(RecordInput{Root: dir, Source: "stdin", ScanID: "one", All: all, New: all[:1], FailOn: types.SevCritical, Duration: time.Second})
	second := CreateScanRecord(RecordInput{Root: dir, Source: "stdin", ScanID: "two", GatePass: true, FailOn: types.SevCritical})
	require.NoError(t, log.LogScan(first))
	require.NoError(t, log.LogScan(second))

	recs, err := log.LoadHistory()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "two", recs[0].ScanID)
	assert.Equal(t, "one", recs[1].ScanID)

	r := recs[1]
	assert.Equal(t, 2, r.TotalFindings)
	assert.Equal(t, 1, r.NewFindings)
	assert.Equal(t, 1, r.BaselinedCount)
	assert.Equal(t, map[string]int{"CRITICAL": 1, "HIGH": 0, "MEDIUM": 0, "LOW": 1}, r.SeverityCounts)
	assert.False(t, r.GatePass)
	require.Len(t, r.TopFindings, 1)
	assert.Equal(t, FindingSummary{File: "a.py", Rule: "hardcoded_password", Severity: "CRITICAL", Line: 3}, r.TopFindings[0])

	raw, err := os.ReadFile(log.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hunter2")

	info, err := os.Stat(log.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLogScan_DefaultScanID(t *testing.T) {
	log := NewAuditLog(t.TempDir())
	require.NoError(t, log.LogScan(ScanRecord{}))
	recs, err := log.LoadHistory()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].ScanID, "scan_")
}

func TestLoadHistory_Missing(t *testing.T) {
	_, err := NewAuditLog(t.TempDir()).LoadHistory()
	assert.Error(t, err)
}
