package core

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const diffText = `diff --git a/app/config.py b/app/config.py
--- a/app/config.py
+++ b/app/config.py
@@ -1,1 +1,2 @@
 import os
+password = "hunter2"
`

func TestScanDiff_Smoke(t *testing.T) {
	res, err := ScanDiff(context.Background(), diffText, Options{})
	require.NoError(t, err)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, Severity("CRITICAL"), res.Findings[0].Severity)
	assert.False(t, res.Summary.GatePass)
	assert.NotEmpty(t, RuleIDs())
}

func TestScanDiff_BadPolicy(t *testing.T) {
	_, err := ScanDiff(context.Background(), diffText, Options{FailOn: "severe"})
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(nil, "low")
	require.NoError(t, err)
	assert.True(t, s.GatePass)

	s, err = Summarize([]Finding{{Severity: "MEDIUM", File: "a.go", Line: 1, Rule: "email_address"}}, "medium")
	require.NoError(t, err)
	assert.False(t, s.GatePass)
}

func TestScoreCommit(t *testing.T) {
	q, v := ScoreCommit("feat(api): add pagination")
	assert.Equal(t, 3, q.Score)
	assert.True(t, v.Compliant)
}

func TestReportRoundTrip(t *testing.T) {
	res, err := ScanDiff(context.Background(), diffText, Options{})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, MarshalReport(&buf, res))
	rep, err := UnmarshalReport(&buf)
	require.NoError(t, err)
	require.Len(t, rep.Findings, 1)
	assert.Equal(t, "hardcoded_password", rep.Findings[0].Pattern)
	require.NotNil(t, rep.Findings[0].Line)
	assert.Equal(t, 2, *rep.Findings[0].Line)
	assert.Equal(t, 1, rep.Summary.Critical)
}
