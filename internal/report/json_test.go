package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varalys/diffgate/internal/gate"
	"github.com/varalys/diffgate/internal/scanner"
	"github.com/varalys/diffgate/internal/types"
)

func scannerResult(fs []types.Finding) scanner.Result {
	if fs == nil {
		fs = []types.Finding{}
	}
	return scanner.Result{Findings: fs, Counts: types.CountFindings(fs)}
}

func TestWriteJSON_Shape(t *testing.T) {
	fs := sampleFindings()
	s := gate.Summarize(scannerResult(fs), gate.DefaultPolicy())

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, fs, s))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	findings := doc["findings"].([]any)
	require.Len(t, findings, 2)

	first := findings[0].(map[string]any)
	assert.Equal(t, map[string]any{
		"severity":    "CRITICAL",
		"file":        "app/config.py",
		"line":        float64(2),
		"pattern":     "hardcoded_password",
		"description": "Hardcoded password",
	}, first)

	second := findings[1].(map[string]any)
	assert.Contains(t, second, "line")
	assert.Nil(t, second["line"], "unresolved line encodes as null")

	assert.Equal(t, map[string]any{
		"critical":  float64(1),
		"high":      float64(0),
		"medium":    float64(1),
		"low":       float64(0),
		"gate_pass": false,
	}, doc["summary"])
	assert.NotContains(t, buf.String(), "hunter2", "matched text never leaves the process")
}

func TestWriteJSON_Empty(t *testing.T) {
	s := gate.Summarize(scannerResult(nil), gate.DefaultPolicy())
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil, s))
	assert.Contains(t, buf.String(), `"findings": []`)
	assert.Contains(t, buf.String(), `"gate_pass": true`)
}
