package diffgate

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const criticalDiff = `diff --git a/app/config.py b/app/config.py
--- a/app/config.py
+++ b/app/config.py
@@ -1,2 +1,3 @@
 import os
+password = "hunter2"
 DEBUG = False
`

const emailDiff = `diff --git a/docs/notes.md b/docs/notes.md
--- a/docs/notes.md
+++ b/docs/notes.md
@@ -1,0 +1,1 @@
+contact ops@example.com for access
`

// isolate keeps a developer's global config and DIFFGATE_* env out of the run.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, kv := range os.Environ() {
		if k, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, envPrefix+"_") {
			t.Setenv(k, "")
			require.NoError(t, os.Unsetenv(k))
		}
	}
}

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code = run(args, strings.NewReader(stdin), &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func TestScan_CriticalFailsGate(t *testing.T) {
	isolate(t)
	code, out, errOut := runCLI(t, criticalDiff, "scan")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "SECURITY GATE FAILED: 1 CRITICAL finding(s) detected.")
	assert.Contains(t, errOut, "Resolve all CRITICAL findings before merging.")

	var rep struct {
		Findings []struct {
			Severity string `json:"severity"`
			File     string `json:"file"`
			Line     *int   `json:"line"`
			Pattern  string `json:"pattern"`
		} `json:"findings"`
		Summary struct {
			Critical int  `json:"critical"`
			GatePass bool `json:"gate_pass"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep), out)
	require.Len(t, rep.Findings, 1)
	assert.Equal(t, "CRITICAL", rep.Findings[0].Severity)
	assert.Equal(t, "app/config.py", rep.Findings[0].File)
	require.NotNil(t, rep.Findings[0].Line)
	assert.Equal(t, 2, *rep.Findings[0].Line)
	assert.Equal(t, "hardcoded_password", rep.Findings[0].Pattern)
	assert.Equal(t, 1, rep.Summary.Critical)
	assert.False(t, rep.Summary.GatePass)
}

func TestScan_EmptyInputPasses(t *testing.T) {
	isolate(t)
	code, out, errOut := runCLI(t, "", "scan")
	assert.Equal(t, 0, code, errOut)
	assert.Contains(t, out, `"findings": []`)
	assert.Contains(t, out, `"gate_pass": true`)
}

func TestScan_MediumPassesByDefault(t *testing.T) {
	isolate(t)
	code, out, _ := runCLI(t, emailDiff, "scan")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `"medium": 1`)
}

func TestScan_FailOnFlagAndEnv(t *testing.T) {
	isolate(t)
	code, _, errOut := runCLI(t, emailDiff, "scan", "--fail-on", "medium")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "at or above MEDIUM")

	t.Setenv("DIFFGATE_FAIL_ON", "low")
	code, _, _ = runCLI(t, emailDiff, "scan")
	assert.Equal(t, 1, code)

	code, _, _ = runCLI(t, emailDiff, "scan", "--fail-on", "critical")
	assert.Equal(t, 0, code, "explicit flag beats env")
}

func TestScan_TableAndText(t *testing.T) {
	isolate(t)
	code, out, _ := runCLI(t, criticalDiff, "--no-color", "scan", "--format", "table")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "CRITICAL")
	assert.Contains(t, out, "app/config.py")
	assert.Contains(t, out, "Gate: FAIL")

	code, out, _ = runCLI(t, criticalDiff, "--no-color", "scan", "--format", "text")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "hardcoded_password")
}

func TestScan_SARIF(t *testing.T) {
	isolate(t)
	code, out, _ := runCLI(t, criticalDiff, "scan", "--format", "sarif")
	assert.Equal(t, 1, code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "2.1.0", doc["version"])
}

func TestScan_OperationalErrors(t *testing.T) {
	isolate(t)
	code, _, errOut := runCLI(t, criticalDiff, "scan", "--format", "xml")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "error: unknown --format")

	code, _, errOut = runCLI(t, "", "scan", "--file", filepath.Join(t.TempDir(), "missing.diff"))
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "could not read diff file")

	code, _, errOut = runCLI(t, criticalDiff, "scan", "--fail-on", "severe")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "error:")
}

func TestScan_FromFile(t *testing.T) {
	isolate(t)
	p := filepath.Join(t.TempDir(), "change.diff")
	require.NoError(t, os.WriteFile(p, []byte(criticalDiff), 0o644))
	code, _, _ := runCLI(t, "", "scan", "--file", p)
	assert.Equal(t, 1, code)
}

func TestScan_RefusesInteractiveStdin(t *testing.T) {
	isolate(t)
	var out, errBuf bytes.Buffer
	a := newApp(strings.NewReader(""), &out, &errBuf)
	a.stdinIsTerminal = func() bool { return true }
	cmd := a.rootCmd()
	cmd.SetArgs([]string{"scan"})
	err := cmd.Execute()
	assert.ErrorIs(t, err, errNoInput)
}

func TestBaseline_UpdateThenScan(t *testing.T) {
	isolate(t)
	p := filepath.Join(t.TempDir(), "baseline.json")
	code, out, errOut := runCLI(t, criticalDiff, "baseline", "update", "-o", p)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Baseline updated: 1 finding(s) recorded in "+p)

	code, out, _ = runCLI(t, criticalDiff, "scan", "--baseline", p)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `"findings": []`)

	code, _, _ = runCLI(t, criticalDiff, "scan", "--baseline", filepath.Join(t.TempDir(), "none.json"))
	assert.Equal(t, 1, code, "a missing baseline suppresses nothing")
}

func TestCommit_Score(t *testing.T) {
	isolate(t)
	code, out, _ := runCLI(t, "", "commit", "feat(auth): add token refresh")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "feat(auth): add token refresh")

	code, out, _ = runCLI(t, "", "commit", "--format", "json", "feat(auth): add token refresh")
	assert.Equal(t, 0, code)
	var res commitResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 3, res.Score)
	assert.Equal(t, 3, res.Max)

	code, _, errOut := runCLI(t, "", "commit", "--min-score", "2", "updated stuff")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "COMMIT MESSAGE CHECK FAILED")
}

func TestCommit_FromStdin(t *testing.T) {
	isolate(t)
	code, out, _ := runCLI(t, "fix: handle empty diff\n\nbody", "commit", "--format", "json")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `"subject": "fix: handle empty diff"`)
}

func TestRules_List(t *testing.T) {
	isolate(t)
	code, out, _ := runCLI(t, "", "rules")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "hardcoded_password")
	assert.Contains(t, out, "rules\n")

	code, out, _ = runCLI(t, "", "detectors", "--json")
	assert.Equal(t, 0, code)
	var rows []ruleRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.NotEmpty(t, rows)
	assert.Equal(t, "CRITICAL", rows[0].Severity)
}

func TestConfigInit(t *testing.T) {
	isolate(t)
	p := filepath.Join(t.TempDir(), ".diffgate.yml")
	code, _, errOut := runCLI(t, "", "config", "init", "--output", p, "--fail-on", "high")
	require.Equal(t, 0, code, errOut)
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "fail_on: high")

	code, _, errOut = runCLI(t, "", "config", "init", "--output", p)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "already exists")

	code, _, _ = runCLI(t, "", "config", "init", "--output", p, "--force", "--example-rule")
	assert.Equal(t, 0, code)
	b, _ = os.ReadFile(p)
	assert.Contains(t, string(b), "internal_hostname")

	code, _, _ = runCLI(t, "", "config", "init", "--output", p, "--force", "--fail-on", "severe")
	assert.Equal(t, 2, code)
}

func TestConfigFile_AppliesPolicy(t *testing.T) {
	isolate(t)
	p := filepath.Join(t.TempDir(), "gate.yml")
	require.NoError(t, os.WriteFile(p, []byte("fail_on: medium\n"), 0o644))
	code, _, _ := runCLI(t, emailDiff, "--config", p, "scan")
	assert.Equal(t, 1, code)
}

func TestCIInit(t *testing.T) {
	isolate(t)
	for _, provider := range ciProviders() {
		t.Run(provider, func(t *testing.T) {
			dir := t.TempDir()
			code, out, errOut := runCLI(t, "", "ci", "init", "--provider", provider, "--dir", dir)
			require.Equal(t, 0, code, errOut)
			path := filepath.Join(dir, ciTemplates[provider].path)
			assert.Contains(t, out, path)
			b, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(b), "diffgate scan")
		})
	}

	code, _, errOut := runCLI(t, "", "ci", "init", "--provider", "jenkins", "--dir", t.TempDir())
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown --provider")
}

func TestCompletion(t *testing.T) {
	isolate(t)
	code, out, _ := runCLI(t, "", "completion", "bash")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "diffgate")
}

func TestMCPServerFromConfig(t *testing.T) {
	isolate(t)
	a := newApp(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	s, err := a.newMCPServer(t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, s)

	bad := "severe"
	a.local.FailOn = &bad
	_, err = a.newMCPServer(t.TempDir())
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	isolate(t)
	code, out, _ := runCLI(t, "", "--version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, version)
}

func TestScan_ConfigAndBaselineFromPathRoot(t *testing.T) {
	isolate(t)
	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, ".diffgate.yml"), []byte("fail_on: medium\nbaseline: accepted.json\n"), 0o644))

	code, _, _ := runCLI(t, emailDiff, "scan", "-p", repo)
	assert.Equal(t, 1, code, "repo-local fail_on must come from --path")

	code, out, errOut := runCLI(t, emailDiff, "baseline", "update", "-p", repo)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, filepath.Join(repo, "accepted.json"))
	assert.FileExists(t, filepath.Join(repo, "accepted.json"))

	code, out, _ = runCLI(t, emailDiff, "scan", "-p", repo)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `"findings": []`)

	code, _, _ = runCLI(t, emailDiff, "scan")
	assert.Equal(t, 0, code, "the working directory has no repo-local config")
}
