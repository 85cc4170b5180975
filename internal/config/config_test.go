package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/varalys/diffgate/internal/rules"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "diffgate.yaml", "fail_on: high\nexclude: \"vendor/**,**/*_test.go\"\nstrict: true\nmin_commit_score: 2\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.FailOn == nil || *cfg.FailOn != "high" {
		t.Fatalf("expected fail_on=high, got %#v", cfg.FailOn)
	}
	if cfg.Exclude == nil || *cfg.Exclude != "vendor/**,**/*_test.go" {
		t.Fatalf("unexpected exclude %#v", cfg.Exclude)
	}
	if cfg.Strict == nil || !*cfg.Strict {
		t.Fatalf("expected strict=true")
	}
	if cfg.MinCommitScore == nil || *cfg.MinCommitScore != 2 {
		t.Fatalf("expected min_commit_score=2, got %#v", cfg.MinCommitScore)
	}
	if cfg.NoColor != nil {
		t.Fatalf("unset fields must stay nil")
	}
}

func TestLoadFile_CustomRules(t *testing.T) {
	dir := t.TempDir()
	body := `rules:
  - name: internal_hostname
    severity: high
    pattern: '\.corp\.example\.com\b'
    description: Internal hostname committed
`
	cfg, err := LoadFile(writeTemp(t, dir, "diffgate.yml", body))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].Name != "internal_hostname" {
		t.Fatalf("unexpected rules: %#v", cfg.Rules)
	}
	tbl, err := rules.Load(cfg.Rules)
	if err != nil {
		t.Fatalf("compile custom rules: %v", err)
	}
	if _, ok := tbl.Get("internal_hostname"); !ok {
		t.Fatal("custom rule missing from table")
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFile(writeTemp(t, dir, "bad.yml", "fail_on: [unterminated\n")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "diffgate.yaml", "fail_on: low\n")
	writeTemp(t, dir, ".diffgate.yaml", "fail_on: medium\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.FailOn == nil || *cfg.FailOn != "medium" {
		t.Fatalf("expected fail_on=medium from .diffgate.yaml, got %#v", cfg.FailOn)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadLocal(dir); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "diffgate")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTemp(t, cfgDir, "config.yml", "log_level: debug\n")
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.LogLevel == nil || *cfg.LogLevel != "debug" {
		t.Fatalf("expected log_level=debug from global config, got %#v", cfg.LogLevel)
	}
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")
	if _, err := LoadGlobal(); err == nil {
		t.Fatal("expected error when no global config dir exists")
	}
}

func TestLoadLayered(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	repo := t.TempDir()

	g, l, err := LoadLayered(repo)
	if err != nil {
		t.Fatalf("missing files must not be an error: %v", err)
	}
	if g.FailOn != nil || l.FailOn != nil {
		t.Fatal("expected empty configs")
	}

	writeTemp(t, repo, ".diffgate.yml", "rules:\n  - name: a\n    severity: low\n    pattern: a\n")
	if err := os.MkdirAll(filepath.Join(xdg, "diffgate"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeTemp(t, filepath.Join(xdg, "diffgate"), "config.yml", "rules:\n  - name: g\n    severity: low\n    pattern: g\n")
	g, l, err = LoadLayered(repo)
	if err != nil {
		t.Fatalf("LoadLayered: %v", err)
	}
	got := CustomRules(g, l)
	if len(got) != 2 || got[0].Name != "g" || got[1].Name != "a" {
		t.Fatalf("expected global then local rules, got %#v", got)
	}

	writeTemp(t, repo, ".diffgate.yml", "rules: {oops\n")
	if _, _, err := LoadLayered(repo); err == nil {
		t.Fatal("expected malformed local config to surface")
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	failOn := "critical"
	p := filepath.Join(dir, "nested", ".diffgate.yml")
	if err := Write(p, FileConfig{FailOn: &failOn}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b, _ := os.ReadFile(p)
	if string(b) != "fail_on: critical\n" {
		t.Fatalf("unexpected yaml: %q", b)
	}
}
