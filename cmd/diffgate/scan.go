package diffgate

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/varalys/diffgate/internal/audit"
	"github.com/varalys/diffgate/internal/config"
	"github.com/varalys/diffgate/internal/engine"
	"github.com/varalys/diffgate/internal/gate"
	"github.com/varalys/diffgate/internal/git"
	"github.com/varalys/diffgate/internal/report"
	"github.com/varalys/diffgate/internal/scanner"
	"github.com/varalys/diffgate/internal/types"
)

const defaultBaselineFile = "diffgate.baseline.json"

// scanFlags are shared by `scan` and `baseline update`.
type scanFlags struct {
	path            string
	file            string
	source          string
	plain           bool
	gitBase         string
	commit          string
	enable          string
	disable         string
	include         string
	exclude         string
	defaultExcludes bool
	strict          bool
	failOn          string
}

func (f *scanFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.path, "path", "p", ".", "repository root (git sources, .diffgateignore)")
	fl.StringVarP(&f.file, "file", "f", "", "read the diff from this file instead of stdin")
	fl.StringVar(&f.source, "source", "", "file label for lines that precede any diff header (plain mode: the scanned file name)")
	fl.BoolVar(&f.plain, "plain", false, "treat input as a plain file: scan every line, not only '+' lines")
	fl.StringVar(&f.gitBase, "git-base", "", "scan the diff from this revision to HEAD instead of reading input")
	fl.StringVar(&f.commit, "commit", "", "scan the patch a single commit introduced (e.g. HEAD)")
	fl.StringVar(&f.enable, "enable", "", "only run these rules (comma-separated IDs)")
	fl.StringVar(&f.disable, "disable", "", "skip these rules (comma-separated IDs)")
	fl.StringVar(&f.include, "include", "", "only scan files matching these globs (comma-separated)")
	fl.StringVar(&f.exclude, "exclude", "", "skip files matching these globs (comma-separated)")
	fl.BoolVar(&f.defaultExcludes, "default-excludes", true, "skip lockfiles, minified and generated files")
	fl.BoolVar(&f.strict, "strict", false, "run post-match validators (Luhn, SSN ranges) to cut false positives")
	fl.StringVar(&f.failOn, "fail-on", "", "lowest blocking severity: critical|high|medium|low (default critical)")
}

// engineConfig merges flags with the loaded config files (CLI > local > global)
// and reads stdin or --file unless a git source is selected.
func (a *app) engineConfig(f *scanFlags) (engine.Config, error) {
	root, err := filepath.Abs(f.path)
	if err != nil {
		return engine.Config{}, fmt.Errorf("resolve path: %w", err)
	}
	policy, err := gate.ParsePolicy(pickString(f.failOn, a.local.FailOn, a.global.FailOn))
	if err != nil {
		return engine.Config{}, err
	}
	cfg := engine.Config{
		Root:            root,
		Plain:           f.plain,
		Source:          f.source,
		GitBase:         f.gitBase,
		Commit:          f.commit,
		EnableRules:     pickString(f.enable, a.local.Enable, a.global.Enable),
		DisableRules:    pickString(f.disable, a.local.Disable, a.global.Disable),
		CustomRules:     config.CustomRules(a.global, a.local),
		Strict:          pickBool(f.strict, a.local.Strict, a.global.Strict),
		IncludeGlobs:    f.include,
		ExcludeGlobs:    pickString(f.exclude, a.local.Exclude, a.global.Exclude),
		DefaultExcludes: f.defaultExcludes,
		Policy:          policy,
		Logger:          a.log,
	}
	if f.gitBase == "" && f.commit == "" {
		text, source, err := a.readInput(f.file)
		if err != nil {
			return engine.Config{}, err
		}
		cfg.Input = text
		if cfg.Plain && cfg.Source == "" && source != "stdin" {
			cfg.Source = source
		}
	}
	return cfg, nil
}

func describeSource(f *scanFlags) string {
	switch {
	case f.commit != "":
		return "commit:" + f.commit
	case f.gitBase != "":
		return "git:" + f.gitBase + "..HEAD"
	case f.file != "":
		return f.file
	}
	return "stdin"
}

func (a *app) scanCmd() *cobra.Command {
	var (
		flags     scanFlags
		format    string
		baseline  string
		auditScan bool
	)
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the lines a diff adds and apply the security gate",
		Long: `Scan reads a unified diff from stdin (or --file, --git-base, --commit), reports
every rule match on an added line, and exits 1 when a blocking finding exists.`,
		Example: `  git diff origin/main...HEAD | diffgate scan
  diffgate scan --git-base origin/main --format table
  diffgate scan --file change.patch --fail-on high --format sarif > diffgate.sarif`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.engineConfig(&flags)
			if err != nil {
				return err
			}
			res, err := engine.Run(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("scan: %w", err)
			}

			findings := res.Findings
			summary := res.Summary
			basePath := inRoot(cfg.Root, pickString(baseline, a.local.Baseline, a.global.Baseline))
			if basePath != "" {
				b, err := report.LoadBaseline(basePath)
				if err != nil && !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				findings = report.FilterNewFindings(findings, b)
				summary = gate.Summarize(scanner.Result{Findings: findings, Counts: types.CountFindings(findings)}, cfg.Policy)
				a.log.Debug("baseline applied", zap.String("path", basePath), zap.Int("suppressed", len(res.Findings)-len(findings)))
			}

			if err := a.writeReport(format, findings, summary, res); err != nil {
				return err
			}

			if pickBool(auditScan, a.local.Audit, a.global.Audit) {
				_, commit, branch := git.RepoMetadata(cfg.Root)
				log := audit.NewAuditLog(cfg.Root)
				rec := audit.CreateScanRecord(audit.RecordInput{
					Root:         cfg.Root,
					Source:       describeSource(&flags),
					ScanID:       "scan_" + res.InputHash,
					Commit:       commit,
					Branch:       branch,
					All:          res.Findings,
					New:          findings,
					GatePass:     summary.GatePass,
					FailOn:       summary.FailOn,
					FilesScanned: res.FilesScanned,
					LinesScanned: res.LinesScanned,
					Duration:     res.Duration,
					BaselineFile: basePath,
				})
				if err := log.LogScan(rec); err != nil {
					a.log.Warn("audit log write failed", zap.Error(err))
				}
			}

			if !summary.GatePass {
				return &exitError{code: gate.ExitCode(summary), msg: "\n" + gate.FailureMessage(summary)}
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "", "output format: json|table|text|sarif (default json)")
	cmd.Flags().StringVar(&baseline, "baseline", "", "suppress findings recorded in this baseline file")
	cmd.Flags().BoolVar(&auditScan, "audit", false, "append a record of this scan to the audit log")
	return cmd
}

func (a *app) writeReport(format string, findings []types.Finding, summary gate.Summary, res engine.Result) error {
	format = strings.ToLower(pickString(format, a.local.Format, a.global.Format))
	opts := report.PrintOptions{
		NoColor:      a.noColor,
		Duration:     res.Duration,
		FilesScanned: res.FilesScanned,
		LinesScanned: res.LinesScanned,
		Summary:      &summary,
	}
	switch format {
	case "", "json":
		return report.WriteJSON(a.stdout, findings, summary)
	case "table":
		return report.PrintTable(a.stdout, findings, opts)
	case "text":
		report.PrintText(a.stdout, findings, opts)
		return nil
	case "sarif":
		return report.WriteSARIF(a.stdout, findings, report.SARIFOptions{
			Version: version,
			Stats: map[string]any{
				"filesScanned": res.FilesScanned,
				"linesScanned": res.LinesScanned,
				"linesSkipped": res.LinesSkipped,
				"gatePass":     summary.GatePass,
			},
		})
	}
	return fmt.Errorf("unknown --format %q (want json|table|text|sarif)", format)
}
