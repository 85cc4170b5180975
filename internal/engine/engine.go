package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	xxhash "github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/varalys/diffgate/internal/diff"
	"github.com/varalys/diffgate/internal/gate"
	"github.com/varalys/diffgate/internal/git"
	"github.com/varalys/diffgate/internal/ignore"
	"github.com/varalys/diffgate/internal/logging"
	"github.com/varalys/diffgate/internal/rules"
	"github.com/varalys/diffgate/internal/scanner"
	"github.com/varalys/diffgate/internal/types"
)

// Config controls what is scanned and how the result is judged.
type Config struct {
	// Root is the repository root used for git sources and .diffgateignore.
	Root string

	// Input is raw diff (or plain text when Plain is set). Ignored when
	// GitBase or Commit selects a git source.
	Input  string
	Source string
	Plain  bool

	GitBase string
	Commit  string

	EnableRules  string
	DisableRules string
	CustomRules  []rules.Definition
	Strict       bool

	IncludeGlobs    string
	ExcludeGlobs    string
	DefaultExcludes bool

	Policy gate.Policy
	Logger *zap.Logger
}

// Result contains findings, the gate decision and basic scan statistics.
type Result struct {
	scanner.Result
	Summary gate.Summary `json:"-"`

	FilesScanned int           `json:"files_scanned"`
	LinesScanned int           `json:"lines_scanned"`
	LinesSkipped int           `json:"lines_skipped"`
	Duration     time.Duration `json:"-"`
	// InputHash fingerprints the scanned text.
	InputHash string `json:"input_hash"`
}

// ErrConflictingSources is returned when more than one git source is set.
var ErrConflictingSources = errors.New("--git-base and --commit are mutually exclusive")

// RuleIDs lists the built-in rule IDs in table order.
func RuleIDs() []string {
	return rules.Builtin().IDs()
}

// BuildTable compiles built-in plus custom rules and applies enable/disable.
func BuildTable(cfg Config) (rules.Table, error) {
	t, err := rules.Load(cfg.CustomRules, rules.WithValidators(cfg.Strict))
	if err != nil {
		return rules.Table{}, fmt.Errorf("custom rules: %w", err)
	}
	t, err = t.Select(rules.SplitIDs(cfg.EnableRules), rules.SplitIDs(cfg.DisableRules))
	if err != nil {
		return rules.Table{}, err
	}
	return t, nil
}

// ResolveInput returns the text to scan: a commit patch, a range diff against
// GitBase, or cfg.Input.
func ResolveInput(cfg Config) (string, error) {
	switch {
	case cfg.GitBase != "" && cfg.Commit != "":
		return "", ErrConflictingSources
	case cfg.Commit != "":
		text, err := git.CommitDiff(rootOrDot(cfg.Root), cfg.Commit)
		if err != nil {
			return "", fmt.Errorf("commit diff: %w", err)
		}
		return text, nil
	case cfg.GitBase != "":
		text, err := git.DiffAgainst(rootOrDot(cfg.Root), cfg.GitBase)
		if err != nil {
			return "", fmt.Errorf("diff against %s: %w", cfg.GitBase, err)
		}
		return text, nil
	}
	return cfg.Input, nil
}

// Run resolves the input, scans it and applies the gate.
func Run(ctx context.Context, cfg Config) (Result, error) {
	var result Result
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := ValidateGlobs(cfg.IncludeGlobs); err != nil {
		return result, err
	}
	if err := ValidateGlobs(cfg.ExcludeGlobs); err != nil {
		return result, err
	}

	table, err := BuildTable(cfg)
	if err != nil {
		return result, err
	}
	text, err := ResolveInput(cfg)
	if err != nil {
		return result, err
	}

	var ign ignore.Matcher
	if cfg.Root != "" {
		ign, err = ignore.Load(filepath.Join(cfg.Root, ignore.FileName))
		if err != nil {
			return result, fmt.Errorf("load %s: %w", ignore.FileName, err)
		}
	}
	pf := pathFilter{
		includes:        parseGlobsList(cfg.IncludeGlobs),
		excludes:        parseGlobsList(cfg.ExcludeGlobs),
		defaultExcludes: cfg.DefaultExcludes,
		ign:             ign,
	}

	started := time.Now()
	scnr := scanner.New(table)
	if cfg.Plain {
		err = runPlain(ctx, scnr, pf, text, cfg.Source, &result)
	} else {
		if strings.TrimSpace(text) != "" && !diff.LooksLikeDiff(text) {
			log.Warn("input has no unified diff headers; only '+' lines are scanned", zap.String("source", cfg.Source))
		}
		err = runDiff(ctx, scnr, pf, text, cfg.Source, &result)
	}
	if err != nil {
		return result, err
	}

	result.Duration = time.Since(started)
	result.InputHash = fastHash([]byte(text))
	result.Summary = gate.Summarize(result.Result, cfg.Policy)
	log.Debug("scan complete",
		zap.Int("rules", table.Len()),
		zap.Int("files", result.FilesScanned),
		zap.Int("lines", result.LinesScanned),
		zap.Int("skipped", result.LinesSkipped),
		zap.Int("findings", len(result.Findings)),
		zap.Bool("gate_pass", result.Summary.GatePass),
		zap.Duration("took", result.Duration),
	)
	return result, nil
}

// checkEvery bounds how many lines are processed between context checks.
const checkEvery = 1024

func runDiff(ctx context.Context, scnr *scanner.Scanner, pf pathFilter, text, source string, result *Result) error {
	var kept []diff.AddedLine
	files := map[string]bool{}
	n := 0
	var ctxErr error
	diff.Each(text, source, func(a diff.AddedLine) {
		if ctxErr != nil {
			return
		}
		n++
		if n%checkEvery == 0 {
			ctxErr = ctx.Err()
		}
		if !pf.allowed(a.File) {
			result.LinesSkipped++
			return
		}
		files[a.File] = true
		kept = append(kept, a)
	})
	if ctxErr != nil {
		return ctxErr
	}
	result.Result = scnr.ScanAdded(kept)
	result.FilesScanned = len(files)
	result.LinesScanned = len(kept)
	return nil
}

func runPlain(ctx context.Context, scnr *scanner.Scanner, pf pathFilter, text, source string, result *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if source == "" {
		source = types.UnknownFile
	}
	lines := strings.Count(text, "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		lines++
	}
	if !pf.allowed(source) {
		result.Result = scanner.Result{Findings: []types.Finding{}, Counts: types.NewCounts()}
		result.LinesSkipped = lines
		return nil
	}
	result.Result = scnr.ScanText(text, source)
	result.FilesScanned = 1
	result.LinesScanned = lines
	return nil
}

type pathFilter struct {
	includes        []string
	excludes        []string
	defaultExcludes bool
	ign             ignore.Matcher
}

// allowed never filters the unknown-file label, so lines without a file
// header are always scanned.
func (p pathFilter) allowed(file string) bool {
	if file == types.UnknownFile || file == "" {
		return true
	}
	if !allowedByGlobs(file, p.includes, p.excludes) {
		return false
	}
	if p.ign.Match(file) {
		return false
	}
	if p.defaultExcludes && isDefaultFileExcluded(strings.ToLower(file)) {
		return false
	}
	return true
}

func rootOrDot(root string) string {
	if root == "" {
		return "."
	}
	return root
}

func fastHash(b []byte) string {
	if len(b) == 0 {
		return "0000000000000000"
	}
	sum := xxhash.Sum64(b)
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}
