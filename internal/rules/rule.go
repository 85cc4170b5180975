package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/varalys/diffgate/internal/types"
	"github.com/varalys/diffgate/internal/validate"
)

// Matcher reports whether a single line of text triggers a rule and, if so,
// which substring matched.
type Matcher interface {
	Match(line string) (string, bool)
}

// MatcherFunc adapts a plain function to Matcher.
type MatcherFunc func(line string) (string, bool)

func (f MatcherFunc) Match(line string) (string, bool) { return f(line) }

// Definition is the declarative, serializable form of a rule. Built-in rules
// and rules loaded from configuration share it.
type Definition struct {
	Name        string `yaml:"name" json:"name"`
	Severity    string `yaml:"severity" json:"severity"`
	Pattern     string `yaml:"pattern" json:"pattern"`
	Description string `yaml:"description" json:"description"`
	// Validator optionally names a post-match check (see validate.ByName).
	Validator string `yaml:"validator,omitempty" json:"validator,omitempty"`
}

// Rule is one compiled detection rule.
type Rule struct {
	name        string
	severity    types.Severity
	description string
	matcher     Matcher
}

// New builds a rule around an arbitrary matcher.
func New(name string, sev types.Severity, description string, m Matcher) (Rule, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Rule{}, errors.New("rule name is empty")
	}
	if sev.Rank() == 0 {
		return Rule{}, fmt.Errorf("rule %s: unknown severity %q", name, sev)
	}
	if m == nil {
		return Rule{}, fmt.Errorf("rule %s: nil matcher", name)
	}
	return Rule{name: name, severity: sev, description: description, matcher: m}, nil
}

func (r Rule) Name() string             { return r.name }
func (r Rule) Severity() types.Severity { return r.severity }
func (r Rule) Description() string      { return r.description }

// Match runs the rule's matcher against one line.
func (r Rule) Match(line string) (string, bool) { return r.matcher.Match(line) }

type regexMatcher struct {
	re    *regexp.Regexp
	check func(string) bool
}

func (m regexMatcher) Match(line string) (string, bool) {
	loc := m.re.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	s := line[loc[0]:loc[1]]
	if m.check != nil && !m.check(s) {
		return "", false
	}
	return s, true
}

type options struct {
	validators bool
}

// Option tunes rule compilation.
type Option func(*options)

// WithValidators enables the post-match checks named by Definition.Validator.
// When disabled, validator names are still checked for existence.
func WithValidators(on bool) Option {
	return func(o *options) { o.validators = on }
}

// Compile turns definitions into a Table. Any invalid definition aborts the
// whole compilation so a broken rule never reaches a scan.
func Compile(defs []Definition, opts ...Option) (Table, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	out := make([]Rule, 0, len(defs))
	for i, d := range defs {
		r, err := compileOne(d, o)
		if err != nil {
			return Table{}, fmt.Errorf("rule #%d: %w", i+1, err)
		}
		out = append(out, r)
	}
	return NewTable(out...)
}

func compileOne(d Definition, o options) (Rule, error) {
	if strings.TrimSpace(d.Name) == "" {
		return Rule{}, errors.New("missing name")
	}
	sev, err := types.ParseSeverity(d.Severity)
	if err != nil {
		return Rule{}, fmt.Errorf("%s: %w", d.Name, err)
	}
	if d.Pattern == "" {
		return Rule{}, fmt.Errorf("%s: empty pattern", d.Name)
	}
	re, err := regexp.Compile(d.Pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("%s: invalid pattern: %w", d.Name, err)
	}
	m := regexMatcher{re: re}
	if d.Validator != "" {
		check, ok := validate.ByName(d.Validator)
		if !ok {
			return Rule{}, fmt.Errorf("%s: unknown validator %q", d.Name, d.Validator)
		}
		if o.validators {
			m.check = check
		}
	}
	return New(d.Name, sev, d.Description, m)
}

// MustCompile is Compile for static catalogs; it panics on error.
func MustCompile(defs []Definition, opts ...Option) Table {
	t, err := Compile(defs, opts...)
	if err != nil {
		panic(err)
	}
	return t
}
