package rules

import (
	"fmt"
	"sort"
	"strings"
)

// Table is an ordered, immutable set of rules with unique names.
type Table struct {
	rules []Rule
	index map[string]int
}

// NewTable builds a table preserving the given order. Duplicate names are an error.
func NewTable(rs ...Rule) (Table, error) {
	t := Table{rules: make([]Rule, 0, len(rs)), index: make(map[string]int, len(rs))}
	for _, r := range rs {
		if r.matcher == nil {
			return Table{}, fmt.Errorf("rule %q was not constructed with rules.New", r.name)
		}
		if _, dup := t.index[r.name]; dup {
			return Table{}, fmt.Errorf("duplicate rule name %q", r.name)
		}
		t.index[r.name] = len(t.rules)
		t.rules = append(t.rules, r)
	}
	return t, nil
}

// Len returns the number of rules.
func (t Table) Len() int { return len(t.rules) }

// Rules returns a copy of the rules in table order.
func (t Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Each calls fn for every rule in table order without copying.
func (t Table) Each(fn func(Rule)) {
	for _, r := range t.rules {
		fn(r)
	}
}

// Get looks up a rule by name.
func (t Table) Get(name string) (Rule, bool) {
	i, ok := t.index[name]
	if !ok {
		return Rule{}, false
	}
	return t.rules[i], true
}

// IDs returns rule names in table order.
func (t Table) IDs() []string {
	out := make([]string, len(t.rules))
	for i, r := range t.rules {
		out[i] = r.name
	}
	return out
}

// Extend returns a new table with extra rules appended after the existing ones.
func (t Table) Extend(other Table) (Table, error) {
	all := make([]Rule, 0, t.Len()+other.Len())
	all = append(all, t.rules...)
	all = append(all, other.rules...)
	return NewTable(all...)
}

// Select narrows the table. A non-empty enable list keeps only those rules;
// disable then removes rules. Order is always the table's own order.
// Naming a rule that does not exist is an error.
func (t Table) Select(enable, disable []string) (Table, error) {
	enable = cleanIDs(enable)
	disable = cleanIDs(disable)
	if err := t.checkKnown(append(append([]string{}, enable...), disable...)); err != nil {
		return Table{}, err
	}
	keep := map[string]bool{}
	for _, id := range enable {
		keep[id] = true
	}
	drop := map[string]bool{}
	for _, id := range disable {
		drop[id] = true
	}
	var out []Rule
	for _, r := range t.rules {
		if len(keep) > 0 && !keep[r.name] {
			continue
		}
		if drop[r.name] {
			continue
		}
		out = append(out, r)
	}
	return NewTable(out...)
}

func (t Table) checkKnown(ids []string) error {
	var unknown []string
	for _, id := range ids {
		if _, ok := t.index[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("unknown rule id(s): %s", strings.Join(unknown, ", "))
}

// SplitIDs parses a comma-separated ID list as accepted on the command line.
func SplitIDs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return cleanIDs(strings.Split(s, ","))
}

func cleanIDs(ids []string) []string {
	var out []string
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
