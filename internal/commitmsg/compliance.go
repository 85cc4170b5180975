package commitmsg

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reCompliant  = regexp.MustCompile(`^(` + strings.Join(Types, "|") + `)(\(.+\))?: .{3,}$`)
	reUpperStart = regexp.MustCompile(`^[A-Z]`)
	reTypePrefix = regexp.MustCompile(`^[a-z]+:`)
)

// Verdict is the pass/fail compliance of one subject line with a reason.
type Verdict struct {
	Compliant bool   `json:"compliant"`
	Reason    string `json:"reason"`
}

// Check reports whether the subject line follows the conventional-commit
// format and, if not, the most specific reason why.
func Check(message string) Verdict {
	subject := Subject(message)
	if reCompliant.MatchString(subject) {
		return Verdict{true, "follows conventional commits format"}
	}
	switch {
	case subject == "":
		return Verdict{false, "empty message"}
	case IsWIP(subject):
		return Verdict{false, "WIP commit, should not be merged"}
	case reUpperStart.MatchString(subject) && !reTypePrefix.MatchString(subject):
		return Verdict{false, "starts with uppercase without type prefix (use 'feat:', 'fix:', etc.)"}
	case len(strings.Fields(subject)) < 2:
		return Verdict{false, "too short, commit message should describe what changed"}
	case strings.HasSuffix(subject, "."):
		return Verdict{false, "ends with period, conventional commits messages do not end with periods"}
	}
	return Verdict{false, fmt.Sprintf("does not match 'type: description' format (got: '%s')", truncate(subject, 50))}
}

// IsWIP matches "wip", "wip:" and "work in progress" prefixes in any case.
func IsWIP(subject string) bool {
	l := strings.ToLower(strings.TrimSpace(subject))
	return strings.HasPrefix(l, "wip") || strings.HasPrefix(l, "work in progress")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
