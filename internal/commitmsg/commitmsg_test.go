package commitmsg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		msg     string
		score   int
		missing []string
	}{
		{"feat(auth): add token refresh", 3, []string{}},
		{"fix: correct off-by-one in parser", 2, []string{"scope (e.g., feat(auth): ...)"}},
		{"feat!: drop python 3.8", 2, []string{"scope (e.g., feat(auth): ...)"}},
		{"yolo(core): rewrite everything", 2, []string{"recognized type (feat, fix, docs, ...)"}},
		{"Fix: x", 1, []string{"recognized type (feat, fix, docs, ...)", "scope (e.g., feat(auth): ...)"}},
		{"Feat(API): add login", 2, []string{"recognized type (feat, fix, docs, ...)"}},
		{"Updated stuff", 0, []string{"format (e.g., type: description)", "recognized type (feat, fix, docs, ...)", "scope (e.g., feat(auth): ...)"}},
		{"", 0, []string{"format (e.g., type: description)", "recognized type (feat, fix, docs, ...)", "scope (e.g., feat(auth): ...)"}},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			q := Score(tt.msg)
			assert.Equal(t, tt.score, q.Score)
			assert.Equal(t, 3, q.Max)
			assert.Equal(t, tt.missing, q.Missing)
			assert.Equal(t, q.Max, len(q.Passed)+len(q.Missing))
		})
	}
}

func TestScore_HintAndString(t *testing.T) {
	q := Score("fix: correct off-by-one in parser")
	assert.Equal(t, "missing: scope (e.g., feat(auth): ...)", q.Hint())
	assert.Equal(t, "2/3 missing: scope (e.g., feat(auth): ...)", q.String())

	full := Score("feat(auth): add token refresh")
	assert.Empty(t, full.Hint())
	assert.Equal(t, "3/3", full.String())
}

func TestScore_OnlySubjectLine(t *testing.T) {
	q := Score("update things\n\nfeat(auth): this is in the body")
	assert.Equal(t, 0, q.Score)
	assert.Equal(t, "update things", q.Subject)
}

func TestScorer_ChecksInOrder(t *testing.T) {
	assert.Equal(t, []string{CheckFormat, CheckType, CheckScope}, NewScorer().Checks().IDs())
}

func TestCheck(t *testing.T) {
	tests := []struct {
		msg    string
		ok     bool
		reason string
	}{
		{"feat(api): add pagination", true, "follows conventional commits format"},
		{"", false, "empty message"},
		{"WIP: half done", false, "WIP commit, should not be merged"},
		{"Added a feature", false, "starts with uppercase without type prefix (use 'feat:', 'fix:', etc.)"},
		{"stuff", false, "too short, commit message should describe what changed"},
		{"fixed the thing.", false, "ends with period, conventional commits messages do not end with periods"},
		{"fix: ab", false, "does not match 'type: description' format (got: 'fix: ab')"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			v := Check(tt.msg)
			assert.Equal(t, tt.ok, v.Compliant)
			assert.Equal(t, tt.reason, v.Reason)
		})
	}
}

func TestGovernance_Empty(t *testing.T) {
	rep := Governance(nil)
	assert.Equal(t, 0, rep.Score)
	assert.Empty(t, rep.NonCompliant)
}

func TestGovernance_Weights(t *testing.T) {
	commits := []Commit{
		{Hash: "aaaaaaaaaaaa", Message: "feat(api): add pagination"},
		{Hash: "bbbbbbbbbbbb", Message: "docs: update project state after session 12"},
		{Hash: "cccccccccccc", Message: "wip"},
		{Hash: "dddddddddddd", Message: "fix: handle nil config"},
	}
	rep := Governance(commits)
	// format 3/4 = 75 -> 37.5, session 1/1 -> 30, no-WIP 75 -> 15
	assert.Equal(t, 83, rep.Score)
	assert.Equal(t, 75, rep.MessageCompliance)
	assert.Equal(t, 1, rep.SessionUpdates)
	assert.Equal(t, 1, rep.WIPCommits)
	require.Len(t, rep.NonCompliant, 1)
	assert.Equal(t, "[cccccccc] 'wip' - WIP commit, should not be merged", rep.NonCompliant[0])
}

func TestGovernance_CapsViolations(t *testing.T) {
	var commits []Commit
	for i := 0; i < 15; i++ {
		commits = append(commits, Commit{Hash: "h", Message: "Changed things"})
	}
	rep := Governance(commits)
	assert.Len(t, rep.NonCompliant, 10)
	// no format, no session updates, no WIP: only the 20% WIP share remains
	assert.Equal(t, 20, rep.Score)
}

func TestGovernance_RoundsHalfToEven(t *testing.T) {
	commits := []Commit{{Hash: "a", Message: "feat(api): add pagination"}}
	for i := 0; i < 7; i++ {
		commits = append(commits, Commit{Hash: "h", Message: "Changed things"})
	}
	rep := Governance(commits)
	// 1/8 compliant is exactly 12.5%
	assert.Equal(t, 12, rep.MessageCompliance)
	assert.Equal(t, 26, rep.Score)
}
