package commitmsg

import (
	"fmt"
	"math"
	"regexp"
)

var reSessionUpdate = regexp.MustCompile(`^docs: update project state after session`)

// Commit is the metadata the governance score needs.
type Commit struct {
	Hash    string `json:"hash"`
	Message string `json:"message"`
}

// GovernanceReport is the weighted compliance of a commit history.
type GovernanceReport struct {
	Score             int      `json:"score"`
	Commits           int      `json:"commits"`
	MessageCompliance int      `json:"message_compliance"`
	SessionUpdates    int      `json:"session_updates"`
	WIPCommits        int      `json:"wip_commits"`
	NonCompliant      []string `json:"non_compliant_messages"`
}

const (
	weightFormat  = 0.50
	weightSession = 0.30
	weightNoWIP   = 0.20

	maxViolations = 10
	// one session-update commit expected per this many commits
	sessionEvery = 10
)

// Governance scores a history from 0 to 100: half for message format,
// 30% for session-update commits and 20% for the absence of WIP commits.
func Governance(commits []Commit) GovernanceReport {
	rep := GovernanceReport{Commits: len(commits), NonCompliant: []string{}}
	if len(commits) == 0 {
		return rep
	}
	n := float64(len(commits))
	compliant := 0
	for _, c := range commits {
		subject := Subject(c.Message)
		v := Check(subject)
		if v.Compliant {
			compliant++
		} else if len(rep.NonCompliant) < maxViolations {
			rep.NonCompliant = append(rep.NonCompliant, fmt.Sprintf("[%s] '%s' - %s", shortHash(c.Hash), truncate(subject, 60), v.Reason))
		}
		if reSessionUpdate.MatchString(subject) {
			rep.SessionUpdates++
		}
		if IsWIP(subject) {
			rep.WIPCommits++
		}
	}
	formatPct := float64(compliant) / n * 100
	expected := max(1, len(commits)/sessionEvery)
	sessionPct := math.Min(1, float64(rep.SessionUpdates)/float64(expected)) * 100
	noWIPPct := 100 - float64(rep.WIPCommits)/n*100

	rep.MessageCompliance = int(math.RoundToEven(formatPct))
	rep.Score = int(math.RoundToEven(formatPct*weightFormat + sessionPct*weightSession + noWIPPct*weightNoWIP))
	return rep
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
