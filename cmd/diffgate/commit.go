package diffgate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/varalys/diffgate/internal/commitmsg"
	"github.com/varalys/diffgate/internal/git"
)

type commitResult struct {
	Subject    string            `json:"subject"`
	Score      int               `json:"score"`
	Max        int               `json:"max"`
	Passed     []string          `json:"passed"`
	Missing    []string          `json:"missing"`
	Compliance commitmsg.Verdict `json:"compliance"`
}

func (a *app) commitCmd() *cobra.Command {
	var (
		path     string
		history  int
		minScore int
		format   string
	)
	cmd := &cobra.Command{
		Use:   "commit [MESSAGE]",
		Short: "Score a commit message against the conventional-commit format",
		Long: `Commit scores one message from 0 to 3 (format, recognized type, scope). The
message comes from the arguments, else stdin, else the HEAD commit. With
--history N it reports the weighted governance score of the last N commits.`,
		Example: `  diffgate commit "feat(auth): add token refresh"
  git log -1 --format=%B | diffgate commit --min-score 2
  diffgate commit --history 50 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if history < 0 {
				return fmt.Errorf("--history must be positive")
			}
			if history > 0 {
				commits, err := git.Messages(path, history)
				if err != nil {
					return fmt.Errorf("read history: %w", err)
				}
				return a.writeGovernance(format, commitmsg.Governance(commits))
			}

			msg, err := a.commitMessage(path, args)
			if err != nil {
				return err
			}
			q := commitmsg.Score(msg)
			v := commitmsg.Check(msg)
			if err := a.writeCommitScore(format, q, v); err != nil {
				return err
			}

			required := pickInt(minScore, a.local.MinCommitScore, a.global.MinCommitScore)
			if required > 0 && q.Score < required {
				return &exitError{code: 1, msg: fmt.Sprintf("COMMIT MESSAGE CHECK FAILED: score %d/%d is below the required %d (%s)", q.Score, q.Max, required, q.Hint())}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", ".", "repository root")
	cmd.Flags().IntVar(&history, "history", 0, "score the last N commits instead of one message")
	cmd.Flags().IntVar(&minScore, "min-score", 0, "exit 1 when the score is below this (0-3, 0 disables)")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text|json")
	return cmd
}

// commitMessage resolves the message from args, then non-interactive stdin,
// then the HEAD commit.
func (a *app) commitMessage(path string, args []string) (string, error) {
	if msg := strings.TrimSpace(strings.Join(args, " ")); msg != "" {
		return msg, nil
	}
	if !a.stdinIsTerminal() {
		b, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		if msg := strings.TrimSpace(string(b)); msg != "" {
			return msg, nil
		}
	}
	msg, err := git.HeadMessage(path)
	if err != nil {
		return "", fmt.Errorf("no message given and HEAD unreadable: %w", err)
	}
	return msg, nil
}

func (a *app) writeCommitScore(format string, q commitmsg.Quality, v commitmsg.Verdict) error {
	switch format {
	case "json":
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(commitResult{
			Subject:    q.Subject,
			Score:      q.Score,
			Max:        q.Max,
			Passed:     q.Passed,
			Missing:    q.Missing,
			Compliance: v,
		})
	case "", "text":
		fmt.Fprintf(a.stdout, "%s\n", q.Subject)
		fmt.Fprintf(a.stdout, "score: %s\n", q)
		status := "compliant"
		if !v.Compliant {
			status = "non-compliant"
		}
		fmt.Fprintf(a.stdout, "%s: %s\n", status, v.Reason)
		return nil
	}
	return fmt.Errorf("unknown --format %q (want text|json)", format)
}

func (a *app) writeGovernance(format string, rep commitmsg.GovernanceReport) error {
	switch format {
	case "json":
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "", "text":
		fmt.Fprintf(a.stdout, "Governance score: %d/100 (%d commits)\n", rep.Score, rep.Commits)
		fmt.Fprintf(a.stdout, "Message compliance: %d%%\n", rep.MessageCompliance)
		fmt.Fprintf(a.stdout, "Session updates: %d\n", rep.SessionUpdates)
		fmt.Fprintf(a.stdout, "WIP commits: %d\n", rep.WIPCommits)
		if len(rep.NonCompliant) > 0 {
			fmt.Fprintln(a.stdout, "Non-compliant messages:")
			for _, m := range rep.NonCompliant {
				fmt.Fprintf(a.stdout, "  %s\n", m)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown --format %q (want text|json)", format)
}
