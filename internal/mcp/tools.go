package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/varalys/diffgate/internal/commitmsg"
	"github.com/varalys/diffgate/internal/engine"
	"github.com/varalys/diffgate/internal/gate"
	"github.com/varalys/diffgate/internal/git"
	"github.com/varalys/diffgate/internal/report"
)

const defaultHistory = 20

func registerTools(s *server.MCPServer, base engine.Config, log *zap.Logger) {
	s.AddTool(
		mcplib.NewTool("diffgate_scan_diff",
			mcplib.WithDescription("Scan the added lines of a unified diff for secrets, PII and insecure settings. Returns findings, per-severity counts and whether the security gate passes."),
			mcplib.WithString("diff", mcplib.Required(), mcplib.Description("Unified diff text, e.g. the output of git diff")),
			mcplib.WithString("fail_on", mcplib.Description("Lowest blocking severity: critical, high, medium or low (default: configured policy)")),
		),
		handleScanDiff(base, log),
	)

	s.AddTool(
		mcplib.NewTool("diffgate_score_commit",
			mcplib.WithDescription("Score a commit message 0-3 against the conventional-commit format and explain what is missing"),
			mcplib.WithString("message", mcplib.Required(), mcplib.Description("Full commit message; only the subject line is scored")),
		),
		handleScoreCommit(),
	)

	s.AddTool(
		mcplib.NewTool("diffgate_list_rules",
			mcplib.WithDescription("List the active rules with their severities and descriptions"),
		),
		handleListRules(base),
	)

	s.AddTool(
		mcplib.NewTool("diffgate_governance",
			mcplib.WithDescription("Weighted commit-history governance score (0-100) for the repository being served"),
			mcplib.WithNumber("commits", mcplib.Description("How many recent commits to include (default 20)")),
		),
		handleGovernance(base.Root),
	)
}

func handleScanDiff(base engine.Config, log *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		text, err := request.RequireString("diff")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		cfg := base
		cfg.Input = text
		cfg.Plain = false
		cfg.GitBase, cfg.Commit = "", ""
		cfg.Source = "mcp"
		cfg.Logger = log
		if failOn := request.GetString("fail_on", ""); failOn != "" {
			p, err := gate.ParsePolicy(failOn)
			if err != nil {
				return errorResult(err.Error()), nil
			}
			cfg.Policy = p
		}
		res, err := engine.Run(ctx, cfg)
		if err != nil {
			return errorResult(fmt.Sprintf("scan failed: %v", err)), nil
		}
		return jsonResult(report.Build(res.Findings, res.Summary))
	}
}

type commitScore struct {
	Subject    string            `json:"subject"`
	Score      int               `json:"score"`
	Max        int               `json:"max"`
	Missing    []string          `json:"missing"`
	Compliance commitmsg.Verdict `json:"compliance"`
}

func handleScoreCommit() server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		msg, err := request.RequireString("message")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		q := commitmsg.Score(msg)
		return jsonResult(commitScore{
			Subject:    q.Subject,
			Score:      q.Score,
			Max:        q.Max,
			Missing:    q.Missing,
			Compliance: commitmsg.Check(msg),
		})
	}
}

type ruleInfo struct {
	Name        string `json:"name"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

func handleListRules(base engine.Config) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		table, err := engine.BuildTable(base)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		out := make([]ruleInfo, 0, table.Len())
		for _, r := range table.Rules() {
			out = append(out, ruleInfo{Name: r.Name(), Severity: string(r.Severity()), Description: r.Description()})
		}
		return jsonResult(out)
	}
}

func handleGovernance(root string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		n := request.GetInt("commits", defaultHistory)
		if n <= 0 {
			return errorResult("commits must be positive"), nil
		}
		dir := root
		if dir == "" {
			dir = "."
		}
		commits, err := git.Messages(dir, n)
		if err != nil {
			return errorResult(fmt.Sprintf("reading history failed: %v", err)), nil
		}
		return jsonResult(commitmsg.Governance(commits))
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
